package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"bcimerge/internal/fileutil"
)

// Write encodes ds as compact JSON.
func Write(w io.Writer, ds *Dataset) error {
	out := *ds
	if out.Datapoints == nil {
		out.Datapoints = []Datapoint{}
	}
	if err := json.NewEncoder(w).Encode(&out); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

// WriteFile replaces path with the encoded dataset. A failed write leaves any
// previous file in place.
func WriteFile(path string, ds *Dataset) error {
	if err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Write(w, ds)
	}); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return nil
}

// Read decodes a dataset document.
func Read(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if ds.Datapoints == nil {
		ds.Datapoints = []Datapoint{}
	}
	return &ds, nil
}

// ReadFile decodes the dataset stored at path.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Read(f)
}
