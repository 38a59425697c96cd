package convert

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"bcimerge/internal/device"
	"bcimerge/internal/faults"
	"bcimerge/internal/fileutil"
	"bcimerge/internal/sessionlog"
)

const (
	startedLabel  = "timestamp started"
	samplingLabel = "sampling"
	// emotivFirstChannel is the export column holding the first channel.
	emotivFirstChannel = 2
)

// Report summarizes one conversion.
type Report struct {
	Source string
	Rows   int
	// Start and Step describe synthesized timestamps; zero for event logs.
	Start int64
	Step  int64
}

// EmotivExport converts the raw export at src into a canonical emotiv signal
// log at dst. src and dst may be the same file.
func EmotivExport(src, dst string) (Report, error) {
	f, err := os.Open(src)
	if err != nil {
		return Report{Source: src}, fmt.Errorf("open emotiv export: %w", err)
	}
	defer f.Close()

	var report Report
	err = fileutil.WriteAtomic(dst, 0o644, func(w io.Writer) error {
		var convErr error
		report, convErr = ConvertEmotiv(f, w, src)
		return convErr
	})
	return report, err
}

// ConvertEmotiv streams an Emotiv export from r to w. The first record must
// carry "timestamp started:<seconds>" in column 2 and "sampling:<hz>" in
// column 3. A column-name row directly after it is skipped.
func ConvertEmotiv(r io.Reader, w io.Writer, source string) (Report, error) {
	report := Report{Source: source}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	meta, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return report, faults.Wrap(faults.ErrValidation, "convert", "emotiv", source+" is empty", nil)
	}
	if err != nil {
		return report, faults.Wrap(faults.ErrParse, "convert", "emotiv", source, err)
	}
	started, err := metadataValue(meta, 2, startedLabel)
	if err != nil {
		return report, faults.Wrap(faults.ErrValidation, "convert", "emotiv", source, err)
	}
	sampling, err := metadataValue(meta, 3, samplingLabel)
	if err != nil {
		return report, faults.Wrap(faults.ErrValidation, "convert", "emotiv", source, err)
	}
	rate := int64(math.RoundToEven(sampling))
	if rate <= 0 {
		return report, faults.Wrap(faults.ErrValidation, "convert", "emotiv", fmt.Sprintf("%s: sampling rate %v must be positive", source, sampling), nil)
	}
	report.Start = int64(math.RoundToEven(started))
	report.Step = 1_000_000 / rate

	channels := device.Emotiv{}.Channels()
	header := make([]string, len(channels))
	for i, name := range channels {
		header[i] = strings.ToLower(name)
	}
	out, err := sessionlog.NewSignalWriter(w, header)
	if err != nil {
		return report, err
	}

	width := len(channels)
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, faults.Wrap(faults.ErrParse, "convert", "emotiv", source, err)
		}
		line, _ := reader.FieldPos(0)
		if first {
			first = false
			if isColumnNameRow(record) {
				continue
			}
		}
		if len(record) < emotivFirstChannel+width {
			return report, faults.Wrap(faults.ErrParse, "convert", "emotiv",
				fmt.Sprintf("%s line %d: expected at least %d columns, got %d", source, line, emotivFirstChannel+width, len(record)), nil)
		}
		ts := report.Start + int64(report.Rows)*report.Step
		if err := out.WriteRow(ts, record[emotivFirstChannel:emotivFirstChannel+width]); err != nil {
			return report, err
		}
		report.Rows++
	}
	return report, out.Flush()
}

func metadataValue(record []string, column int, label string) (float64, error) {
	if len(record) <= column {
		return 0, fmt.Errorf("missing %q metadata in column %d", label, column)
	}
	key, value, ok := strings.Cut(record[column], ":")
	if !ok || strings.TrimSpace(key) != label {
		return 0, fmt.Errorf("missing %q metadata in column %d", label, column)
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, fmt.Errorf("invalid %q value %q", label, strings.TrimSpace(value))
	}
	return parsed, nil
}

func isColumnNameRow(record []string) bool {
	if len(record) <= emotivFirstChannel {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(record[emotivFirstChannel]), 64)
	return err != nil
}
