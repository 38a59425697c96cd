package sessionlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"bcimerge/internal/device"
	"bcimerge/internal/faults"
)

// SignalLog is one continuous recording, ordered by timestamp.
type SignalLog struct {
	Source  string
	Device  string
	Samples []device.Sample
}

// Len reports the number of samples.
func (l *SignalLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Samples)
}

// Span returns the first and last sample timestamps.
func (l *SignalLog) Span() (first, last int64) {
	if l.Len() == 0 {
		return 0, 0
	}
	return l.Samples[0].Timestamp, l.Samples[len(l.Samples)-1].Timestamp
}

// Channels reports the per-sample channel count.
func (l *SignalLog) Channels() int {
	if l.Len() == 0 {
		return 0
	}
	return len(l.Samples[0].Values)
}

// ReadSignalFile opens path and decodes it with adapter.
func ReadSignalFile(path string, adapter device.Adapter) (*SignalLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signal log: %w", err)
	}
	defer f.Close()
	return ReadSignalLog(f, path, adapter)
}

// ReadSignalLog decodes a whole signal log. source names the input in errors.
func ReadSignalLog(r io.Reader, source string, adapter device.Adapter) (*SignalLog, error) {
	reader := newCSVReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, faults.Wrap(faults.ErrValidation, "signal log", source,
				"missing header, expected "+device.ExpectedHeader(adapter), nil)
		}
		return nil, faults.Wrap(faults.ErrParse, "signal log", source, "read header", err)
	}
	if !adapter.AreHeadersCorrect(header) {
		return nil, faults.Wrap(faults.ErrValidation, "signal log", source,
			fmt.Sprintf("incorrect headers for %s device, expected %s", adapter.Name(), device.ExpectedHeader(adapter)), nil)
	}

	log := &SignalLog{Source: source, Device: adapter.Name()}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, faults.Wrap(faults.ErrParse, "signal log", source, "read row", err)
		}
		line, _ := reader.FieldPos(0)
		sample, err := adapter.ReadValues(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", source, line, err)
		}
		log.Samples = append(log.Samples, sample)
	}

	if len(log.Samples) == 0 {
		return nil, faults.Wrap(faults.ErrValidation, "signal log", source, "contains no samples", nil)
	}
	return log, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false
	return reader
}
