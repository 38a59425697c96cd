package sessionlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"bcimerge/internal/device"
)

// EventWriter appends rows to one event log. The header is written on
// construction.
type EventWriter struct {
	w *csv.Writer
}

// NewEventWriter binds a writer to w and emits the header.
func NewEventWriter(w io.Writer) (*EventWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(EventHeader); err != nil {
		return nil, fmt.Errorf("write event header: %w", err)
	}
	return &EventWriter{w: cw}, nil
}

// Write appends one event.
func (w *EventWriter) Write(e Event) error {
	correct := "False"
	if e.Correct {
		correct = CorrectLiteral
	}
	return w.WriteRecord(e.Timestamp, e.Row, e.Col, correct)
}

// WriteRecord appends one row with the correct cell taken verbatim.
func (w *EventWriter) WriteRecord(timestamp int64, row, col, correct string) error {
	if err := w.w.Write([]string{strconv.FormatInt(timestamp, 10), row, col, correct}); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// Flush writes buffered rows to the underlying writer.
func (w *EventWriter) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// SignalWriter appends rows to one canonical signal log.
type SignalWriter struct {
	w        *csv.Writer
	channels int
}

// NewSignalWriter binds a writer to w and emits the header for channels.
func NewSignalWriter(w io.Writer, channels []string) (*SignalWriter, error) {
	cw := csv.NewWriter(w)
	header := append([]string{device.TimestampColumn}, channels...)
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("write signal header: %w", err)
	}
	return &SignalWriter{w: cw, channels: len(channels)}, nil
}

// WriteSample appends one decoded sample.
func (w *SignalWriter) WriteSample(s device.Sample) error {
	cells := make([]string, len(s.Values))
	for i, v := range s.Values {
		cells[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return w.WriteRow(s.Timestamp, cells)
}

// WriteRow appends one row with channel cells taken verbatim.
func (w *SignalWriter) WriteRow(timestamp int64, cells []string) error {
	if len(cells) != w.channels {
		return fmt.Errorf("write sample: expected %d channel values, got %d", w.channels, len(cells))
	}
	record := make([]string, 0, len(cells)+1)
	record = append(record, strconv.FormatInt(timestamp, 10))
	record = append(record, cells...)
	if err := w.w.Write(record); err != nil {
		return fmt.Errorf("write sample: %w", err)
	}
	return nil
}

// Flush writes buffered rows to the underlying writer.
func (w *SignalWriter) Flush() error {
	w.w.Flush()
	return w.w.Error()
}
