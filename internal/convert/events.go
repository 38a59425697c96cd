package convert

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"bcimerge/internal/faults"
	"bcimerge/internal/fileutil"
	"bcimerge/internal/sessionlog"
)

// EventTimestamps rewrites the event log at src, whose timestamps are float
// seconds, into dst with integer microsecond timestamps. src and dst may be
// the same file.
func EventTimestamps(src, dst string) (Report, error) {
	f, err := os.Open(src)
	if err != nil {
		return Report{Source: src}, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	var report Report
	err = fileutil.WriteAtomic(dst, 0o644, func(w io.Writer) error {
		var convErr error
		report, convErr = ConvertEventTimestamps(f, w, src)
		return convErr
	})
	return report, err
}

// ConvertEventTimestamps streams an event log from r to w, truncating
// seconds*1e6 to an integer. The row, col and correct cells are copied as is.
func ConvertEventTimestamps(r io.Reader, w io.Writer, source string) (Report, error) {
	report := Report{Source: source}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return report, faults.Wrap(faults.ErrValidation, "convert", "events", source+" is empty", nil)
	}
	if err != nil {
		return report, faults.Wrap(faults.ErrParse, "convert", "events", source, err)
	}
	if !slices.Equal(header, sessionlog.EventHeader) {
		return report, faults.Wrap(faults.ErrValidation, "convert", "events",
			fmt.Sprintf("%s: header must be %q", source, strings.Join(sessionlog.EventHeader, ",")), nil)
	}

	out, err := sessionlog.NewEventWriter(w)
	if err != nil {
		return report, err
	}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, faults.Wrap(faults.ErrParse, "convert", "events", source, err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) != len(sessionlog.EventHeader) {
			return report, faults.Wrap(faults.ErrParse, "convert", "events",
				fmt.Sprintf("%s line %d: expected %d columns, got %d", source, line, len(sessionlog.EventHeader), len(record)), nil)
		}
		seconds, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return report, faults.Wrap(faults.ErrParse, "convert", "events",
				fmt.Sprintf("%s line %d: invalid timestamp %q", source, line, record[0]), nil)
		}
		if err := out.WriteRecord(int64(seconds*1_000_000), record[1], record[2], record[3]); err != nil {
			return report, err
		}
		report.Rows++
	}
	return report, out.Flush()
}
