package device

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"bcimerge/internal/faults"
)

// TimestampColumn is the literal name of the first column of every signal log.
const TimestampColumn = "timestamp"

// Sample is one decoded signal-log row.
type Sample struct {
	Timestamp int64
	Values    []float64
}

// Adapter validates and decodes the rows of one headset family.
type Adapter interface {
	// Name is the registry key of the family.
	Name() string
	// Channels lists channel names in column order.
	Channels() []string
	AreHeadersCorrect(header []string) bool
	ReadValues(row []string) (Sample, error)
}

var registry = map[string]Adapter{
	"neiry":  Neiry{},
	"emotiv": Emotiv{},
}

// Lookup returns the adapter registered under name.
func Lookup(name string) (Adapter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if adapter, ok := registry[key]; ok {
		return adapter, nil
	}
	return nil, faults.Wrap(faults.ErrValidation, "device", "lookup",
		fmt.Sprintf("unknown device %q (known: %s)", name, strings.Join(Names(), ", ")), nil)
}

// Names lists the registered families in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpectedHeader renders the canonical header for an adapter.
func ExpectedHeader(a Adapter) string {
	return TimestampColumn + "," + strings.Join(a.Channels(), ",")
}

func headerMatches(header []string, channels []string) bool {
	if len(header) != len(channels)+1 || header[0] != TimestampColumn {
		return false
	}
	fold := cases.Fold()
	for i, name := range channels {
		if fold.String(header[i+1]) != fold.String(name) {
			return false
		}
	}
	return true
}

func genericChannels(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "channel_" + strconv.Itoa(i)
	}
	return names
}

func decodeRow(row []string, channels []string) (Sample, error) {
	if len(row) != len(channels)+1 {
		return Sample{}, faults.Wrap(faults.ErrParse, "device", "decode row",
			fmt.Sprintf("expected %d columns, got %d", len(channels)+1, len(row)), nil)
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return Sample{}, faults.Wrap(faults.ErrParse, "device", "decode row",
			fmt.Sprintf("column %s: %q is not an integer", TimestampColumn, row[0]), nil)
	}
	values := make([]float64, len(channels))
	for i, name := range channels {
		cell := strings.TrimSpace(row[i+1])
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Sample{}, faults.Wrap(faults.ErrParse, "device", "decode row",
				fmt.Sprintf("column %s: %q is not a finite number", name, row[i+1]), nil)
		}
		values[i] = v
	}
	return Sample{Timestamp: ts, Values: values}, nil
}
