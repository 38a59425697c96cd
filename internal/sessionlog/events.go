package sessionlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"bcimerge/internal/faults"
)

// EventHeader is the exact header of every event log.
var EventHeader = []string{"timestamp", "row", "col", "correct"}

// CorrectLiteral is the only cell value that marks an event as correct.
const CorrectLiteral = "True"

// Event is one stimulus highlight and whether it matched the target symbol.
type Event struct {
	Timestamp int64
	Row       string
	Col       string
	Correct   bool
}

// EventLog is the ordered stimulus record of one session.
type EventLog struct {
	Source string
	Events []Event
}

// Len reports the number of events.
func (l *EventLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Events)
}

// Span returns the first and last event timestamps.
func (l *EventLog) Span() (first, last int64) {
	if l.Len() == 0 {
		return 0, 0
	}
	return l.Events[0].Timestamp, l.Events[len(l.Events)-1].Timestamp
}

// CorrectCount reports how many events are marked correct.
func (l *EventLog) CorrectCount() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, e := range l.Events {
		if e.Correct {
			n++
		}
	}
	return n
}

// ReadEventFile opens and decodes an event log.
func ReadEventFile(path string) (*EventLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()
	return ReadEventLog(f, path)
}

// ReadEventLog decodes a whole event log. source names the input in errors.
func ReadEventLog(r io.Reader, source string) (*EventLog, error) {
	reader := newCSVReader(r)
	expected := strings.Join(EventHeader, ",")

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, faults.Wrap(faults.ErrValidation, "event log", source,
				"missing header, expected "+expected, nil)
		}
		return nil, faults.Wrap(faults.ErrParse, "event log", source, "read header", err)
	}
	if !isEventHeader(header) {
		return nil, faults.Wrap(faults.ErrValidation, "event log", source,
			fmt.Sprintf("wrong header %q, expected %s", strings.Join(header, ","), expected), nil)
	}

	log := &EventLog{Source: source}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, faults.Wrap(faults.ErrParse, "event log", source, "read row", err)
		}
		line, _ := reader.FieldPos(0)
		if len(row) != len(EventHeader) {
			return nil, faults.Wrap(faults.ErrParse, "event log", source,
				fmt.Sprintf("line %d: expected %d columns, got %d", line, len(EventHeader), len(row)), nil)
		}
		ts, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			return nil, faults.Wrap(faults.ErrParse, "event log", source,
				fmt.Sprintf("line %d: timestamp %q is not an integer", line, row[0]), nil)
		}
		log.Events = append(log.Events, Event{
			Timestamp: ts,
			Row:       row[1],
			Col:       row[2],
			Correct:   row[3] == CorrectLiteral,
		})
	}
	return log, nil
}

func isEventHeader(header []string) bool {
	if len(header) != len(EventHeader) {
		return false
	}
	for i, name := range EventHeader {
		if header[i] != name {
			return false
		}
	}
	return true
}
