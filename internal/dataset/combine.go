package dataset

import (
	"fmt"
	"log/slog"

	"bcimerge/internal/align"
	"bcimerge/internal/faults"
	"bcimerge/internal/sessionlog"
)

// CombineSession builds one datapoint per event of events. Each event is
// aligned to the first sample at or after its timestamp; the window starts at
// the first sample at or after that sample's timestamp plus opts.Shift.
func CombineSession(signal *sessionlog.SignalLog, events *sessionlog.EventLog, opts Options) ([]Datapoint, error) {
	return combine(signal, events, opts, nil)
}

func combine(signal *sessionlog.SignalLog, events *sessionlog.EventLog, opts Options, logger *slog.Logger) ([]Datapoint, error) {
	if signal.Len() == 0 {
		return nil, faults.Wrap(faults.ErrValidation, "combine", signal.Source, "signal log contains no samples", nil)
	}
	samples := signal.Samples
	points := make([]Datapoint, 0, events.Len())
	for i, event := range events.Events {
		start := align.FindStartOfInterval(samples, event.Timestamp, 0, -1)
		if start == align.NoOverlap {
			return nil, overlapError(signal, events, i, event.Timestamp)
		}
		shiftedTimestamp := samples[start].Timestamp + opts.Shift
		shifted := align.FindStartOfInterval(samples, shiftedTimestamp, start, -1)
		if shifted == align.NoOverlap {
			return nil, overlapError(signal, events, i, shiftedTimestamp)
		}
		if logger != nil {
			logger.Debug("event aligned",
				slog.Int("event", i),
				slog.Int64("timestamp", event.Timestamp),
				slog.Int("index", start),
				slog.Int("window_start", shifted),
			)
		}
		points = append(points, Datapoint{
			IsCorrect: event.Correct,
			Window:    align.Window(samples, shifted, opts.Length),
		})
	}
	return points, nil
}

func overlapError(signal *sessionlog.SignalLog, events *sessionlog.EventLog, index int, timestamp int64) error {
	_, last := signal.Span()
	return faults.Wrap(faults.ErrAlignment, "combine", events.Source,
		fmt.Sprintf("event %d at %d is past the end of signal log %s (last sample %d); the bci log period and the event log period do not overlap",
			index, timestamp, signal.Source, last), nil)
}
