package dataset

import (
	"context"
	"fmt"
	"log/slog"

	"bcimerge/internal/device"
	"bcimerge/internal/logging"
	"bcimerge/internal/sessionlog"
)

// Assembler combines an ordered list of sessions into one dataset.
type Assembler struct {
	adapter device.Adapter
	opts    Options
	logger  *slog.Logger
}

// NewAssembler builds an assembler decoding signal logs with adapter.
func NewAssembler(adapter device.Adapter, opts Options, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Assembler{
		adapter: adapter,
		opts:    opts,
		logger:  logger.With(slog.String(logging.FieldComponent, "assembler")),
	}
}

// CombineFiles reads one session's logs and combines them.
func (a *Assembler) CombineFiles(session Session) ([]Datapoint, SessionStats, error) {
	stats := SessionStats{Session: session}
	signal, err := sessionlog.ReadSignalFile(session.Signal, a.adapter)
	if err != nil {
		return nil, stats, err
	}
	events, err := sessionlog.ReadEventFile(session.Events)
	if err != nil {
		return nil, stats, err
	}
	stats.Samples = signal.Len()
	stats.Events = events.Len()

	points, err := combine(signal, events, a.opts, a.logger)
	if err != nil {
		return nil, stats, err
	}
	stats.Datapoints = len(points)
	for _, p := range points {
		if len(p.Window) < a.opts.Length {
			stats.Truncated++
		}
	}
	return points, stats, nil
}

// Assemble combines sessions in order and attaches description verbatim.
// Cancellation is honoured between sessions.
func (a *Assembler) Assemble(ctx context.Context, description string, sessions []Session) (*Dataset, []SessionStats, error) {
	ds := &Dataset{
		Description: description,
		Datapoints:  []Datapoint{},
	}
	allStats := make([]SessionStats, 0, len(sessions))
	for i, session := range sessions {
		if err := ctx.Err(); err != nil {
			return nil, allStats, err
		}
		logger := a.logger.With(
			slog.Int(logging.FieldSession, i+1),
			slog.String("signal", session.Signal),
			slog.String("events", session.Events),
		)
		logger.Debug("combining session")
		points, stats, err := a.CombineFiles(session)
		if err != nil {
			return nil, allStats, fmt.Errorf("session %d: %w", i+1, err)
		}
		logger.Info("session combined",
			slog.Int("samples", stats.Samples),
			slog.Int("events", stats.Events),
			slog.Int("datapoints", stats.Datapoints),
			slog.Int("truncated", stats.Truncated),
		)
		ds.Datapoints = append(ds.Datapoints, points...)
		allStats = append(allStats, stats)
	}
	return ds, allStats, nil
}
