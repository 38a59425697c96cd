package build

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"bcimerge/internal/catalog"
	"bcimerge/internal/config"
	"bcimerge/internal/dataset"
	"bcimerge/internal/faults"
	"bcimerge/internal/fileutil"
	"bcimerge/internal/logging"
	"bcimerge/internal/manifest"
)

// LockSuffix is appended to the output path to name its lock file.
const LockSuffix = ".lock"

// Result describes a completed build.
type Result struct {
	RunID       string                 `json:"run_id"`
	Output      string                 `json:"output"`
	Description string                 `json:"desc"`
	Device      string                 `json:"device"`
	Shift       int64                  `json:"shift"`
	Length      int                    `json:"length"`
	Summary     dataset.Summary        `json:"summary"`
	Sessions    []dataset.SessionStats `json:"sessions"`
	SHA256      string                 `json:"sha256"`
	Bytes       int64                  `json:"bytes"`
	Duration    time.Duration          `json:"duration"`
	Recorded    bool                   `json:"recorded"`
}

// Builder executes build jobs.
type Builder struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// New constructs a builder. A nil logger discards output.
func New(cfg *config.Config, logger *slog.Logger) *Builder {
	return &Builder{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "build"),
		now:    time.Now,
	}
}

// Run executes job, which must already be resolved and validated.
func (b *Builder) Run(ctx context.Context, job *manifest.Job) (*Result, error) {
	if job == nil {
		return nil, faults.Wrap(faults.ErrValidation, "build", "run", "job is nil", nil)
	}
	adapter, err := job.Adapter()
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = logging.ContextWithRunID(ctx, runID)
	logger := logging.WithContext(ctx, b.logger)
	started := b.now()
	opts := job.Options()

	lockPath := job.Output + LockSuffix
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrLocked, "build", "lock", "another build is writing "+job.Output, nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release output lock", slog.String(logging.FieldPath, lockPath), logging.Error(err))
		}
	}()

	logger.Info("build started",
		slog.String(logging.FieldPath, job.Output),
		slog.String(logging.FieldDevice, adapter.Name()),
		slog.Int("sessions", len(job.Sessions)),
		slog.Int64("shift", opts.Shift),
		slog.Int("length", opts.Length),
	)

	asm := dataset.NewAssembler(adapter, opts, logger)
	ds, stats, err := asm.Assemble(ctx, job.Description, job.Sessions)
	if err != nil {
		logger.Error("build failed", slog.String("kind", faults.Kind(err)), logging.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := dataset.WriteFile(job.Output, ds); err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}
	sum, size, err := fileutil.HashFile(job.Output)
	if err != nil {
		return nil, fmt.Errorf("hash dataset: %w", err)
	}

	result := &Result{
		RunID:       runID,
		Output:      job.Output,
		Description: ds.Description,
		Device:      adapter.Name(),
		Shift:       opts.Shift,
		Length:      opts.Length,
		Summary:     ds.Summarize(opts.Length),
		Sessions:    stats,
		SHA256:      sum,
		Bytes:       size,
		Duration:    b.now().Sub(started),
	}

	if b.cfg != nil && b.cfg.Catalog.Enabled {
		if err := b.record(ctx, result); err != nil {
			logger.Warn("failed to record build in catalog", logging.Error(err))
		} else {
			result.Recorded = true
		}
	}

	logger.Info("build complete",
		slog.String(logging.FieldPath, result.Output),
		slog.Int("datapoints", result.Summary.Datapoints),
		slog.Int("correct", result.Summary.Correct),
		slog.Int("truncated", result.Summary.Truncated),
		slog.String("sha256", result.SHA256),
		slog.Duration("duration", result.Duration),
	)
	return result, nil
}

func (b *Builder) record(ctx context.Context, result *Result) error {
	store, err := catalog.Open(b.cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	if upgraded := store.Upgraded(); len(upgraded) > 0 {
		logging.WithContext(ctx, b.logger).Info("catalog schema upgraded",
			slog.String(logging.FieldPath, store.Path()),
			slog.Any("versions", upgraded),
		)
	}

	entry := &catalog.Build{
		RunID:       result.RunID,
		Output:      result.Output,
		Description: result.Description,
		Device:      result.Device,
		Shift:       result.Shift,
		Length:      result.Length,
		Datapoints:  result.Summary.Datapoints,
		Correct:     result.Summary.Correct,
		SHA256:      result.SHA256,
		Bytes:       result.Bytes,
		CreatedAt:   b.now().UTC(),
	}
	for i, s := range result.Sessions {
		entry.Sessions = append(entry.Sessions, catalog.BuildSession{
			Position:   i + 1,
			Signal:     s.Session.Signal,
			Events:     s.Session.Events,
			Samples:    s.Samples,
			EventCount: s.Events,
			Datapoints: s.Datapoints,
			Truncated:  s.Truncated,
		})
	}
	// The dataset is already on disk; record it even if ctx was cancelled.
	return store.RecordBuild(context.WithoutCancel(ctx), entry)
}
