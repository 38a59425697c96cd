package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"bcimerge/internal/config"
	"bcimerge/internal/manifest"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Report collects environment and per-session results.
type Report struct {
	Environment []Result        `json:"environment"`
	Sessions    []SessionReport `json:"sessions"`
}

// Passed reports whether every check succeeded.
func (r Report) Passed() bool {
	for _, res := range r.Environment {
		if !res.Passed {
			return false
		}
	}
	for _, s := range r.Sessions {
		if !s.Passed() {
			return false
		}
	}
	return true
}

// RunAll executes the environment checks and dry-runs every session of job.
// The job must already be resolved. Cancellation is honoured between sessions.
func RunAll(ctx context.Context, cfg *config.Config, job *manifest.Job) (Report, error) {
	var report Report
	if job == nil {
		return report, nil
	}

	adapter, err := job.Adapter()
	if err != nil {
		return report, err
	}

	if job.Output != "" {
		report.Environment = append(report.Environment, CheckOutputTarget(job.Output))
	}
	if cfg != nil && cfg.Catalog.Enabled && cfg.Catalog.Path != "" {
		report.Environment = append(report.Environment, checkCatalogDirectory(filepath.Dir(cfg.Catalog.Path)))
	}

	opts := job.Options()
	for i, session := range job.Sessions {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Sessions = append(report.Sessions, CheckSession(i+1, session, adapter, opts))
	}
	return report, nil
}

func checkCatalogDirectory(dir string) Result {
	const name = "Catalog directory"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", dir)}
	}
	return CheckDirectoryAccess(name, dir)
}
