package testsupport

import (
	"path/filepath"
	"testing"

	"bcimerge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The catalog is enabled and lives under the temp directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Catalog.Enabled = true
	cfgVal.Catalog.Path = filepath.Join(base, "catalog", "catalog.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithoutCatalog disables build history recording.
func WithoutCatalog() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Enabled = false
	}
}

// WithDevice overrides the default device name.
func WithDevice(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Defaults.Device = name
	}
}

// WithWindow overrides the default shift and window length.
func WithWindow(shift int64, length int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Defaults.Shift = shift
		b.cfg.Defaults.Length = length
	}
}

// BaseDir returns the temp directory backing the config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
