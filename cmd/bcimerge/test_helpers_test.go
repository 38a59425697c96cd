package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bcimerge/internal/config"
	"bcimerge/internal/dataset"
	"bcimerge/internal/device"
	"bcimerge/internal/sessionlog"
	"bcimerge/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t, testsupport.WithDevice("neiry"), testsupport.WithWindow(100, 2))
	configPath := filepath.Join(base, "bcimerge.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
log_dir = %q

[catalog]
enabled = %t
path = %q

[logging]
level = "error"

[defaults]
device = %q
shift = %d
length = %d
`,
		cfg.Paths.LogDir,
		cfg.Catalog.Enabled,
		cfg.Catalog.Path,
		cfg.Defaults.Device,
		cfg.Defaults.Shift,
		cfg.Defaults.Length,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeSession writes a neiry pair whose samples sit at 0,100,...; sample i
// carries value i+1 on every channel.
func writeSession(t *testing.T, dir, name string, samples int, events []sessionlog.Event) dataset.Session {
	t.Helper()
	rows := make([]device.Sample, samples)
	for i := range rows {
		v := float64(i + 1)
		rows[i] = device.Sample{Timestamp: int64(i) * 100, Values: []float64{v, v, v, v}}
	}
	session := dataset.Session{
		Signal: filepath.Join(dir, "bci", name+".csv"),
		Events: filepath.Join(dir, "speller", name+".csv"),
	}
	testsupport.WriteSignalLog(t, session.Signal, device.Neiry{}.Channels(), rows)
	testsupport.WriteEventLog(t, session.Events, events)
	return session
}

func pairArg(s dataset.Session) string {
	return s.Signal + "," + s.Events
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
