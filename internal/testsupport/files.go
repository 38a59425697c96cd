package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"bcimerge/internal/device"
	"bcimerge/internal/sessionlog"
)

// WriteFile writes raw contents to path, creating parent directories.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteSignalLog writes a signal CSV with the given channel header and samples.
func WriteSignalLog(t testing.TB, path string, channels []string, samples []device.Sample) {
	t.Helper()

	f := create(t, path)
	defer f.Close()

	w, err := sessionlog.NewSignalWriter(f, channels)
	if err != nil {
		t.Fatalf("signal header %s: %v", path, err)
	}
	for _, sample := range samples {
		if err := w.WriteSample(sample); err != nil {
			t.Fatalf("write sample to %s: %v", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush %s: %v", path, err)
	}
}

// WriteEventLog writes an event CSV containing events.
func WriteEventLog(t testing.TB, path string, events []sessionlog.Event) {
	t.Helper()

	f := create(t, path)
	defer f.Close()

	w, err := sessionlog.NewEventWriter(f)
	if err != nil {
		t.Fatalf("event header %s: %v", path, err)
	}
	for _, event := range events {
		if err := w.Write(event); err != nil {
			t.Fatalf("write event to %s: %v", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush %s: %v", path, err)
	}
}

func create(t testing.TB, path string) *os.File {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	return f
}
