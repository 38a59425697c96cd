package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bcimerge/internal/dataset"
	"bcimerge/internal/device"
	"bcimerge/internal/manifest"
	"bcimerge/internal/sessionlog"
	"bcimerge/internal/testsupport"
)

func neirySamples(n int) []device.Sample {
	samples := make([]device.Sample, n)
	for i := range samples {
		samples[i] = device.Sample{Timestamp: int64(i) * 100, Values: []float64{1, 2, 3, 4}}
	}
	return samples
}

func writePair(t *testing.T, dir string, samples int, events []sessionlog.Event) dataset.Session {
	t.Helper()
	session := dataset.Session{
		Signal: filepath.Join(dir, "bci.csv"),
		Events: filepath.Join(dir, "speller.csv"),
	}
	testsupport.WriteSignalLog(t, session.Signal, device.Neiry{}.Channels(), neirySamples(samples))
	testsupport.WriteEventLog(t, session.Events, events)
	return session
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckFileReadable(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bci.csv")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckFileReadable("signal", file); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckFileReadable("signal", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	if result := CheckFileReadable("signal", filepath.Join(dir, "absent.csv")); result.Passed || !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected result for missing file: %+v", result)
	}
}

func TestCheckOutputTarget(t *testing.T) {
	dir := t.TempDir()
	if result := CheckOutputTarget(filepath.Join(dir, "merged.json")); !result.Passed || !strings.Contains(result.Detail, "new file") {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result := CheckOutputTarget(filepath.Join(dir, "missing", "merged.json")); result.Passed {
		t.Fatal("expected failure when the output directory is missing")
	}
	if result := CheckOutputTarget(dir); result.Passed {
		t.Fatal("expected failure when the output is a directory")
	}
}

func TestCheckSessionReportsCountsAndSpans(t *testing.T) {
	session := writePair(t, t.TempDir(), 5, []sessionlog.Event{
		{Timestamp: 50, Row: "1", Correct: true},
		{Timestamp: 250, Col: "2"},
	})

	report := CheckSession(1, session, device.Neiry{}, dataset.Options{Shift: 100, Length: 3})
	if !report.Passed() {
		t.Fatalf("expected session to pass: %+v", report)
	}
	if report.Samples != 5 || report.EventCount != 2 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if report.SignalSpan != (Span{First: 0, Last: 400}) || report.EventSpan != (Span{First: 50, Last: 250}) {
		t.Fatalf("unexpected spans: %+v %+v", report.SignalSpan, report.EventSpan)
	}
	// second event aligns to 300, shifted to 400: one-sample window
	if report.Truncated != 1 {
		t.Fatalf("expected 1 truncated window, got %d", report.Truncated)
	}
}

func TestCheckSessionFlagsNoOverlap(t *testing.T) {
	session := writePair(t, t.TempDir(), 3, []sessionlog.Event{{Timestamp: 5_000}})

	report := CheckSession(1, session, device.Neiry{}, dataset.Options{Length: 2})
	if report.Passed() || report.Overlap.Passed {
		t.Fatal("expected overlap failure")
	}
	if !strings.HasPrefix(report.Overlap.Detail, "alignment:") {
		t.Fatalf("unexpected overlap detail: %s", report.Overlap.Detail)
	}
}

func TestCheckSessionFlagsWrongHeader(t *testing.T) {
	session := writePair(t, t.TempDir(), 3, []sessionlog.Event{{Timestamp: 0}})

	report := CheckSession(1, session, device.Emotiv{}, dataset.Options{Length: 2})
	if report.Signal.Passed {
		t.Fatal("expected header failure for wrong device")
	}
	if report.Overlap.Detail != "skipped" {
		t.Fatalf("overlap should be skipped, got %+v", report.Overlap)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	session := writePair(t, dir, 5, []sessionlog.Event{{Timestamp: 0, Correct: true}})
	job := &manifest.Job{
		Output:   filepath.Join(dir, "merged.json"),
		Device:   "neiry",
		Length:   2,
		Sessions: []dataset.Session{session, {Signal: filepath.Join(dir, "absent.csv"), Events: session.Events}},
	}

	report, err := RunAll(context.Background(), cfg, job)
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if len(report.Environment) != 2 {
		t.Fatalf("expected output and catalog checks, got %+v", report.Environment)
	}
	for _, res := range report.Environment {
		if !res.Passed {
			t.Fatalf("environment check failed: %+v", res)
		}
	}
	if len(report.Sessions) != 2 || !report.Sessions[0].Passed() || report.Sessions[1].Passed() {
		t.Fatalf("unexpected session results: %+v", report.Sessions)
	}
	if report.Passed() {
		t.Fatal("report should fail when a session fails")
	}
}

func TestRunAllHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job := &manifest.Job{Device: "neiry", Length: 1, Sessions: []dataset.Session{{Signal: "a", Events: "b"}}}
	if _, err := RunAll(ctx, nil, job); err == nil {
		t.Fatal("expected cancellation error")
	}
}
