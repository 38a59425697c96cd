package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"bcimerge/internal/build"
	"bcimerge/internal/dataset"
	"bcimerge/internal/faults"
	"bcimerge/internal/sessionlog"
	"bcimerge/internal/testsupport"
)

func TestBuildCommandFromPairs(t *testing.T) {
	env := setupCLITestEnv(t)
	s1 := writeSession(t, env.baseDir, "s1", 4, []sessionlog.Event{{Timestamp: 50, Correct: true}})
	s2 := writeSession(t, env.baseDir, "s2", 4, []sessionlog.Event{{Timestamp: 0}, {Timestamp: 150, Correct: true}})
	output := filepath.Join(env.baseDir, "merged.json")

	out, _, err := runCLI(t, []string{
		"build",
		"--pair", pairArg(s1),
		"--pair", pairArg(s2),
		"--output", output,
		"--desc", "cli build",
		"--json",
	}, env.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var result build.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode build json: %v\n%s", err, out)
	}
	if result.Summary.Datapoints != 3 || result.Summary.Correct != 2 || !result.Recorded {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Shift != 100 || result.Length != 2 || result.Device != "neiry" {
		t.Fatalf("config defaults not applied: %+v", result)
	}

	ds, err := dataset.ReadFile(output)
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	if ds.Description != "cli build" || len(ds.Datapoints) != 3 {
		t.Fatalf("unexpected dataset: %+v", ds)
	}
	// session 2, event 0 -> sample 0, shifted to 100 (idx 1)
	if got := ds.Datapoints[1].Window[0][0]; got != 2 {
		t.Fatalf("expected window to start at value 2, got %v", got)
	}
}

func TestBuildCommandFromManifest(t *testing.T) {
	env := setupCLITestEnv(t)
	writeSession(t, env.baseDir, "s1", 5, []sessionlog.Event{{Timestamp: 50}, {Timestamp: 250, Correct: true}})
	manifestPath := filepath.Join(env.baseDir, "job.toml")
	testsupport.WriteFile(t, manifestPath, `
description = "manifest build"
output = "out.json"
shift = 0
length = 3

[[sessions]]
signal = "bci/s1.csv"
events = "speller/s1.csv"
`)

	out, _, err := runCLI(t, []string{"build", "--manifest", manifestPath}, env.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "Dataset written to "+filepath.Join(env.baseDir, "out.json"))
	requireContains(t, out, "Datapoints:  2 (1 correct, 1 incorrect)")
	requireContains(t, out, "Window:      3 samples, shift 0")
	requireContains(t, out, "s1.csv")
}

func TestBuildCommandFlagsOverrideManifest(t *testing.T) {
	env := setupCLITestEnv(t)
	writeSession(t, env.baseDir, "s1", 5, []sessionlog.Event{{Timestamp: 50}})
	manifestPath := filepath.Join(env.baseDir, "job.toml")
	testsupport.WriteFile(t, manifestPath, "output = \"out.json\"\nlength = 3\n[[sessions]]\nsignal = \"bci/s1.csv\"\nevents = \"speller/s1.csv\"\n")
	override := filepath.Join(env.baseDir, "override.json")

	_, _, err := runCLI(t, []string{"build", "-m", manifestPath, "-o", override, "--length", "1", "--shift", "0"}, env.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ds, err := dataset.ReadFile(override)
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	if len(ds.Datapoints) != 1 || len(ds.Datapoints[0].Window) != 1 {
		t.Fatalf("length override not applied: %+v", ds)
	}
	if _, err := os.Stat(filepath.Join(env.baseDir, "out.json")); !os.IsNotExist(err) {
		t.Fatalf("manifest output should not be written, stat err: %v", err)
	}
}

func TestBuildCommandAlignmentFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	s1 := writeSession(t, env.baseDir, "s1", 3, []sessionlog.Event{{Timestamp: 9_000}})
	output := filepath.Join(env.baseDir, "merged.json")

	_, _, err := runCLI(t, []string{"build", "--pair", pairArg(s1), "--output", output}, env.configPath)
	if err == nil {
		t.Fatal("expected alignment error")
	}
	if !errors.Is(err, faults.ErrAlignment) {
		t.Fatalf("expected alignment marker, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("output must not exist after failure, stat err: %v", statErr)
	}
}

func TestBuildCommandRequiresSessionsAndOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	s1 := writeSession(t, env.baseDir, "s1", 3, []sessionlog.Event{{Timestamp: 0}})

	cases := [][]string{
		{"build", "--output", filepath.Join(env.baseDir, "x.json")},
		{"build", "--pair", pairArg(s1)},
		{"build", "--pair", "just-one-path.csv", "--output", "x.json"},
		{"build", "--pair", pairArg(s1), "--output", "x.json", "--device", "muse"},
	}
	for i, args := range cases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			_, _, err := runCLI(t, args, env.configPath)
			if !errors.Is(err, faults.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestBuildCommandRejectsNonPositiveLength(t *testing.T) {
	env := setupCLITestEnv(t)
	s1 := writeSession(t, env.baseDir, "s1", 4, []sessionlog.Event{{Timestamp: 50, Correct: true}})
	output := filepath.Join(env.baseDir, "merged.json")

	for _, value := range []string{"-3", "0"} {
		_, _, err := runCLI(t, []string{
			"build",
			"--pair", pairArg(s1),
			"--output", output,
			"--length=" + value,
		}, env.configPath)
		if err == nil || !errors.Is(err, faults.ErrValidation) {
			t.Fatalf("--length=%s: expected validation error, got %v", value, err)
		}
		if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
			t.Fatalf("--length=%s: output should not exist, stat err %v", value, statErr)
		}
	}
}
