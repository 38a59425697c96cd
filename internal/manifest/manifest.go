// Package manifest loads build jobs from TOML files and command-line pairs.
//
// A job lists ordered session pairs plus the merge parameters. Relative paths
// inside a manifest resolve against the manifest's directory. Values a job
// leaves unset come from the tool configuration defaults.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"bcimerge/internal/config"
	"bcimerge/internal/dataset"
	"bcimerge/internal/device"
	"bcimerge/internal/faults"
)

// Job is one dataset build request.
type Job struct {
	Description  string            `toml:"description"`
	Output       string            `toml:"output"`
	Device       string            `toml:"device"`
	Shift        *int64            `toml:"shift"`
	Length       int               `toml:"length"`
	WindowMillis int               `toml:"window_ms"`
	SampleRate   int               `toml:"sample_rate"`
	Sessions     []dataset.Session `toml:"sessions"`
}

// Overrides carries command-line values. Nil pointers and empty strings leave
// the job untouched; non-empty Pairs replace the manifest sessions.
type Overrides struct {
	Description *string
	Output      string
	Device      string
	Shift       *int64
	Length      *int
	Pairs       []dataset.Session
}

// Load parses the manifest at path and resolves relative paths against its
// directory.
func Load(path string) (*Job, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, faults.Wrap(faults.ErrValidation, "manifest", "load", "read "+path, err)
	}

	var job Job
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&job); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, faults.Wrap(faults.ErrValidation, "manifest", "load", "unknown fields in "+path, err)
		}
		return nil, faults.Wrap(faults.ErrParse, "manifest", "load", "parse "+path, err)
	}

	job.resolvePaths(filepath.Dir(abs))
	return &job, nil
}

// ParsePair parses a "SIGNAL,EVENTS" command-line pair.
func ParsePair(value string) (dataset.Session, error) {
	signal, events, ok := strings.Cut(value, ",")
	signal = strings.TrimSpace(signal)
	events = strings.TrimSpace(events)
	if !ok || signal == "" || events == "" || strings.Contains(events, ",") {
		return dataset.Session{}, faults.Wrap(faults.ErrValidation, "manifest", "pair", fmt.Sprintf("expected SIGNAL,EVENTS, got %q", value), nil)
	}
	return dataset.Session{Signal: signal, Events: events}, nil
}

// Apply merges command-line overrides into the job. An explicit length must
// be positive.
func (j *Job) Apply(o Overrides) error {
	if o.Length != nil && *o.Length <= 0 {
		return faults.Wrap(faults.ErrValidation, "manifest", "apply", fmt.Sprintf("window length must be positive, got %d", *o.Length), nil)
	}
	if o.Description != nil {
		j.Description = *o.Description
	}
	if o.Output != "" {
		j.Output = o.Output
	}
	if o.Device != "" {
		j.Device = o.Device
	}
	if o.Shift != nil {
		shift := *o.Shift
		j.Shift = &shift
	}
	if o.Length != nil {
		j.Length = *o.Length
	}
	if len(o.Pairs) > 0 {
		j.Sessions = append([]dataset.Session(nil), o.Pairs...)
	}
	return nil
}

// ApplyDefaults fills unset values from the configuration defaults. Only a
// zero length counts as unset; a negative one is left for Validate to reject.
func (j *Job) ApplyDefaults(d config.Defaults) {
	if strings.TrimSpace(j.Device) == "" {
		j.Device = d.Device
	}
	j.Device = strings.ToLower(strings.TrimSpace(j.Device))
	if j.Shift == nil {
		shift := d.Shift
		j.Shift = &shift
	}
	if j.Length == 0 {
		j.Length = config.ResolveLength(0, j.WindowMillis, j.SampleRate)
	}
	if j.Length == 0 {
		j.Length = d.WindowLength()
	}
}

// Validate checks the job is runnable.
func (j *Job) Validate() error {
	if err := j.ValidateInputs(); err != nil {
		return err
	}
	if strings.TrimSpace(j.Output) == "" {
		return faults.Wrap(faults.ErrValidation, "manifest", "validate", "output path is required", nil)
	}
	return nil
}

// ValidateInputs checks everything except the output path, for dry runs.
func (j *Job) ValidateInputs() error {
	if len(j.Sessions) == 0 {
		return faults.Wrap(faults.ErrValidation, "manifest", "validate", "at least one session pair is required", nil)
	}
	for i, s := range j.Sessions {
		if strings.TrimSpace(s.Signal) == "" || strings.TrimSpace(s.Events) == "" {
			return faults.Wrap(faults.ErrValidation, "manifest", "validate", fmt.Sprintf("session %d needs both signal and events paths", i+1), nil)
		}
	}
	if _, err := device.Lookup(j.Device); err != nil {
		return err
	}
	if j.Length <= 0 {
		return faults.Wrap(faults.ErrValidation, "manifest", "validate", "window length must be positive (set length, or window_ms and sample_rate)", nil)
	}
	if j.WindowMillis < 0 || j.SampleRate < 0 {
		return faults.Wrap(faults.ErrValidation, "manifest", "validate", "window_ms and sample_rate must be non-negative", nil)
	}
	return nil
}

// Resolve applies overrides and defaults, then validates.
func (j *Job) Resolve(o Overrides, d config.Defaults) error {
	if err := j.Apply(o); err != nil {
		return err
	}
	j.ApplyDefaults(d)
	return j.Validate()
}

// Options returns the merge options for the job.
func (j *Job) Options() dataset.Options {
	var shift int64
	if j.Shift != nil {
		shift = *j.Shift
	}
	return dataset.Options{Shift: shift, Length: j.Length}
}

// Adapter returns the device adapter named by the job.
func (j *Job) Adapter() (device.Adapter, error) {
	return device.Lookup(j.Device)
}

func (j *Job) resolvePaths(base string) {
	j.Output = resolve(base, j.Output)
	for i := range j.Sessions {
		j.Sessions[i].Signal = resolve(base, j.Sessions[i].Signal)
		j.Sessions[i].Events = resolve(base, j.Sessions[i].Events)
	}
}

func resolve(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~") {
		if expanded, err := config.ExpandPath(path); err == nil {
			return expanded
		}
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
