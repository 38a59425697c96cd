package main

import (
	"strings"

	"github.com/spf13/cobra"

	"bcimerge/internal/config"
	"bcimerge/internal/manifest"
)

// jobFlags holds the job-shaping flags shared by build and check.
type jobFlags struct {
	manifestPath string
	pairs        []string
	output       string
	shift        int64
	length       int
	description  string
	device       string
}

func (f *jobFlags) register(cmd *cobra.Command, withOutput bool) {
	flags := cmd.Flags()
	flags.StringVarP(&f.manifestPath, "manifest", "m", "", "Job manifest (TOML) listing sessions and parameters")
	flags.StringArrayVarP(&f.pairs, "pair", "p", nil, "Session pair as SIGNAL,EVENTS (repeatable, replaces manifest sessions)")
	flags.Int64Var(&f.shift, "shift", 0, "Offset added to the aligned sample timestamp before cutting the window")
	flags.IntVar(&f.length, "length", 0, "Window length in samples")
	flags.StringVar(&f.device, "device", "", "Signal log device (neiry, emotiv)")
	if withOutput {
		flags.StringVarP(&f.output, "output", "o", "", "Dataset output path")
		flags.StringVar(&f.description, "desc", "", "Dataset description")
	}
}

// load builds the job from the manifest and flags, then applies config
// defaults. It does not validate.
func (f *jobFlags) load(cmd *cobra.Command, cfg *config.Config) (*manifest.Job, error) {
	job := &manifest.Job{}
	if path := strings.TrimSpace(f.manifestPath); path != "" {
		loaded, err := manifest.Load(path)
		if err != nil {
			return nil, err
		}
		job = loaded
	}

	var overrides manifest.Overrides
	for _, raw := range f.pairs {
		pair, err := manifest.ParsePair(raw)
		if err != nil {
			return nil, err
		}
		overrides.Pairs = append(overrides.Pairs, pair)
	}
	flags := cmd.Flags()
	overrides.Output = strings.TrimSpace(f.output)
	overrides.Device = strings.TrimSpace(f.device)
	if flags.Changed("desc") {
		desc := f.description
		overrides.Description = &desc
	}
	if flags.Changed("shift") {
		shift := f.shift
		overrides.Shift = &shift
	}
	if flags.Changed("length") {
		length := f.length
		overrides.Length = &length
	}

	if err := job.Apply(overrides); err != nil {
		return nil, err
	}
	if cfg != nil {
		job.ApplyDefaults(cfg.Defaults)
	} else {
		job.ApplyDefaults(config.Default().Defaults)
	}
	return job, nil
}
