package manifest_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bcimerge/internal/config"
	"bcimerge/internal/dataset"
	"bcimerge/internal/faults"
	"bcimerge/internal/manifest"
	"bcimerge/internal/testsupport"
)

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs", "level4.toml")
	testsupport.WriteFile(t, path, `
description = "level four"
output = "out/merged.json"
device = "neiry"
shift = -50
length = 12

[[sessions]]
signal = "bci/l4_01.csv"
events = "/abs/speller/l4_01.csv"

[[sessions]]
signal = "bci/l4_02.csv"
events = "speller/l4_02.csv"
`)

	job, err := manifest.Load(path)
	require.NoError(t, err)

	base := filepath.Join(dir, "jobs")
	assert.Equal(t, "level four", job.Description)
	assert.Equal(t, filepath.Join(base, "out", "merged.json"), job.Output)
	require.Len(t, job.Sessions, 2)
	assert.Equal(t, filepath.Join(base, "bci", "l4_01.csv"), job.Sessions[0].Signal)
	assert.Equal(t, "/abs/speller/l4_01.csv", job.Sessions[0].Events)
	assert.Equal(t, filepath.Join(base, "speller", "l4_02.csv"), job.Sessions[1].Events)
	require.NotNil(t, job.Shift)
	assert.Equal(t, int64(-50), *job.Shift)
	assert.Equal(t, dataset.Options{Shift: -50, Length: 12}, job.Options())
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.toml")
	testsupport.WriteFile(t, path, "output = \"x.json\"\nwindow = 3\n")

	_, err := manifest.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, faults.ErrValidation))
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.toml")
	testsupport.WriteFile(t, path, "output = \n")

	_, err := manifest.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, faults.ErrParse))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := manifest.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, faults.ErrValidation))
}

func TestParsePair(t *testing.T) {
	pair, err := manifest.ParsePair(" bci/a.csv , speller/a.csv ")
	require.NoError(t, err)
	assert.Equal(t, dataset.Session{Signal: "bci/a.csv", Events: "speller/a.csv"}, pair)

	for _, bad := range []string{"", "only.csv", ",events.csv", "a.csv,", "a,b,c"} {
		_, err := manifest.ParsePair(bad)
		assert.Error(t, err, bad)
	}
}

func TestResolveOverridesThenDefaults(t *testing.T) {
	job := &manifest.Job{
		Output:   "m.json",
		Sessions: []dataset.Session{{Signal: "a.csv", Events: "b.csv"}},
	}
	desc := "from flag"
	length := 7
	defaults := config.Defaults{Device: "Emotiv", Shift: 200, WindowMillis: 300, SampleRate: 128}

	err := job.Resolve(manifest.Overrides{
		Description: &desc,
		Length:      &length,
		Pairs:       []dataset.Session{{Signal: "c.csv", Events: "d.csv"}},
	}, defaults)
	require.NoError(t, err)

	assert.Equal(t, "from flag", job.Description)
	assert.Equal(t, "emotiv", job.Device)
	assert.Equal(t, int64(200), *job.Shift)
	assert.Equal(t, 7, job.Length)
	assert.Equal(t, []dataset.Session{{Signal: "c.csv", Events: "d.csv"}}, job.Sessions)
}

func TestApplyDefaultsDerivesLengthFromDuration(t *testing.T) {
	job := &manifest.Job{WindowMillis: 500, SampleRate: 250}
	job.ApplyDefaults(config.Defaults{Device: "neiry", Length: 99})
	assert.Equal(t, 125, job.Length)

	fallback := &manifest.Job{}
	fallback.ApplyDefaults(config.Defaults{Device: "neiry", WindowMillis: 300, SampleRate: 128})
	assert.Equal(t, 38, fallback.Length)
}

func TestResolveRejectsNonPositiveLengthOverride(t *testing.T) {
	for _, value := range []int{-3, 0} {
		job := &manifest.Job{
			Output:   "m.json",
			Sessions: []dataset.Session{{Signal: "a.csv", Events: "b.csv"}},
		}
		length := value
		err := job.Resolve(manifest.Overrides{Length: &length}, config.Defaults{Device: "neiry", Length: 38})
		require.Error(t, err, "length %d", value)
		assert.True(t, errors.Is(err, faults.ErrValidation))
		assert.Contains(t, err.Error(), "window length must be positive")
	}
}

func TestLoadedNegativeLengthIsNotDefaulted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.toml")
	testsupport.WriteFile(t, path, `
output = "out.json"
length = -3

[[sessions]]
signal = "a.csv"
events = "b.csv"
`)
	job, err := manifest.Load(path)
	require.NoError(t, err)

	err = job.Resolve(manifest.Overrides{}, config.Defaults{Device: "neiry", Length: 38})
	require.Error(t, err)
	assert.True(t, errors.Is(err, faults.ErrValidation))
	assert.Equal(t, -3, job.Length)
}

func TestExplicitZeroShiftIsKept(t *testing.T) {
	zero := int64(0)
	job := &manifest.Job{Shift: &zero}
	job.ApplyDefaults(config.Defaults{Shift: 200})
	assert.Equal(t, int64(0), *job.Shift)
}

func TestValidate(t *testing.T) {
	valid := func() *manifest.Job {
		return &manifest.Job{
			Output:   "m.json",
			Device:   "neiry",
			Length:   3,
			Sessions: []dataset.Session{{Signal: "a.csv", Events: "b.csv"}},
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*manifest.Job){
		"no sessions":    func(j *manifest.Job) { j.Sessions = nil },
		"half a session": func(j *manifest.Job) { j.Sessions[0].Events = "" },
		"no output":      func(j *manifest.Job) { j.Output = " " },
		"unknown device": func(j *manifest.Job) { j.Device = "muse" },
		"zero length":    func(j *manifest.Job) { j.Length = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			job := valid()
			mutate(job)
			err := job.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, faults.ErrValidation))
		})
	}
}
