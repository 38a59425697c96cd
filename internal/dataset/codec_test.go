package dataset_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bcimerge/internal/dataset"
)

func TestWriteUsesWireNames(t *testing.T) {
	ds := &dataset.Dataset{
		Description: "demo",
		Datapoints: []dataset.Datapoint{
			{IsCorrect: true, Window: [][]float64{{3.5}, {4}}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, dataset.Write(&buf, ds))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "demo", raw["desc"])
	data := raw["data"].([]any)
	require.Len(t, data, 1)
	point := data[0].(map[string]any)
	assert.Equal(t, true, point["is_correct"])
	assert.Equal(t, []any{[]any{3.5}, []any{4.0}}, point["bci"])
}

func TestWriteEmptyDatasetHasEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dataset.Write(&buf, &dataset.Dataset{Description: "none"}))
	assert.Contains(t, buf.String(), `"data":[]`)
}

func TestRoundTrip(t *testing.T) {
	ds := &dataset.Dataset{
		Description: "line one\nline two",
		Datapoints: []dataset.Datapoint{
			{IsCorrect: true, Window: [][]float64{{1.25, -2}, {3, 4}}},
			{IsCorrect: false, Window: [][]float64{{5, 6}}},
			{IsCorrect: false, Window: [][]float64{}},
		},
	}
	path := filepath.Join(t.TempDir(), "merged.json")
	require.NoError(t, dataset.WriteFile(path, ds))

	got, err := dataset.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ds, got)
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := dataset.Read(strings.NewReader("{not json"))
	require.Error(t, err)
}
