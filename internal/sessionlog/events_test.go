package sessionlog_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bcimerge/internal/faults"
	"bcimerge/internal/sessionlog"
)

func TestReadEventLogCorrectIsLiteralTrue(t *testing.T) {
	input := "timestamp,row,col,correct\n" +
		"10,1,,True\n" +
		"20,,2,False\n" +
		"30,3,,true\n" +
		"40,,4,TRUE\n" +
		"50,5,,1\n"
	log, err := sessionlog.ReadEventLog(strings.NewReader(input), "speller.csv")
	require.NoError(t, err)
	require.Equal(t, 5, log.Len())

	got := make([]bool, 0, log.Len())
	for _, e := range log.Events {
		got = append(got, e.Correct)
	}
	assert.Equal(t, []bool{true, false, false, false, false}, got)
	assert.Equal(t, 1, log.CorrectCount())
	assert.Equal(t, "1", log.Events[0].Row)
	assert.Equal(t, "2", log.Events[1].Col)

	first, last := log.Span()
	assert.Equal(t, int64(10), first)
	assert.Equal(t, int64(50), last)
}

func TestReadEventLogHeader(t *testing.T) {
	bad := []string{
		"",
		"timestamp,row,col\n",
		"Timestamp,row,col,correct\n",
		"timestamp,col,row,correct\n",
		"timestamp,row,col,correct,extra\n",
	}
	for _, input := range bad {
		_, err := sessionlog.ReadEventLog(strings.NewReader(input), "speller.csv")
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.Is(err, faults.ErrValidation), "input %q: %v", input, err)
		assert.Contains(t, err.Error(), "speller.csv")
	}
}

func TestReadEventLogBadTimestamp(t *testing.T) {
	input := "timestamp,row,col,correct\n1731138600.5,1,,True\n"
	_, err := sessionlog.ReadEventLog(strings.NewReader(input), "speller.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, faults.ErrParse))
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadEventLogHeaderOnly(t *testing.T) {
	log, err := sessionlog.ReadEventLog(strings.NewReader("timestamp,row,col,correct\n"), "speller.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, log.Len())
}

func TestEventWriter(t *testing.T) {
	var buf strings.Builder
	w, err := sessionlog.NewEventWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Write(sessionlog.Event{Timestamp: 5, Row: "2", Correct: true}))
	require.NoError(t, w.Write(sessionlog.Event{Timestamp: 6, Col: "3"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "timestamp,row,col,correct\n5,2,,True\n6,,3,False\n", buf.String())

	log, err := sessionlog.ReadEventLog(strings.NewReader(buf.String()), "mem")
	require.NoError(t, err)
	assert.Equal(t, []sessionlog.Event{
		{Timestamp: 5, Row: "2", Correct: true},
		{Timestamp: 6, Col: "3"},
	}, log.Events)
}
