package dataset

// Datapoint is one labeled window. Window holds up to the requested number of
// samples, each an ordered slice of channel values.
type Datapoint struct {
	IsCorrect bool        `json:"is_correct"`
	Window    [][]float64 `json:"bci"`
}

// Dataset is the serialized training set.
type Dataset struct {
	Description string      `json:"desc"`
	Datapoints  []Datapoint `json:"data"`
}

// Session names one pair of logs recorded together.
type Session struct {
	Signal string `toml:"signal" json:"signal"`
	Events string `toml:"events" json:"events"`
}

// Options controls how windows are cut.
type Options struct {
	// Shift is added to the aligned sample timestamp before the second search,
	// in the logs' clock units.
	Shift int64
	// Length is the maximum number of samples per window.
	Length int
}

// SessionStats summarizes one combined session.
type SessionStats struct {
	Session    Session
	Samples    int
	Events     int
	Datapoints int
	Truncated  int
}

// Summary describes a dataset for reports.
type Summary struct {
	Datapoints int
	Correct    int
	Incorrect  int
	Channels   int
	MinWindow  int
	MaxWindow  int
	Truncated  int
}

// Summarize counts labels and window sizes. Windows shorter than length are
// reported as truncated; a length <= 0 measures against the longest window.
func (d *Dataset) Summarize(length int) Summary {
	var s Summary
	if d == nil {
		return s
	}
	s.Datapoints = len(d.Datapoints)
	for i, dp := range d.Datapoints {
		if dp.IsCorrect {
			s.Correct++
		} else {
			s.Incorrect++
		}
		n := len(dp.Window)
		if i == 0 || n < s.MinWindow {
			s.MinWindow = n
		}
		if n > s.MaxWindow {
			s.MaxWindow = n
		}
		if s.Channels == 0 && n > 0 {
			s.Channels = len(dp.Window[0])
		}
	}
	if length <= 0 {
		length = s.MaxWindow
	}
	for _, dp := range d.Datapoints {
		if len(dp.Window) < length {
			s.Truncated++
		}
	}
	return s
}
