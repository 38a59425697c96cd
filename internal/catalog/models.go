package catalog

import "time"

// Build is one recorded dataset build.
type Build struct {
	ID          int64          `json:"id"`
	RunID       string         `json:"run_id"`
	Output      string         `json:"output"`
	Description string         `json:"desc"`
	Device      string         `json:"device"`
	Shift       int64          `json:"shift"`
	Length      int            `json:"length"`
	Datapoints  int            `json:"datapoints"`
	Correct     int            `json:"correct"`
	SHA256      string         `json:"sha256"`
	Bytes       int64          `json:"bytes"`
	CreatedAt   time.Time      `json:"created_at"`
	Sessions    []BuildSession `json:"sessions"`
}

// BuildSession is the per-pair breakdown of a build.
type BuildSession struct {
	Position   int    `json:"position"`
	Signal     string `json:"signal"`
	Events     string `json:"events"`
	Samples    int    `json:"samples"`
	EventCount int    `json:"events_count"`
	Datapoints int    `json:"datapoints"`
	Truncated  int    `json:"truncated"`
}
