package preflight

import (
	"fmt"

	"bcimerge/internal/dataset"
	"bcimerge/internal/device"
	"bcimerge/internal/faults"
	"bcimerge/internal/sessionlog"
)

// Span is an inclusive timestamp range.
type Span struct {
	First int64 `json:"first"`
	Last  int64 `json:"last"`
}

// SessionReport describes one session pair.
type SessionReport struct {
	Position   int             `json:"position"`
	Session    dataset.Session `json:"session"`
	Signal     Result          `json:"signal"`
	Events     Result          `json:"events"`
	Samples    int             `json:"samples"`
	EventCount int             `json:"event_count"`
	SignalSpan Span            `json:"signal_span"`
	EventSpan  Span            `json:"event_span"`
	Overlap    Result          `json:"overlap"`
	Truncated  int             `json:"truncated"`
}

// Passed reports whether the pair would combine without error.
func (r SessionReport) Passed() bool {
	return r.Signal.Passed && r.Events.Passed && r.Overlap.Passed
}

// CheckSession loads both logs of a pair and dry-runs the alignment.
func CheckSession(position int, session dataset.Session, adapter device.Adapter, opts dataset.Options) SessionReport {
	report := SessionReport{Position: position, Session: session}
	report.Overlap = Result{Name: "Overlap", Detail: "skipped"}

	report.Signal = CheckFileReadable("Signal log", session.Signal)
	report.Events = CheckFileReadable("Event log", session.Events)
	if !report.Signal.Passed || !report.Events.Passed {
		return report
	}

	signal, err := sessionlog.ReadSignalFile(session.Signal, adapter)
	if err != nil {
		report.Signal = Result{Name: "Signal log", Detail: err.Error()}
		return report
	}
	report.Samples = signal.Len()
	report.SignalSpan.First, report.SignalSpan.Last = signal.Span()
	report.Signal = Result{Name: "Signal log", Passed: true,
		Detail: fmt.Sprintf("%d samples, %d channels (%s)", signal.Len(), signal.Channels(), adapter.Name())}

	events, err := sessionlog.ReadEventFile(session.Events)
	if err != nil {
		report.Events = Result{Name: "Event log", Detail: err.Error()}
		return report
	}
	report.EventCount = events.Len()
	report.EventSpan.First, report.EventSpan.Last = events.Span()
	report.Events = Result{Name: "Event log", Passed: true,
		Detail: fmt.Sprintf("%d events, %d correct", events.Len(), events.CorrectCount())}

	points, err := dataset.CombineSession(signal, events, opts)
	if err != nil {
		report.Overlap = Result{Name: "Overlap", Detail: fmt.Sprintf("%s: %v", faults.Kind(err), err)}
		return report
	}
	for _, p := range points {
		if len(p.Window) < opts.Length {
			report.Truncated++
		}
	}
	detail := fmt.Sprintf("%d datapoints", len(points))
	if report.Truncated > 0 {
		detail += fmt.Sprintf(", %d truncated", report.Truncated)
	}
	report.Overlap = Result{Name: "Overlap", Passed: true, Detail: detail}
	return report
}
