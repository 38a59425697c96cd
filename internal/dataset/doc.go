// Package dataset turns paired signal and event logs into labeled training
// windows and persists them as a single JSON document.
//
// CombineSession aligns every event of one session against its signal log
// and slices the window that follows it; an Assembler repeats that across an
// ordered list of sessions and collects the datapoints in order. A failure in
// any session aborts the whole assembly: there is no partial dataset.
package dataset
