// Package convert rewrites legacy recordings into the canonical log formats.
//
// EmotivExport turns a raw Emotiv export, whose first row carries the start
// time and sampling rate, into a signal log with synthesized microsecond
// timestamps. EventTimestamps rewrites event logs recorded with float-second
// timestamps to integer microseconds. Both write their output atomically.
package convert
