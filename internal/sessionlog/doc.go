// Package sessionlog reads and writes the two per-session CSV logs.
//
// A signal log is the continuous headset recording: a header naming the
// timestamp column and the device channels, then one row per sample. An
// event log is the sparse stimulus record written by the speller UI with the
// fixed header timestamp,row,col,correct. Both are fully materialized in
// memory; sessions are bounded in size.
//
// The writers are explicit objects bound to one io.Writer so converters and
// test fixtures never share process-wide state.
package sessionlog
