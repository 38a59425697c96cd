// Package preflight provides readiness checks run before a dataset build.
//
// Checks cover the filesystem (input logs readable, output directory and
// catalog writable) and each session pair: header validation, sample and
// event counts, timestamp spans and whether every event aligns within the
// signal log for the requested shift. The CLI "bcimerge check" command
// renders the results; nothing is written.
package preflight
