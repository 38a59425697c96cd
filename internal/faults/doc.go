// Package faults defines the error markers shared by the merge pipeline.
//
// Every failure that should stop a build is tagged with one of the exported
// sentinels so callers can classify it with errors.Is while still reading the
// component, operation, and underlying cause from the message.
package faults
