// Package main hosts the bcimerge CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into dataset builds,
// preflight checks, dataset inspection, build history queries and legacy log
// conversion. It centralizes configuration resolution and structured logging
// setup so subcommands can focus on presentation.
//
// Keep this package lean: add functionality to the internal packages first,
// then surface it through dedicated commands or flags here.
package main
