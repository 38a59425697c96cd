// Package catalog records completed dataset builds in a SQLite database.
//
// Each successful build stores its run identifier, output path, merge
// parameters, datapoint counts and the SHA-256 of the written file, plus one
// row per session pair. The CLI history command reads it back.
//
// Schema changes ship as embedded migrations applied on Open.
package catalog
