// Package build runs one dataset build end to end.
//
// A run takes an exclusive lock next to the output file, assembles every
// session pair in order, writes the dataset atomically, hashes it and records
// the result in the build catalog. Any failure leaves no new output behind.
package build
