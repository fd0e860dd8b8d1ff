// Package pgm provides a native Go implementation for reading and writing
// 8-bit Netpbm graymap (PGM) files.
//
// Two variants of the format are supported:
//   - Plain (P2): samples written as whitespace separated ASCII integers
//   - Raw (P5): samples written as a contiguous block of bytes
//
// Basic usage:
//
//	// Read a 512x512 plain graymap
//	img, err := pgm.ReadFile("/path/to/cover.pgm", 512, 512)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Write it back out in the raw variant
//	if _, err := pgm.WriteFile("/path/to/cover_bin.pgm", img, pgm.Raw); err != nil {
//		log.Fatal(err)
//	}
//
// Failures wrap one of ErrIO, ErrFormat or ErrDimensionMismatch and can be
// matched with errors.Is.
package pgm
