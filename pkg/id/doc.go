// Package id provides compact, lexicographically sortable identifiers used
// to tag stream sessions in log output.
//
// # Format
//
// The ID is 8 bytes big-endian: [5 bytes ms_timestamp][3 bytes sequence].
// Byte-wise comparison preserves chronological order, and IDs generated
// within the same millisecond remain strictly increasing by sequence. The
// hex form is a fixed 16 characters, short enough to read in a log line.
//
// # Monotonicity
//
// The Generator ensures per-process monotonicity:
//   - If the system clock regresses, it pins to the last seen millisecond and
//     increments the sequence to avoid going backwards.
//   - If the sequence would overflow within a millisecond, it waits for the
//     next millisecond before emitting the next ID.
//
// Usage
//
//	g := id.NewGenerator()
//	sid := g.Next().String() // 16 hex characters
package id
