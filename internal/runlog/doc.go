// Package runlog reads the append-only JSONL logs written by the ralph run
// loop.
//
// # Overview
//
// The run loop owns a directory with one mutable current log and any number
// of immutable archives:
//
//	<dir>/current-run.jsonl   actively appended, may not exist yet
//	<dir>/ralph_<ts>.jsonl    closed runs, names sort by creation order
//
// Every line is one self-describing JSON event. The writer flushes
// incrementally, so a reader can observe half a line; the codec treats such
// lines as transient noise and skips them. This package never writes to the
// directory.
//
// API surface (internal)
//
//	s := runlog.NewStore(runlog.Options{Dir: dir})
//
//	// Full snapshot of the current log
//	records := s.ReadAll(s.Current())
//
//	// Archived logs, newest-looking name first
//	infos := s.ListArchived()
//	h, err := s.ResolveArchived("ralph_20260820T1200.jsonl")
//
//	// Incremental tailing: the cursor counts delivered records
//	recs, cur := s.Poll(s.Current(), runlog.Cursor{})
//	more, cur := s.Poll(s.Current(), cur)
//
// Poll re-reads the whole file whenever its size changes. That trades I/O
// for robustness: record offsets stay correct across partial writes without
// tracking byte-exact line boundaries, and the files involved are small
// operational logs, not bulk storage.
package runlog
