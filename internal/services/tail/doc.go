// Package tailsvc implements snapshot and live-tail reads over the run log
// store. Each Stream call runs one polling session: on a fixed cadence it
// polls the log through the store's cursor tracker, delivers newly appended
// records in file order with absolute indices, and emits one keepalive per
// cycle. Transports (SSE, WebSocket) plug in through the Sink interface; the
// first failed write ends the session.
//
// Example:
//
//	svc := tailsvc.New(rt)
//	recs, _ := svc.Snapshot(rt.Store().Current(), "")
//	_ = svc.Stream(ctx, rt.Store().Current(), tailsvc.StreamOptions{Offset: len(recs)}, sink)
//
// Filtering
//
// Snapshot and Stream accept an optional CEL expression evaluated per
// record. The expression sees: index (int), size (int, encoded bytes),
// text (string, the raw line), json (the parsed record), and now_ms (int).
// Records that fail the filter are dropped from delivery but still advance
// the cursor and still occupy their index.
package tailsvc
