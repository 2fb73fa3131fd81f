// Package httpserver exposes the ralphmc HTTP surface: a read-only JSON API
// over externally written run logs, live tail streams, Prometheus metrics,
// and the embedded dashboard.
//
// Routes:
//
//	GET /api/log              current run log snapshot
//	GET /api/log/{name}       archived run log snapshot
//	GET /api/log/stream       live tail of the current log (Server-Sent Events)
//	GET /api/logs             archived log listing, newest name first
//	GET /ws/log               live tail of the current log (websocket)
//	GET /healthz              liveness probe
//	GET /metrics              Prometheus metrics
//	GET /                     dashboard UI
//
// Snapshot and stream endpoints accept a filter query parameter holding a
// CEL expression; stream endpoints additionally accept a record offset to
// resume from.
package httpserver
