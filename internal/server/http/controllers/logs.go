package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rzbill/ralphmc/internal/runlog"
	"github.com/rzbill/ralphmc/internal/runtime"
	tailsvc "github.com/rzbill/ralphmc/internal/services/tail"
	logpkg "github.com/rzbill/ralphmc/pkg/log"
)

// LogsController serves snapshots, archive listings, and live tails of the
// run logs.
type LogsController struct {
	rt     *runtime.Runtime
	tail   *tailsvc.Service
	logger logpkg.Logger
}

// NewLogsController creates a new logs controller.
func NewLogsController(rt *runtime.Runtime, tail *tailsvc.Service, logger logpkg.Logger) *LogsController {
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	return &LogsController{rt: rt, tail: tail, logger: logger.WithComponent("http.logs")}
}

// RegisterRoutes registers all log routes with the given mux.
func (c *LogsController) RegisterRoutes(mux *http.ServeMux) {
	// Snapshot and listing endpoints.
	mux.HandleFunc("/api/log", c.handleCurrentLog)
	mux.HandleFunc("/api/logs", c.handleListArchived)

	// Everything under /api/log/ is either the live stream or an archived
	// log referenced by file name.
	mux.HandleFunc("/api/log/", c.handleLogSubpath)

	// The same live tail over a websocket, for clients that want a duplex
	// channel instead of EventSource.
	mux.HandleFunc("/ws/log", c.handleStreamWS)
}

// handleCurrentLog returns every decodable record of the current run log.
// GET /api/log?filter=<expr>
func (c *LogsController) handleCurrentLog(w http.ResponseWriter, r *http.Request) {
	c.snapshot(w, c.rt.Store().Current(), r.URL.Query().Get("filter"))
}

// handleListArchived lists archived run logs, newest name first.
// GET /api/logs
func (c *LogsController) handleListArchived(w http.ResponseWriter, r *http.Request) {
	infos := c.rt.Store().ListArchived()
	out := make([]logMetaJSON, 0, len(infos))
	for _, ai := range infos {
		out = append(out, logMetaJSON{
			Name:     ai.Name,
			Size:     ai.Size,
			Modified: ai.Modified.UnixMilli(),
		})
	}
	writeJSON(w, out)
}

// handleLogSubpath dispatches /api/log/... to the live stream or an archived
// log snapshot.
func (c *LogsController) handleLogSubpath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/log/")
	if rest == "stream" {
		c.handleStreamSSE(w, r)
		return
	}
	c.handleArchivedLog(w, r, rest)
}

// handleArchivedLog returns the records of one archived log.
// GET /api/log/{name}?filter=<expr>
func (c *LogsController) handleArchivedLog(w http.ResponseWriter, r *http.Request, name string) {
	h, err := c.rt.Store().ResolveArchived(name)
	if err != nil {
		if errors.Is(err, runlog.ErrNotFound) || errors.Is(err, runlog.ErrInvalidName) {
			writeError(w, http.StatusNotFound, "Log not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to resolve log")
		return
	}
	c.snapshot(w, h, r.URL.Query().Get("filter"))
}

// snapshot writes the decodable records of h, optionally filtered, as one
// JSON array.
func (c *LogsController) snapshot(w http.ResponseWriter, h runlog.Handle, filter string) {
	if len(filter) > maxFilterLen {
		writeError(w, http.StatusBadRequest, "Filter too long")
		return
	}
	recs, err := c.tail.Snapshot(h, filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter expression")
		return
	}
	writeJSON(w, recs)
}

// streamOptions validates the offset and filter query parameters, replying
// with an error itself when the filter is unusable.
func (c *LogsController) streamOptions(w http.ResponseWriter, r *http.Request) (tailsvc.StreamOptions, bool) {
	filter := r.URL.Query().Get("filter")
	if len(filter) > maxFilterLen {
		writeError(w, http.StatusBadRequest, "Filter too long")
		return tailsvc.StreamOptions{}, false
	}
	if err := tailsvc.ValidateFilter(filter); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter expression")
		return tailsvc.StreamOptions{}, false
	}
	return tailsvc.StreamOptions{
		Offset: parseOffset(r.URL.Query().Get("offset")),
		Filter: filter,
	}, true
}

// handleStreamSSE tails the current log over Server-Sent Events.
// GET /api/log/stream?offset=<n>&filter=<expr>
func (c *LogsController) handleStreamSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	opts, ok := c.streamOptions(w, r)
	if !ok {
		return
	}
	if _, ok := w.(http.Flusher); !ok {
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	err := c.tail.Stream(r.Context(), c.rt.Store().Current(), opts, sseSink{w: w, r: r})
	if err != nil && r.Context().Err() == nil {
		c.logger.Debug("sse stream ended", logpkg.Err(err))
	}
}

// handleStreamWS tails the current log over a websocket.
// GET /ws/log?offset=<n>&filter=<expr>
func (c *LogsController) handleStreamWS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	opts, ok := c.streamOptions(w, r)
	if !ok {
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		c.logger.Debug("websocket upgrade failed", logpkg.Err(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// Drain the connection so close frames and pongs are processed. The
	// read pump ends the session when the peer goes away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := c.tail.Stream(ctx, c.rt.Store().Current(), opts, &wsSink{conn: conn, ctx: ctx}); err != nil && ctx.Err() == nil {
		c.logger.Debug("websocket stream ended", logpkg.Err(err))
	}
	deadline := time.Now().Add(wsWriteWait)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}
