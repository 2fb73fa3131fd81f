package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rzbill/ralphmc/internal/runtime"
	"github.com/rzbill/ralphmc/internal/server/http/controllers"
	tailsvc "github.com/rzbill/ralphmc/internal/services/tail"
	"github.com/rzbill/ralphmc/internal/ui"
	logpkg "github.com/rzbill/ralphmc/pkg/log"
)

// shutdownGrace is how long in-flight requests get to finish on shutdown.
const shutdownGrace = 5 * time.Second

// Server is the HTTP face of ralphmc: the read-only JSON API, the live tail
// streams, the Prometheus endpoint, and the embedded dashboard.
type Server struct {
	logger logpkg.Logger
	srv    *http.Server
}

// New creates a Server with its own tail service.
func New(rt *runtime.Runtime, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	return NewWithService(rt, tailsvc.NewWithLogger(rt, logger), logger)
}

// NewWithService creates a Server around an existing tail service.
func NewWithService(rt *runtime.Runtime, tail *tailsvc.Service, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	logger = logger.WithComponent("http")

	apiMux := http.NewServeMux()
	controllers.NewControllerRegistry(rt, tail, logger).RegisterAllRoutes(apiMux)

	// JSON bodies compress well; event streams must stay untouched, so
	// compression is restricted by content type. The websocket route bypasses
	// the wrapper entirely to keep the connection hijackable.
	api := http.Handler(apiMux)
	if rt.Config().Server.GzipEnabled() {
		wrap, err := gzhttp.NewWrapper(gzhttp.ContentTypes([]string{"application/json"}))
		if err == nil {
			api = wrap(apiMux)
		} else {
			logger.Warn("response compression disabled", logpkg.Err(err))
		}
	}

	root := http.NewServeMux()
	root.Handle("/api/", api)
	root.Handle("/healthz", api)
	root.Handle("/ws/", apiMux)
	root.Handle("/metrics", promhttp.Handler())
	root.Handle("/", http.FileServer(ui.FS()))

	return &Server{
		logger: logger,
		srv: &http.Server{
			Handler:           cors(root),
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          logpkg.ToStdLogger(logger, logpkg.ErrorLevel),
		},
	}
}

// ListenAndServe binds addr and serves until ctx is cancelled, then shuts
// down gracefully. Request contexts derive from ctx, so open tail sessions
// end promptly instead of pinning the whole grace period.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("http listen on %s: %w", addr, err)
	}
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }
	s.logger.Info("http server listening", logpkg.Str("address", lis.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := s.srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	}
}

// Close stops the server immediately without waiting for open requests.
func (s *Server) Close() error {
	return s.srv.Close()
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
