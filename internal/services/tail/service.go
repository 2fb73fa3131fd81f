package tailsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/rzbill/ralphmc/internal/runlog"
	"github.com/rzbill/ralphmc/internal/runtime"
	"github.com/rzbill/ralphmc/pkg/id"
	logpkg "github.com/rzbill/ralphmc/pkg/log"
)

// Service provides snapshot and live-tail reads over the run log store. It
// owns the per-subscriber polling session; transports plug in through Sink.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
	ids    *id.Generator
	// pollInterval is the idle pause between tail polls.
	pollInterval time.Duration
}

// New returns a Service using the runtime's logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, rt.Logger())
}

// NewWithLogger constructs the service with an injected logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	return &Service{
		rt:           rt,
		logger:       logger.WithComponent("tail"),
		ids:          id.NewGenerator(),
		pollInterval: rt.Config().Stream.PollInterval(),
	}
}

// Snapshot returns every decoded record of the log, in file order, filtered
// by the optional CEL expression. A missing or unreadable file yields an
// empty slice. The returned slice is never nil so it serializes as [].
func (s *Service) Snapshot(h runlog.Handle, filterExpr string) ([]runlog.Record, error) {
	filter, err := newCELFilter(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}
	recs := s.rt.Store().ReadAll(h)
	out := make([]runlog.Record, 0, len(recs))
	for i, rec := range recs {
		if filter.Eval(i, rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Stream tails a single log into sink until the subscriber disconnects or a
// write fails. Records at or past opts.Offset are delivered on the first
// poll; afterwards each poll delivers only newly appended records, in file
// order, with their absolute indices. Filtered-out records still advance the
// cursor and keep their index. One keepalive is emitted per poll cycle so
// intermediaries keep the connection open.
func (s *Service) Stream(ctx context.Context, h runlog.Handle, opts StreamOptions, sink Sink) error {
	filter, err := newCELFilter(opts.Filter)
	if err != nil {
		return fmt.Errorf("compile filter: %w", err)
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	slog := s.logger.With(
		logpkg.Str("session", s.ids.Next().String()),
		logpkg.Str("log", h.Name()),
	)
	slog.Debug("tail.open", logpkg.Int("offset", offset), logpkg.Bool("filtered", filter.enabled))

	metricSessionsActive.Inc()
	defer metricSessionsActive.Dec()

	cur := runlog.Cursor{Offset: offset}
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			slog.Debug("tail.close", logpkg.Str("reason", "context"))
			return err
		}
		recs, next := s.rt.Store().Poll(h, cur)
		if len(recs) > 0 {
			metricPolls.WithLabelValues(pollOutcomeEvents).Inc()
		} else {
			metricPolls.WithLabelValues(pollOutcomeIdle).Inc()
		}
		base := next.Offset - len(recs)
		sent := 0
		for i, rec := range recs {
			idx := base + i
			if !filter.Eval(idx, rec) {
				continue
			}
			if err := sink.Send(Event{Index: idx, Record: rec}); err != nil {
				slog.Debug("tail.close", logpkg.Str("reason", "send"), logpkg.Err(err))
				return fmt.Errorf("send event: %w", err)
			}
			sent++
		}
		cur = next
		if err := sink.Keepalive(); err != nil {
			slog.Debug("tail.close", logpkg.Str("reason", "keepalive"), logpkg.Err(err))
			return fmt.Errorf("send keepalive: %w", err)
		}
		if err := sink.Flush(); err != nil {
			slog.Debug("tail.close", logpkg.Str("reason", "flush"), logpkg.Err(err))
			return fmt.Errorf("flush: %w", err)
		}
		metricKeepalives.Inc()
		if sent > 0 {
			metricRecordsDelivered.Add(float64(sent))
			slog.Debug("tail.deliver", logpkg.Int("batch_n", sent), logpkg.Int("offset", cur.Offset))
		}
		select {
		case <-ctx.Done():
			slog.Debug("tail.close", logpkg.Str("reason", "context"))
			return ctx.Err()
		case <-sink.Context().Done():
			slog.Debug("tail.close", logpkg.Str("reason", "disconnect"))
			return sink.Context().Err()
		case <-ticker.C:
		}
	}
}
