// Package status serves a small local HTTP API describing the client:
// liveness, readiness, the mirrored state and Prometheus metrics.
package status

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/TerminalFarm_Go/internal/domain"
	"github.com/osse101/TerminalFarm_Go/internal/farmsync"
	"github.com/osse101/TerminalFarm_Go/internal/logger"
	"github.com/osse101/TerminalFarm_Go/internal/metrics"
	"github.com/osse101/TerminalFarm_Go/internal/notify"
)

// StateSource is the read side of the synchronizer
type StateSource interface {
	State() *domain.ClientGameState
	LastSync() time.Time
	Phase() farmsync.Phase
	Selection() farmsync.Selection
	Interval() time.Duration
}

// FeedStatus reports the change feed connection, when one is running
type FeedStatus interface {
	IsConnected() bool
}

// MessageSource exposes the player's recent messages
type MessageSource interface {
	Recent(n int) []notify.Message
}

// Server handles the status HTTP endpoints
type Server struct {
	server   *http.Server
	source   StateSource
	feed     FeedStatus
	messages MessageSource
	clock    clockwork.Clock
	started  time.Time
}

// Option customises a Server
type Option func(*Server)

// WithFeed reports the change feed in /readyz
func WithFeed(f FeedStatus) Option {
	return func(s *Server) { s.feed = f }
}

// WithMessages includes the newest player messages in /state
func WithMessages(m MessageSource) Option {
	return func(s *Server) { s.messages = m }
}

// WithClock replaces the clock used for uptime and sync age
func WithClock(c clockwork.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// NewServer creates a status server listening on addr
func NewServer(addr string, source StateSource, opts ...Option) *Server {
	s := &Server{
		source: source,
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.started = s.clock.Now()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Router builds the chi router for the status endpoints
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get(PathHealthz, s.HandleHealthz)
	r.Get(PathReadyz, s.HandleReadyz)
	r.Get(PathState, s.HandleState)
	r.Handle(PathMetrics, promhttp.Handler())

	return r
}

// Start serves in the background
func (s *Server) Start(ctx context.Context) {
	log := logger.FromContext(ctx)
	go func() {
		log.Info(logMsgServerStarting, "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(logMsgServerFailed, "error", err)
		}
	}()
}

// Stop shuts the server down, waiting up to a few seconds for open requests
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		logger.FromContext(ctx).Error(logMsgShutdownFailed, "error", err)
		return err
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, PathHealthz) ||
			strings.HasPrefix(r.URL.Path, PathReadyz) ||
			strings.HasPrefix(r.URL.Path, PathMetrics) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		next.ServeHTTP(w, r.WithContext(ctx))

		logger.FromContext(ctx).Debug(logMsgRequest,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}
