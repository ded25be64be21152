package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/SimoKiihamaki/dashtabs/internal/config"
)

// Config controls the HTTP server behaviour.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Dependencies enumerates the collaborators required by the router.
type Dependencies struct {
	Dashboard   config.Config // zero value means config.Defaults()
	Logger      *log.Logger
	RateLimiter *RateLimiter
	Registry    *prometheus.Registry // nil means a private registry per router
}

// Server wraps the configured HTTP server instance.
type Server struct {
	cfg        Config
	httpServer *http.Server
	stop       context.CancelFunc // stops background work owned by the server
}

// NewServer constructs a server using the supplied configuration and
// dependencies. It fails when the dashboard's tab registry is unusable.
func NewServer(cfg Config, deps Dependencies) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultAPIAddr
	}

	stop := func() {}
	if deps.RateLimiter == nil {
		var ctx context.Context
		ctx, stop = context.WithCancel(context.Background())
		deps.RateLimiter = limiterFor(deps.Dashboard)
		deps.RateLimiter.CleanupRoutine(ctx, DefaultCleanupInterval)
	}

	handler, err := newRouter(deps)
	if err != nil {
		stop()
		return nil, err
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  chooseDuration(cfg.ReadTimeout, 5*time.Second),
		WriteTimeout: chooseDuration(cfg.WriteTimeout, 5*time.Second),
		IdleTimeout:  chooseDuration(cfg.IdleTimeout, 60*time.Second),
	}

	return &Server{cfg: cfg, httpServer: srv, stop: stop}, nil
}

// StartListener serves HTTP traffic on an explicit listener.
func (s *Server) StartListener(l net.Listener) error {
	return s.httpServer.Serve(l)
}

// Shutdown gracefully terminates the server and stops its rate limiter
// cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	return s.httpServer.Shutdown(ctx)
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func chooseDuration(candidate, fallback time.Duration) time.Duration {
	if candidate <= 0 {
		return fallback
	}
	return candidate
}
