package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/SimoKiihamaki/dashtabs/internal/config"
)

// ShutdownTimeout bounds graceful shutdown once ctx is cancelled.
const ShutdownTimeout = 5 * time.Second

// Run serves the dashboard described by cfg until ctx is cancelled, then
// shuts down gracefully.
func Run(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	return run(ctx, cfg, logger, nil)
}

// run is Run with a hook that receives the bound address once the listener
// is open.
func run(ctx context.Context, cfg config.Config, logger *log.Logger, listening func(net.Addr)) error {
	server, err := NewServer(Config{Addr: cfg.API.Addr}, Dependencies{
		Dashboard: cfg,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", server.Addr())
	if err != nil {
		_ = server.Shutdown(context.Background())
		return err
	}
	if listening != nil {
		listening(ln.Addr())
	}

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		logger.Info("starting api server", "addr", ln.Addr().String())
		if err := server.StartListener(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	errg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("server shutdown complete")
		return nil
	})
	return errg.Wait()
}
