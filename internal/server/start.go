package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nfrund/launchpad/internal/authevents"
	"golang.org/x/sync/errgroup"
)

const (
	janitorInterval = time.Minute
	shutdownTimeout = 10 * time.Second
)

// Start runs the HTTP server, the mount janitor and the audit subscriber until ctx is cancelled,
// then shuts everything down.
func (s *Server) Start(ctx context.Context, addr string) error {
	g, gctx := errgroup.WithContext(ctx)

	if err := authevents.SubscribeAudit(gctx, s.bus, s.logger); err != nil {
		return fmt.Errorf("subscribe audit log: %w", err)
	}

	g.Go(func() error {
		s.logger.Info("Starting server", "addr", addr, "auth_api", s.Cfg.GetAuthAPIURL())
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("shutting down the server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return s.mounts.Run(gctx, janitorInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
