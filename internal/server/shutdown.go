package server

import (
	"context"
	"errors"
)

// Shutdown stops accepting requests, disposes every live form and verification and closes the
// event bus. It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	err := s.E.Shutdown(ctx)
	s.mounts.Close()
	return errors.Join(err, s.bus.Close())
}
