package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nfrund/launchpad/internal/config"
	"github.com/nfrund/launchpad/internal/logging"
	"github.com/nfrund/launchpad/internal/server"
)

func main() {
	cfg, err := config.New()
	logger := logging.New()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	s, err := server.New(cfg, logger)
	if err != nil {
		slog.Error("Failed to build server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Start(ctx, cfg.GetServerAddr()); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
