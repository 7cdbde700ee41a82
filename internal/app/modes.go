package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"devrunner/pkg/logging"
)

// runner is the part of the orchestrator the supervisor loop needs.
type runner interface {
	Run(ctx context.Context) error
}

// runSupervised runs r with a context cancelled on SIGINT or SIGTERM.
func runSupervised(ctx context.Context, r runner) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.Run(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		logging.Info("CLI", "--- Stopped ---")
	}
	return nil
}
