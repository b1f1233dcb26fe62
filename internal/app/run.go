package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

type Runner func(ctx context.Context) error

// Run wires signal handling around a service entrypoint and maps its outcome
// to an exit code. Context cancellation on shutdown is a clean exit.
func Run(serviceName string, run Runner) int {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", serviceName).Logger()
	logger.Info().Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("failed")
		return 1
	}

	logger.Info().Msg("stopped")
	return 0
}
