package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

// Run serves app on port until ctx is cancelled, then shuts it down.
func Run(ctx context.Context, app *fiber.App, port string, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", port).Msg("servidor iniciado")
		errCh <- app.Listen(":" + port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("encerrando servidor")
	return app.ShutdownWithTimeout(shutdownTimeout)
}
