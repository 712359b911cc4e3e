package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carmod-backend/internal/interfaces/router"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, deps, err := router.CreateApp(cfg)
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := router.Ping(cmd.Context(), deps); err != nil {
			return err
		}
		log.Info().Str("database", cfg.DatabaseURL).Bool("redis", deps.Rdb != nil).Msg("Dependencies connected")

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Msg("Server listening")
			errCh <- app.Listen(":" + cfg.Port)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		log.Info().Msg("Shutting down server")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			log.Warn().Err(err).Msg("Server shutdown error")
		}
		log.Info().Msg("Server stopped")
		return nil
	},
}
