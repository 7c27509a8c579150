package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"tft-wrapped/internal/config"
	"tft-wrapped/internal/constants"
	fxmodules "tft-wrapped/internal/fx"
	"tft-wrapped/internal/logger"
	"tft-wrapped/internal/middleware"
	"tft-wrapped/internal/repository"
	"tft-wrapped/internal/server"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	TrackSocketPath = "/ws/track"
	HealthPath      = "/healthz"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(applyLogLevel),
		fx.Invoke(pruneDatasets),
		fx.Invoke(runServer),
	).Run()
}

func applyLogLevel(cfg *config.Config, log zerolog.Logger) {
	level := logger.ParseLevel(cfg.LogLevel, zerolog.InfoLevel)
	zerolog.SetGlobalLevel(level)
	log.Info().Str("level", level.String()).Msg("log level applied")
}

// pruneDatasets drops cached datasets from other CDN versions once the app
// has started.
func pruneDatasets(lc fx.Lifecycle, repo *repository.DatasetRepository, cfg *config.Config, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
			defer cancel()

			n, err := repo.DeleteOtherVersions(ctx, cfg.DDragonVersion)
			if err != nil {
				logger.Warn().Err(err).Msg("failed to prune stale datasets")
				return nil
			}
			if n > 0 {
				logger.Info().Int64("rows", n).Str("keep_version", cfg.DDragonVersion).Msg("pruned stale datasets")
			}
			return nil
		},
	})
}

func runServer(
	lc fx.Lifecycle,
	wrappedServer *server.WrappedServer,
	trackSocket *server.TrackSocket,
	health *server.HealthHandler,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	mux := http.NewServeMux()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Grpc-Status", "Grpc-Message", "X-Error-Kind"},
		AllowCredentials: true,
	})

	requestIDMiddleware := middleware.RequestID(logger)

	path, handler := wrappedServer.Handler()
	mux.Handle(path, requestIDMiddleware(c.Handler(handler)))
	mux.Handle(TrackSocketPath, requestIDMiddleware(trackSocket))
	mux.Handle(HealthPath, health)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: mux,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
