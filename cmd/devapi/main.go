package main

import (
	"context"

	"github.com/Behyna/sms-scheduler/internal/config"
	"github.com/Behyna/sms-scheduler/internal/devapi"
	"github.com/Behyna/sms-scheduler/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			metrics.NewMetrics,
			func() *validator.Validate { return validator.New() },

			NewStore,
			devapi.NewHandler,
			devapi.NewApp,
		),
		fx.Invoke(startServer),
	).Run()
}

func NewStore(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) devapi.Store {
	return devapi.NewStore(m, logger, devapi.WithClaimInterval(cfg.Server.ClaimInterval))
}

func startServer(app *fiber.App, handler *devapi.Handler, cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {
	devapi.SetupRoutes(app, handler, prometheus.DefaultGatherer)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting dev scheduler API", zap.String("port", cfg.Server.Port))
			go func() {
				if err := app.Listen(cfg.Server.Port); err != nil {
					logger.Error("Server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}
