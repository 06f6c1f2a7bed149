package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Behyna/sms-scheduler/internal/commands"
	"github.com/Behyna/sms-scheduler/internal/config"
	"github.com/Behyna/sms-scheduler/internal/metrics"
	"github.com/Behyna/sms-scheduler/internal/service"
	"github.com/Behyna/sms-scheduler/pkg/httpclient"
	"github.com/Behyna/sms-scheduler/pkg/schedulerapi"
	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.New(boot).ExecuteContext(ctx); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}

func boot(ctx context.Context, path string) (*commands.Runtime, error) {
	rt := &commands.Runtime{}

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			func() (*config.Config, error) { return config.LoadFrom(path) },
			NewLogger,
			NewHTTPClient,
			NewAPIConfig,
			metrics.NewMetrics,
			func() *validator.Validate { return validator.New() },

			schedulerapi.NewSchedulerAPI,
			service.NewCommandValidator,
			service.NewController,
		),
		fx.Invoke(registerController),
		fx.Populate(&rt.Controller, &rt.Config, &rt.Logger),
	)

	if err := app.Start(ctx); err != nil {
		return nil, err
	}
	rt.Stop = app.Stop

	return rt, nil
}

func registerController(ctrl service.Controller, logger *zap.Logger, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			err := ctrl.Close()
			_ = logger.Sync()
			return err
		},
	})
}

// NewLogger writes JSON logs to stderr so they never mix with command output.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = level
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}

func NewHTTPClient(cfg *config.Config) httpclient.HTTPClient {
	return httpclient.NewHTTPClient(cfg.Client.Timeout,
		httpclient.WithRateLimit(cfg.Client.RateLimit, cfg.Client.RateBurst))
}

func NewAPIConfig(cfg *config.Config) schedulerapi.Config {
	return cfg.Client
}
