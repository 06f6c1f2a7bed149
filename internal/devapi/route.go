package devapi

import (
	"github.com/Behyna/sms-scheduler/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	prefixAPI     = "/api/"
	prefixGateway = prefixAPI + "gateway/"
)

// NewApp builds the fiber app with error rendering, panic recovery and
// request metrics installed.
func NewApp(m *metrics.Metrics, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler(logger),
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	return app
}

func SetupRoutes(app *fiber.App, handler *Handler, gatherer prometheus.Gatherer) {
	app.Get(prefixAPI+"health/", handler.Health)

	app.Get(prefixAPI+"messages/", handler.ListMessages)
	app.Post(prefixAPI+"messages/", handler.CreateMessage)
	app.Get(prefixAPI+"messages/:id/", handler.GetMessage)
	app.Post(prefixAPI+"messages/:id/cancel/", handler.CancelMessage)
	app.Get(prefixAPI+"stats/messages-by-status/", handler.StatusStats)

	app.Post(prefixGateway+"claim/", handler.Claim)
	app.Post(prefixGateway+"report/", handler.Report)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
