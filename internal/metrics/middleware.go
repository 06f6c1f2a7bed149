package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const slowRequest = time.Second

// HTTPMetricsMiddleware counts and times requests by route pattern, so
// /api/messages/:id/ is one series however many ids are served. Errors are
// rendered here so the recorded status is the one the client sees.
func HTTPMetricsMiddleware(m *Metrics, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m != nil {
			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()
		}

		began := time.Now()
		if err := c.Next(); err != nil {
			if renderErr := c.App().Config().ErrorHandler(c, err); renderErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(began)

		route := routeLabel(c)
		code := strconv.Itoa(c.Response().StatusCode())
		m.RecordHTTPRequest(c.Method(), route, code, elapsed)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("route", route),
			zap.String("statusCode", code),
			zap.Duration("elapsed", elapsed),
		}
		if elapsed > slowRequest {
			logger.Warn("Slow request", fields...)
		} else {
			logger.Debug("Request served", fields...)
		}

		return nil
	}
}

func routeLabel(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
		return r.Path
	}
	return c.Path()
}
