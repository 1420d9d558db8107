package ops

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nezhnik/omonete-sub001/internal/publisher"
	"github.com/nezhnik/omonete-sub001/internal/store"
)

// RegisterRoutes wires the daemon's operational surface: health and
// Prometheus metrics. The catalog itself is served elsewhere, from the
// exported static artifacts.
func RegisterRoutes(app *fiber.App, st store.Catalog, pub *publisher.Publisher) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/health", func(c *fiber.Ctx) error {
		checks := map[string]string{
			"store": "ok",
		}
		status := "ok"
		code := fiber.StatusOK

		healthCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := st.Ping(healthCtx); err != nil {
			checks["store"] = err.Error()
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}

		if pub != nil {
			checks["nats"] = "ok"
			if !pub.Connected() {
				checks["nats"] = "disconnected"
				status = "degraded"
				code = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	})
}
