package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

// ReadyHandler checks that the fleet loaded and the replay clock seeded.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		checks := make(map[string]string)
		allOK := true

		if deps.Engine == nil {
			checks["engine"] = "not configured"
			allOK = false
		} else {
			if trips := len(deps.Engine.Fleet().Trips); trips > 0 {
				checks["fleet"] = "ok"
			} else {
				checks["fleet"] = "no trips loaded"
				allOK = false
			}
			if deps.Engine.SimulationTime() != nil {
				checks["clock"] = "ok"
			} else {
				checks["clock"] = "no events to seed the clock"
				allOK = false
			}
		}

		status := "ready"
		code := 200
		if !allOK {
			status = "not ready"
			code = 503
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
