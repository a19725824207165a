package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hiringbull/server/database"
)

var startedAt = time.Now()

// HandleCheckHealth reports liveness plus the database connection state.
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := "ok"
		if err := store.HealthCheck(); err != nil {
			status = "degraded"
		}

		return c.JSON(fiber.Map{
			"status":    status,
			"uptime":    time.Since(startedAt).Seconds(),
			"timestamp": time.Now().UnixMilli(),
		})
	}
}
