package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"signalk-windy-relay/internal/relay"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app. The API is a
// read-only diagnostics surface over the relay service.
func RegisterRoutes(app *fiber.App, service *relay.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/status", func(c *fiber.Ctx) error {
		snap := service.Snapshot()
		return c.JSON(fiber.Map{
			"status":               service.Status(),
			"lastSuccessfulUpdate": snap.LastSuccessfulUpdate,
		})
	})

	v1.Get("/buffer", func(c *fiber.Ctx) error {
		return c.JSON(service.Snapshot())
	})
}
