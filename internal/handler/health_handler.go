package handler

import "github.com/gofiber/fiber/v2"

// HealthCheck returns a liveness handler. The probe contract is a bare 200
// with an "OK" body.
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("OK")
	}
}
