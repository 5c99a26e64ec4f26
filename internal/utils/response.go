package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the common envelope for API error responses. Successful
// responses return their documented payloads directly.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Message: message,
	})
}
