package response

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the error JSON shape: { "error": "<message>" }.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody is the shape of responses that only confirm an action.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON sends body with the given status.
func JSON(c *fiber.Ctx, status int, body interface{}) error {
	return c.Status(status).JSON(body)
}

// OK sends a 200 response.
func OK(c *fiber.Ctx, body interface{}) error {
	return JSON(c, fiber.StatusOK, body)
}

// Message sends a 200 { "message": ... } response.
func Message(c *fiber.Ctx, message string) error {
	return OK(c, MessageBody{Message: message})
}

// Error sends a response with the error format.
func Error(c *fiber.Ctx, message string, statusCode int) error {
	return JSON(c, statusCode, ErrorBody{Error: message})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusBadRequest)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusNotFound)
}

// Unauthorized sends 401 with the same shape as other errors.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized)
}

// Internal sends a 500 without leaking the underlying error.
func Internal(c *fiber.Ctx) error {
	return Error(c, "Internal Server Error", fiber.StatusInternalServerError)
}
