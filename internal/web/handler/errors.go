package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrInvalidID is returned when a path id parameter is not a positive integer.
var ErrInvalidID = errors.New("invalid id parameter")

// NotFound renders the standard not-found response.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Not found."})
}

// BadRequest renders a validation failure with field-level messages.
func BadRequest(c *fiber.Ctx, fields fiber.Map) error {
	return c.Status(fiber.StatusBadRequest).JSON(fields)
}

// InternalError renders the standard internal server error response.
func InternalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal Server Error"})
}
