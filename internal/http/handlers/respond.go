package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bazaar/internal/validate"
)

func errJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// fieldErrs renders a validation failure with per-field messages.
func fieldErrs(c *fiber.Ctx, ve validate.Errors) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ve})
}

func badBody(c *fiber.Ctx) error {
	ve := validate.Errors{}
	ve.Add("body", "malformed request body")
	return fieldErrs(c, ve)
}

func notFound(c *fiber.Ctx) error {
	return errJSON(c, fiber.StatusNotFound, "not found")
}

func unauthorized(c *fiber.Ctx) error {
	return errJSON(c, fiber.StatusUnauthorized, "authentication required")
}

func forbidden(c *fiber.Ctx) error {
	return errJSON(c, fiber.StatusForbidden, "forbidden")
}
