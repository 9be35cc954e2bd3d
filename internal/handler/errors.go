package handler

import (
	"printshop-orders/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// statusFor maps a service error kind to its HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return fiber.StatusBadRequest
	case service.KindNotFound:
		return fiber.StatusNotFound
	case service.KindNotAuthorized:
		return fiber.StatusForbidden
	case service.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as {"error", "code", "kind"}. Internal failures
// never leak their message.
func respondError(c *fiber.Ctx, err error) error {
	kind := service.KindOf(err)
	if kind == service.KindInternal {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
			"kind":  kind,
		})
	}
	return c.Status(statusFor(kind)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  service.CodeOf(err),
		"kind":  kind,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}
