package handler

import (
	"printshop-orders/internal/middleware"
	"printshop-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FulfillmentHandler struct {
	fulfillment service.FulfillmentService
}

func NewFulfillmentHandler(fulfillment service.FulfillmentService) *FulfillmentHandler {
	return &FulfillmentHandler{fulfillment: fulfillment}
}

// AdvanceItem moves an item to its next production step
// POST /api/v1/items/:id/advance
func (h *FulfillmentHandler) AdvanceItem(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return unauthorized(c)
	}
	itemID, ok := paramUUID(c, "id")
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	res, err := h.fulfillment.AdvanceItemStep(c.UserContext(), itemID, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": res})
}
