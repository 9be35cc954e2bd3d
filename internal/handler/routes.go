package handler

import "github.com/gofiber/fiber/v2"

type Handlers struct {
	Orders      *OrderHandler
	Fulfillment *FulfillmentHandler
	Pricing     *PricingHandler
}

// RegisterRoutes mounts the order API under api. Every route requires auth.
func RegisterRoutes(api fiber.Router, auth fiber.Handler, h Handlers) {
	protected := api.Group("", auth)

	protected.Post("/quotes", h.Pricing.Quote)

	protected.Post("/orders", h.Orders.CreateOrder)
	protected.Get("/orders/:id", h.Orders.GetOrder)
	protected.Patch("/orders/:id", h.Orders.UpdateOrder)
	protected.Post("/orders/:id/deliver", h.Orders.MarkDelivered)

	protected.Post("/items/:id/advance", h.Fulfillment.AdvanceItem)
}
