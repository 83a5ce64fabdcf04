package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/altour-italy/tessera/internal/redemption"
)

// RegisterRedemptionRoutes wires the stamp redemption flow.
func RegisterRedemptionRoutes(r fiber.Router, h *redemption.Handler) {
	group := r.Group("/redemptions")
	group.Post("", h.Submit)
	group.Post("/palette", h.Palette)
	group.Post("/color", h.Color)
	group.Post("/cancel", h.Cancel)
	group.Post("/ack", h.Acknowledge)
}
