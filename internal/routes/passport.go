package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/altour-italy/tessera/internal/redemption"
)

// RegisterPassportRoutes wires the passport view endpoint.
func RegisterPassportRoutes(r fiber.Router, h *redemption.Handler) {
	r.Get("/passport/me", h.Me)
}
