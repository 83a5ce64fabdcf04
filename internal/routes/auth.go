package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/altour-italy/tessera/internal/redemption"
)

// RegisterAuthRoutes wires passport login, logout and session restore.
func RegisterAuthRoutes(r fiber.Router, h *redemption.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Post("/logout", h.Logout)
	group.Get("/session", h.Session)
}
