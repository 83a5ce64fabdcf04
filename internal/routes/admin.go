package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/altour-italy/tessera/internal/catalog"
	"github.com/altour-italy/tessera/internal/passport"
)

// RegisterAdminRoutes wires operator endpoints behind the admin-key guard.
func RegisterAdminRoutes(r fiber.Router, codes *catalog.Handler, passports *passport.Handler, guard fiber.Handler) {
	group := r.Group("/admin", guard)
	group.Post("/codes", codes.Create)
	group.Post("/passports", passports.Create)
}
