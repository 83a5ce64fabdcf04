package catalog

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{3,10}$`)

// Handler exposes operator endpoints for issuing redemption codes.
type Handler struct {
	catalog Catalog
}

// NewHandler constructs a catalog handler.
func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

type createRequest struct {
	Code          string `json:"code"`
	ActivityTitle string `json:"activity_title"`
}

// Create issues a new redemption code for an activity.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	title := strings.TrimSpace(req.ActivityTitle)
	if !codePattern.MatchString(code) {
		return fiber.NewError(http.StatusBadRequest, "code must be 3-10 uppercase letters or digits")
	}
	if title == "" {
		return fiber.NewError(http.StatusBadRequest, "activity_title is required")
	}

	entry := Entry{Code: code, ActivityTitle: title, CreatedAt: time.Now().UTC()}
	if err := h.catalog.Create(c.UserContext(), entry); err != nil {
		if errors.Is(err, ErrCodeExists) {
			return fiber.NewError(http.StatusConflict, "code already exists")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"code":           entry.Code,
		"activity_title": entry.ActivityTitle,
		"created_at":     entry.CreatedAt,
	})
}
