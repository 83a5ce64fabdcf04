package passport

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var codePattern = regexp.MustCompile(`^ALT[A-Z0-9]{1,10}$`)

// Handler exposes operator endpoints for issuing passports.
type Handler struct {
	directory Directory
}

// NewHandler constructs a passport handler.
func NewHandler(directory Directory) *Handler {
	return &Handler{directory: directory}
}

type createRequest struct {
	Code       string `json:"code"`
	HolderName string `json:"holder_name"`
}

// Create issues a new passport for a holder.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !codePattern.MatchString(code) {
		return fiber.NewError(http.StatusBadRequest, "code must be ALT followed by 1-10 letters or digits")
	}
	holder := strings.TrimSpace(req.HolderName)
	if holder == "" {
		return fiber.NewError(http.StatusBadRequest, "holder_name is required")
	}

	p := Passport{
		ID:          uuid.NewString(),
		Code:        code,
		HolderName:  holder,
		Completions: []Completion{},
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.directory.Create(c.UserContext(), p); err != nil {
		return fiber.NewError(http.StatusConflict, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":          p.ID,
		"code":        p.Code,
		"holder_name": p.HolderName,
		"created_at":  p.CreatedAt,
	})
}
