package redemption

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/altour-italy/tessera/internal/passport"
	"github.com/altour-italy/tessera/internal/tier"
)

// SessionTokenHeader carries the opaque session token issued at login.
const SessionTokenHeader = "X-Session-Token"

// Handler exposes the redemption engine over HTTP.
type Handler struct {
	engine *Engine
}

// NewHandler constructs a redemption handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

type loginRequest struct {
	Code string `json:"code"`
}

// Login opens a session for a passport code.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	view, err := h.engine.Login(c.UserContext(), c.IP(), req.Code)
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusOK).JSON(viewPayload(view))
}

// Logout closes the session.
func (h *Handler) Logout(c *fiber.Ctx) error {
	token := c.Get(SessionTokenHeader)
	if token == "" {
		return fiber.NewError(http.StatusUnauthorized, ErrNoSession.Error())
	}
	if err := h.engine.Logout(c.UserContext(), token); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}

// Session restores a session from its token without counting against
// the login throttle.
func (h *Handler) Session(c *fiber.Ctx) error {
	view, err := h.engine.Restore(c.UserContext(), c.Get(SessionTokenHeader))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(viewPayload(view))
}

// Me returns the hydrated passport with tier and progress.
func (h *Handler) Me(c *fiber.Ctx) error {
	view, err := h.engine.Snapshot(c.UserContext(), c.Get(SessionTokenHeader))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(viewPayload(view))
}

type submitRequest struct {
	Code string `json:"code"`
}

// Submit verifies a redemption code and reveals the activity.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.engine.SubmitCode(c.UserContext(), c.Get(SessionTokenHeader), req.Code)
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"step":           StepReveal.String(),
		"activity_title": res.ActivityTitle,
	})
}

// Palette advances to the color choice and lists the unlocked colors.
func (h *Handler) Palette(c *fiber.Ctx) error {
	res, err := h.engine.ProceedToColorChoice(c.Get(SessionTokenHeader))
	if err != nil {
		return mapError(err)
	}

	colors := make([]fiber.Map, 0, len(res.Palette))
	for _, col := range res.Palette {
		colors = append(colors, fiber.Map{"name": col.Name, "hex": col.Hex, "min_level": col.MinLevel})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"step":           StepColor.String(),
		"activity_title": res.ActivityTitle,
		"level":          res.Level.Label,
		"level_index":    res.Level.Index,
		"palette":        colors,
	})
}

type colorRequest struct {
	Color string `json:"color"`
}

// Color records the completion with the chosen stamp color.
func (h *Handler) Color(c *fiber.Ctx) error {
	var req colorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.engine.ChooseColor(c.UserContext(), c.Get(SessionTokenHeader), req.Color)
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"step":           StepSuccess.String(),
		"activity_title": res.ActivityTitle,
		"color":          res.Color,
		"progress":       progressPayload(res.Progress),
	})
}

// Cancel resets the redemption flow.
func (h *Handler) Cancel(c *fiber.Ctx) error {
	if err := h.engine.Cancel(c.Get(SessionTokenHeader)); err != nil {
		return mapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Acknowledge confirms the success screen and resets the flow.
func (h *Handler) Acknowledge(c *fiber.Ctx) error {
	if err := h.engine.AcknowledgeSuccess(c.UserContext(), c.Get(SessionTokenHeader)); err != nil {
		return mapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrMalformedCode), errors.Is(err, ErrMalformedPassportCode):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNoSession):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrColorLocked):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrCodeNotFound), errors.Is(err, ErrPassportNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyRedeemed), errors.Is(err, ErrInvalidState), errors.Is(err, ErrRedeemInFlight):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrRateLimited):
		return fiber.NewError(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ErrPersistence):
		return fiber.NewError(http.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}

func viewPayload(view View) fiber.Map {
	return fiber.Map{
		"token":       view.Token,
		"passport":    passportPayload(view.Passport),
		"progress":    progressPayload(view.Progress),
		"page":        view.Page,
		"step":        view.Step.String(),
		"activity":    view.Activity,
		"level":       view.Progress.Level.Label,
		"level_index": view.Progress.Level.Index,
	}
}

func passportPayload(p passport.Passport) fiber.Map {
	completions := make([]fiber.Map, 0, len(p.Completions))
	for _, comp := range p.Completions {
		completions = append(completions, fiber.Map{
			"activity_title": comp.ActivityTitle,
			"color":          comp.Color,
			"completed_at":   comp.CompletedAt,
		})
	}
	return fiber.Map{
		"id":          p.ID,
		"code":        p.Code,
		"holder_name": p.HolderName,
		"completions": completions,
	}
}

func progressPayload(pr tier.Progress) fiber.Map {
	payload := fiber.Map{
		"completion_count": pr.CompletionCount,
		"level":            pr.Level.Label,
		"level_index":      pr.Level.Index,
		"level_color":      pr.Level.Color,
		"total_pages":      pr.TotalPages,
		"vouchers_earned":  pr.VouchersEarned,
		"in_cycle":         pr.ProgressInCycle,
	}
	if pr.ProgressInCycle > 0 {
		payload["remaining_to_voucher"] = pr.RemainingToNextVoucher
	}
	return payload
}
