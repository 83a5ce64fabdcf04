package redemption

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/altour-italy/tessera/internal/catalog"
	"github.com/altour-italy/tessera/internal/logging"
	"github.com/altour-italy/tessera/internal/passport"
	"github.com/altour-italy/tessera/internal/session"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	directory := passport.NewMemoryDirectory()
	codes := catalog.NewMemoryCatalog()
	sessions := session.NewMemoryStore(7 * 24 * time.Hour)

	ctx := context.Background()
	directory.Create(ctx, passport.Passport{
		ID:         uuid.NewString(),
		Code:       "ALT001",
		HolderName: "Mario Rossi",
		CreatedAt:  time.Now().UTC(),
	})
	codes.Create(ctx, catalog.Entry{Code: "HIKE1", ActivityTitle: "Ciaspolata", CreatedAt: time.Now().UTC()})

	engine, err := NewEngine(Config{
		Directory: directory,
		Catalog:   codes,
		Sessions:  sessions,
		Logger:    logging.Discard(),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	h := NewHandler(engine)
	app := fiber.New()
	app.Post("/auth/login", h.Login)
	app.Post("/auth/logout", h.Logout)
	app.Get("/auth/session", h.Session)
	app.Get("/passport/me", h.Me)
	app.Post("/redemptions", h.Submit)
	app.Post("/redemptions/palette", h.Palette)
	app.Post("/redemptions/color", h.Color)
	app.Post("/redemptions/cancel", h.Cancel)
	app.Post("/redemptions/ack", h.Acknowledge)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(SessionTokenHeader, token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	if len(payload) > 0 && strings.HasPrefix(strings.TrimSpace(string(payload)), "{") {
		if err := json.Unmarshal(payload, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", payload, err)
		}
	}
	return resp.StatusCode, decoded
}

func TestHandlerFullFlow(t *testing.T) {
	app := setupTestApp(t)

	status, body := doJSON(t, app, fiber.MethodPost, "/auth/login", "", `{"code":"ALT001"}`)
	if status != fiber.StatusOK {
		t.Fatalf("login status %d", status)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("expected token in login response")
	}

	status, body = doJSON(t, app, fiber.MethodPost, "/redemptions", token, `{"code":"HIKE1"}`)
	if status != fiber.StatusOK {
		t.Fatalf("submit status %d", status)
	}
	if body["activity_title"] != "Ciaspolata" {
		t.Fatalf("expected Ciaspolata, got %v", body["activity_title"])
	}

	status, body = doJSON(t, app, fiber.MethodPost, "/redemptions/palette", token, "")
	if status != fiber.StatusOK {
		t.Fatalf("palette status %d", status)
	}
	if body["step"] != "color" {
		t.Fatalf("expected color step, got %v", body["step"])
	}

	status, body = doJSON(t, app, fiber.MethodPost, "/redemptions/color", token, `{"color":"#C0623D"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("color status %d", status)
	}
	if body["color"] != "#C0623D" {
		t.Fatalf("expected chosen color echoed, got %v", body["color"])
	}

	status, _ = doJSON(t, app, fiber.MethodPost, "/redemptions/ack", token, "")
	if status != fiber.StatusNoContent {
		t.Fatalf("ack status %d", status)
	}

	// Duplicate claim surfaces as a conflict.
	status, _ = doJSON(t, app, fiber.MethodPost, "/redemptions", token, `{"code":"HIKE1"}`)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 on duplicate, got %d", status)
	}

	status, body = doJSON(t, app, fiber.MethodGet, "/passport/me", token, "")
	if status != fiber.StatusOK {
		t.Fatalf("me status %d", status)
	}
	progress, _ := body["progress"].(map[string]any)
	if progress == nil || progress["completion_count"] != float64(1) {
		t.Fatalf("expected completion_count 1, got %v", body["progress"])
	}
}

func TestHandlerErrorStatuses(t *testing.T) {
	app := setupTestApp(t)

	status, _ := doJSON(t, app, fiber.MethodPost, "/redemptions", "", `{"code":"HIKE1"}`)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", status)
	}

	status, _ = doJSON(t, app, fiber.MethodPost, "/auth/login", "", `{"code":"nope"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for malformed code, got %d", status)
	}

	status, _ = doJSON(t, app, fiber.MethodPost, "/auth/login", "", `{"code":"ALT404"}`)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown passport, got %d", status)
	}

	status, _ = doJSON(t, app, fiber.MethodGet, "/auth/session", "bogus-token", "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for dead session, got %d", status)
	}
}

func TestHandlerSessionRestore(t *testing.T) {
	app := setupTestApp(t)

	_, body := doJSON(t, app, fiber.MethodPost, "/auth/login", "", `{"code":"ALT001"}`)
	token, _ := body["token"].(string)

	status, restored := doJSON(t, app, fiber.MethodGet, "/auth/session", token, "")
	if status != fiber.StatusOK {
		t.Fatalf("session status %d", status)
	}
	pass, _ := restored["passport"].(map[string]any)
	if pass == nil || pass["code"] != "ALT001" {
		t.Fatalf("expected restored passport, got %v", restored["passport"])
	}

	status, _ = doJSON(t, app, fiber.MethodPost, "/auth/logout", token, "")
	if status != fiber.StatusNoContent {
		t.Fatalf("logout status %d", status)
	}
	status, _ = doJSON(t, app, fiber.MethodGet, "/auth/session", token, "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
}
