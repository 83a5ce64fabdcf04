package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func adminApp(t *testing.T, keyHash string) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Post("/admin", AdminKey(keyHash), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func postAdmin(t *testing.T, app *fiber.App, key string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/admin", nil)
	if key != "" {
		req.Header.Set(adminKeyHeader, key)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestAdminKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sesame"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	app := adminApp(t, string(hash))

	if status := postAdmin(t, app, ""); status != fiber.StatusUnauthorized {
		t.Fatalf("missing key: expected 401, got %d", status)
	}
	if status := postAdmin(t, app, "wrong"); status != fiber.StatusUnauthorized {
		t.Fatalf("wrong key: expected 401, got %d", status)
	}
	if status := postAdmin(t, app, "sesame"); status != fiber.StatusOK {
		t.Fatalf("valid key: expected 200, got %d", status)
	}
}

func TestAdminKeyDisabledWithoutHash(t *testing.T) {
	app := adminApp(t, "")
	if status := postAdmin(t, app, "anything"); status != fiber.StatusForbidden {
		t.Fatalf("expected 403 when disabled, got %d", status)
	}
}
