package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func setupThrottleApp(t *testing.T, maxPerMin int) *fiber.App {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New()
	app.Post("/login", LoginRateLimit(cache, maxPerMin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func postLogin(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestLoginRateLimitPerCode(t *testing.T) {
	app := setupThrottleApp(t, 3)

	for i := 0; i < 3; i++ {
		if status := postLogin(t, app, `{"code":"ALT001"}`); status != fiber.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, status)
		}
	}

	if status := postLogin(t, app, `{"code":"ALT001"}`); status != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 past the limit, got %d", status)
	}

	// A different code has its own bucket.
	if status := postLogin(t, app, `{"code":"ALT002"}`); status != fiber.StatusOK {
		t.Fatalf("expected fresh bucket, got %d", status)
	}
}

func TestLoginRateLimitWithoutRedisIsNoop(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginRateLimit(nil, 1), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 5; i++ {
		if status := postLogin(t, app, `{"code":"ALT001"}`); status != fiber.StatusOK {
			t.Fatalf("expected fail-open without redis, got %d", status)
		}
	}
}
