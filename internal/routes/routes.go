package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/altour-italy/tessera/internal/catalog"
	"github.com/altour-italy/tessera/internal/celebration"
	"github.com/altour-italy/tessera/internal/config"
	"github.com/altour-italy/tessera/internal/middleware"
	"github.com/altour-italy/tessera/internal/passport"
	"github.com/altour-italy/tessera/internal/redemption"
	"github.com/altour-italy/tessera/internal/session"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Stores, falling back to in-memory implementations in dev mode.
	var directory passport.Directory
	var codes catalog.Catalog
	if d.DB != nil {
		directory = passport.NewPostgresDirectory(d.DB)
		codes = catalog.NewPostgresCatalog(d.DB)
	} else {
		directory = passport.NewMemoryDirectory()
		codes = catalog.NewMemoryCatalog()
		seedDevData(directory, codes, d.Logger)
	}

	var sessions session.Store
	if d.Cache != nil {
		sessions = session.NewRedisStore(d.Cache, d.Cfg.SessionTTL)
	} else {
		sessions = session.NewMemoryStore(d.Cfg.SessionTTL)
	}

	engine, err := redemption.NewEngine(redemption.Config{
		Directory:          directory,
		Catalog:            codes,
		Sessions:           sessions,
		Notifier:           celebration.NewLoggerNotifier(d.Logger),
		Logger:             d.Logger,
		LoginAttemptLimit:  d.Cfg.LoginAttemptLimit,
		SubmitAttemptLimit: d.Cfg.RedeemAttemptLimit,
	})
	if err != nil {
		return err
	}

	redemptionHandler := redemption.NewHandler(engine)
	catalogHandler := catalog.NewHandler(codes)
	passportHandler := passport.NewHandler(directory)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	loginThrottle := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginAttemptLimit)
	RegisterAuthRoutes(api, redemptionHandler, loginThrottle)
	RegisterPassportRoutes(api, redemptionHandler)
	RegisterRedemptionRoutes(api, redemptionHandler)

	adminGuard := middleware.AdminKey(d.Cfg.AdminKeyHash)
	RegisterAdminRoutes(api, catalogHandler, passportHandler, adminGuard)

	return nil
}

// seedDevData loads a demo passport and a few redemption codes so the
// flow is usable out of the box without a database.
func seedDevData(directory passport.Directory, codes catalog.Catalog, logger *slog.Logger) {
	ctx := context.Background()
	demo := passport.Passport{
		ID:          "5f7a1f8e-0000-4000-8000-000000000001",
		Code:        "ALT001",
		HolderName:  "Demo Holder",
		Completions: []passport.Completion{},
		CreatedAt:   time.Now().UTC(),
	}
	if err := directory.Create(ctx, demo); err != nil {
		logger.Warn("seed passport failed", "error", err)
	}
	for code, title := range map[string]string{
		"HIKE1":  "Ciaspolata",
		"HIKE2":  "Trekking al Rifugio",
		"CORSO1": "Corso di Arrampicata",
	} {
		entry := catalog.Entry{Code: code, ActivityTitle: title, CreatedAt: time.Now().UTC()}
		if err := codes.Create(ctx, entry); err != nil {
			logger.Warn("seed code failed", "code", code, "error", err)
		}
	}
	logger.Info("dev data seeded", "passport", demo.Code)
}
