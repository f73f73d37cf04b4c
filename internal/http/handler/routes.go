package handler

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"filevault/internal/http/middleware"
	"filevault/internal/service"
)

// Deps are the collaborators RegisterRoutes wires into handlers.
type Deps struct {
	DB     *sql.DB
	Auth   service.AuthService
	Files  service.FileService
	Logger *slog.Logger

	// AuthRateLimit caps signup/signin/refresh requests per client IP per AuthRateWindow.
	// Zero disables the limiter.
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	authH := NewAuthHandler(d.Auth, d.Logger)
	fileH := NewFileHandler(d.Files, d.Logger)
	requireAuth := middleware.RequireAuth(d.Auth)
	throttle := authLimiter(d.AuthRateLimit, d.AuthRateWindow)

	a := app.Group("/auth")
	a.Post("/signup", throttle, authH.Signup)
	a.Post("/signin", throttle, authH.Signin)
	a.Post("/signin/new_token", throttle, authH.Refresh)
	a.Get("/me", requireAuth, authH.Me)
	a.Get("/info", requireAuth, authH.Info)
	a.Post("/logout", requireAuth, authH.Logout)

	// Static segments are registered before /:id so they are not captured as ids.
	f := app.Group("/file", requireAuth)
	f.Post("/upload", fileH.Upload)
	f.Get("/list", fileH.List)
	f.Put("/update/:id", fileH.Update)
	f.Delete("/delete/:id", fileH.Delete)
	f.Get("/:id/download", fileH.Download)
	f.Get("/:id", fileH.Get)
}

func authLimiter(limit int, window time.Duration) fiber.Handler {
	if limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if window <= 0 {
		window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return writeError(c, fiber.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
		},
	})
}
