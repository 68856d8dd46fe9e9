package handlers

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "bazaar/internal/log"
)

// Register mounts the whole API surface. Trailing slashes are
// tolerated by fiber's default (non-strict) routing.
func Register(app *fiber.App, d *Deps) {
	app.Use(WithCaller(d.Auth))

	// Auth (login throttled)
	app.Post("/auth/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			res := c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, retry later"})
			applog.Security(c, "rate.login.hit", nil)
			return res
		},
	}), d.AuthHandler.Login)
	app.Post("/auth/logout", RequireCaller(), d.AuthHandler.Logout)

	// Catalog
	app.Get("/items", d.ItemHandler.List)
	app.Post("/items", RequireCaller(), d.ItemHandler.Create)
	app.Get("/items/:id", d.ItemHandler.Get)
	app.Put("/items/:id", RequireCaller(), d.ItemHandler.Update)
	app.Delete("/items/:id", RequireCaller(), d.ItemHandler.Delete)

	// Reviews
	app.Post("/items/:id/review", RequireCaller(), d.ReviewHandler.Create)
	app.Put("/items/:id/review/:rid", RequireCaller(), d.ReviewHandler.Update)
	app.Delete("/items/:id/review/:rid", RequireCaller(), d.ReviewHandler.Delete)

	// Cart
	app.Post("/items/:id/cart", RequireCaller(), d.CartHandler.Add)
	app.Delete("/items/:id/cart", RequireCaller(), d.CartHandler.Remove)

	// Users
	app.Get("/users", d.UserHandler.List)
	app.Post("/users", d.UserHandler.Create)
	app.Get("/users/:id", d.UserHandler.Get)
	app.Put("/users/:id", RequireCaller(), d.UserHandler.Update)
	app.Delete("/users/:id", RequireCaller(), d.UserHandler.Delete)

	// Uploaded media, guarded against traversal
	registerMedia(app, d.MediaDir)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}

func registerMedia(app *fiber.App, mediaDir string) {
	if abs, err := filepath.Abs(mediaDir); err == nil {
		mediaDir = abs
	}
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			res := c.SendStatus(fiber.StatusNotFound)
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return res
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			res := c.SendStatus(fiber.StatusNotFound)
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return res
		}
		full := filepath.Join(mediaDir, clean)
		return c.SendFile(full, true)
	})
}
