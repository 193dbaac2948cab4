package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"plataforma/pkg/metrics"
	"plataforma/pkg/middleware"
)

// NewApp builds the fiber app shared by every service with /health and
// /metrics already mounted.
func NewApp(name, corsOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		ReduceMemoryUsage:     true,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(cors.New(middleware.CORSConfig(corsOrigins)))
	app.Use(metrics.Middleware(name))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "servico": name})
	})
	app.Get("/metrics", metrics.Handler())

	return app
}
