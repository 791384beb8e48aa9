// Package server assembles the Fiber application.
package server

import (
	"trailerstore/internal/handlers"
	"trailerstore/internal/middleware"
	"trailerstore/internal/services"
	"trailerstore/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Options configures New.
type Options struct {
	Production bool
	BodyLimit  int // bytes
	Logger     *logger.Logger
	// Tokens guards write routes when set.
	Tokens middleware.TokenValidator
}

// New builds the HTTP application around service.
func New(service *services.TrailerService, opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "Trailer Store API",
		BodyLimit:             opts.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(log.WithComponent("http"), opts.Production),
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(log.WithComponent("http")))

	apiHandler := handlers.NewAPIHandler()
	trailerHandler := handlers.NewTrailerHandler(service)

	app.Get("/health", apiHandler.HandleHealth)

	api := app.Group("/api")
	if opts.Tokens != nil {
		api.Use("/trailers", middleware.WritesOnly(middleware.AuthRequired(opts.Tokens)))
	}
	apiHandler.RegisterRoutes(api)
	trailerHandler.RegisterRoutes(api)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	return app
}
