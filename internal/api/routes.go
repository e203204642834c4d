package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"face-overlay/internal/api/handlers"
	"face-overlay/internal/config"
	"face-overlay/internal/services/stream"
)

func NewServer(cfg *config.Config, svc *stream.Service) *fiber.App {
	app := config.NewFiber(cfg)
	app.Use(requestID(), requestLogger())

	handlers.RegisterHealthRoutes(app)
	handlers.RegisterStreamRoutes(app, handlers.NewStreamHandler(svc, validator.New()))

	return app
}
