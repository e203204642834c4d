package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"face-overlay/pkg/log"
)

const RequestIDHeader = "X-Request-ID"

func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(log.RequestIDKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		id, _ := c.Locals(log.RequestIDKey).(string)
		status := c.Response().StatusCode()
		fields := log.Fields{
			log.RequestIDKey: id,
			"method":         c.Method(),
			"path":           c.Path(),
			"status":         status,
			"latency_ms":     time.Since(start).Milliseconds(),
		}

		switch {
		case status >= 500:
			log.Error(fields, "Server error")
		case status >= 400:
			log.Warn(fields, "Client error")
		default:
			log.Info(fields, "Success")
		}
		return err
	}
}
