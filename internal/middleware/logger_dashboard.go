package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/dataexpress/internal/apperr"
	"github.com/yourorg/dataexpress/internal/debug"
)

// RequestLogger registra cada request en slog (debug) y lo envía al dashboard.
// hub puede ser nil.
func RequestLogger(logger *slog.Logger, hub *debug.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()
		if err != nil {
			// el ErrorHandler aún no escribió la respuesta
			status = apperr.FromError(c, err).Status
		}

		level := "info"
		if status >= 500 {
			level = "error"
		} else if status >= 400 {
			level = "warn"
		}

		metadata := map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"ip":          c.IP(),
		}
		if uid, ok := c.Locals(LocalsUserID).(string); ok && uid != "" {
			metadata["userId"] = uid
		}

		logger.Debug("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", duration,
		)
		hub.SendLog("backend", level, c.Method()+" "+c.Path(), metadata)

		return err
	}
}
