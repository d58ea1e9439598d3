package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/yourorg/dataexpress/internal/apperr"
	"github.com/yourorg/dataexpress/internal/config"
	"github.com/yourorg/dataexpress/internal/ratelimit"
)

// ============================================================================
// RATE LIMITING MIDDLEWARE
// ============================================================================
// Dos niveles:
//   - RateLimit: ventana fija por (cliente, ruta) sobre ratelimit.Limiter,
//     para creación de solicitudes, login y registro.
//   - GlobalRateLimiter: limitador grueso por IP del propio Fiber.

// RateLimit aplica la regla sobre el Limiter compartido. stats puede ser nil.
func RateLimit(l *ratelimit.Limiter, rule config.RateRule, stats ratelimit.StatsRecorder, logger *slog.Logger) fiber.Handler {
	if !rule.Enabled() {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		client := ratelimit.ClientIdentity(c.Get(fiber.HeaderXForwardedFor), remoteAddr(c))
		route := c.Path()

		d := l.CheckAndIncrement(client, route, rule.Window, rule.Max)
		c.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

		if stats != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 500*time.Millisecond)
			if err := stats.Record(ctx, route, d.Allowed); err != nil {
				logger.Debug("no se pudo registrar estadística de rate limit", "error", err)
			}
			cancel()
		}

		if !d.Allowed {
			logger.Warn("rate limit excedido",
				"client", client,
				"route", route,
				"retryAfter", d.RetryAfter,
			)
			return apperr.RateLimit(
				fmt.Sprintf("Demasiadas solicitudes. Intente nuevamente en %d segundos", d.RetryAfter),
				d.RetryAfter,
			)
		}
		return c.Next()
	}
}

func remoteAddr(c *fiber.Ctx) string {
	if addr := c.Context().RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

// GlobalRateLimiter - limitador general por IP para toda la API
func GlobalRateLimiter(rule config.RateRule) fiber.Handler {
	if !rule.Enabled() {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        rule.Max,
		Expiration: rule.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return ratelimit.ClientIdentity(c.Get(fiber.HeaderXForwardedFor), c.IP())
		},
		Next: func(c *fiber.Ctx) bool {
			// health y dashboard no consumen cuota
			return c.Path() == "/health" || c.Path() == "/ws/debug"
		},
		LimitReached: func(c *fiber.Ctx) error {
			retry := int(rule.Window.Seconds())
			return apperr.RateLimit("Límite global de peticiones excedido", retry)
		},
		LimiterMiddleware: limiter.FixedWindow{},
	})
}
