package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/dataexpress/internal/config"
	"github.com/yourorg/dataexpress/internal/debug"
	"github.com/yourorg/dataexpress/internal/ratelimit"
	"github.com/yourorg/dataexpress/internal/services"
)

// StatusHandler entrega el estado operativo para administradores
type StatusHandler struct {
	cfg         *config.Config
	solicitudes *services.Solicitudes
	users       *services.Users
	limiter     *ratelimit.Limiter
	stats       *ratelimit.RedisStats
	hub         *debug.Hub
	startTime   time.Time
}

// NewStatusHandler crea el handler; stats y hub pueden ser nil
func NewStatusHandler(cfg *config.Config, sol *services.Solicitudes, users *services.Users,
	limiter *ratelimit.Limiter, stats *ratelimit.RedisStats, hub *debug.Hub) *StatusHandler {
	return &StatusHandler{
		cfg:         cfg,
		solicitudes: sol,
		users:       users,
		limiter:     limiter,
		stats:       stats,
		hub:         hub,
		startTime:   time.Now(),
	}
}

// SystemStatus representa el estado completo del sistema
type SystemStatus struct {
	Uptime      int64             `json:"uptime"`
	Version     string            `json:"version"`
	Schema      string            `json:"schema"`
	Solicitudes int               `json:"solicitudes"`
	Users       int               `json:"users"`
	RateLimit   RateLimitStatus   `json:"rateLimit"`
	Dashboard   int               `json:"dashboardClients"`
	Services    map[string]string `json:"services"`
}

// RateLimitStatus resume la tabla del limiter y las estadísticas del día
type RateLimitStatus struct {
	ActiveKeys int               `json:"activeKeys"`
	Today      map[string]string `json:"today,omitempty"`
}

// GetStatus - GET /status (admin)
func (h *StatusHandler) GetStatus(c *fiber.Ctx) error {
	start := time.Now()
	ctx := c.UserContext()

	solicitudes, err := h.solicitudes.Count(ctx)
	if err != nil {
		return err
	}
	users, err := h.users.Count(ctx)
	if err != nil {
		return err
	}

	status := SystemStatus{
		Uptime:      int64(time.Since(h.startTime).Seconds()),
		Version:     h.cfg.APIVersion,
		Schema:      h.cfg.SolicitudSchema,
		Solicitudes: solicitudes,
		Users:       users,
		RateLimit:   RateLimitStatus{ActiveKeys: h.limiter.Len()},
		Dashboard:   h.hub.Clients(),
		Services: map[string]string{
			"store":    h.cfg.StoreDriver,
			"blob":     h.cfg.BlobDriver,
			"auth":     h.cfg.AuthProvider,
			"renderer": h.cfg.PDFRenderer,
			"redis":    "disabled",
		},
	}

	if h.stats != nil {
		rctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if today, err := h.stats.Snapshot(rctx, time.Now()); err != nil {
			status.Services["redis"] = "unhealthy"
		} else {
			status.Services["redis"] = "healthy"
			status.RateLimit.Today = today
		}
	}

	dashboard := make(map[string]debug.ServiceStatus, len(status.Services))
	for name, st := range status.Services {
		dashboard[name] = debug.ServiceStatus{Status: st, Latency: time.Since(start).Milliseconds()}
	}
	h.hub.SendStatus(h.cfg.APIVersion, dashboard)

	return ok(c, fiber.StatusOK, status, "")
}
