package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/dataexpress/internal/config"
	"github.com/yourorg/dataexpress/internal/store"
)

// HealthResponse representa el estado de salud del sistema
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Uptime      float64           `json:"uptime"`
	Environment string            `json:"environment"`
	Version     string            `json:"version"`
	Services    map[string]string `json:"services"`
}

// HealthHandler responde liveness e información de la API
type HealthHandler struct {
	cfg       *config.Config
	store     store.Store
	startTime time.Time
}

func NewHealthHandler(cfg *config.Config, st store.Store) *HealthHandler {
	return &HealthHandler{cfg: cfg, store: st, startTime: time.Now()}
}

// Health - GET /health. Siempre 200: es liveness, no readiness.
// El estado de cada colaborador va en "services".
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	services := map[string]string{
		"store":    h.cfg.StoreDriver,
		"blob":     h.cfg.BlobDriver,
		"auth":     h.cfg.AuthProvider,
		"renderer": h.cfg.PDFRenderer,
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		services["database"] = "unhealthy"
	} else {
		services["database"] = "healthy"
	}

	return c.Status(fiber.StatusOK).JSON(HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now(),
		Uptime:      time.Since(h.startTime).Seconds(),
		Environment: h.cfg.Env,
		Version:     h.cfg.APIVersion,
		Services:    services,
	})
}

// Root - GET /
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "API de solicitudes de crédito",
		"version":     h.cfg.APIVersion,
		"environment": h.cfg.Env,
		"docs":        h.cfg.BasePath(),
		"health":      "/health",
	})
}

// Endpoints - GET {prefix}/{version}
func (h *HealthHandler) Endpoints(c *fiber.Ctx) error {
	base := h.cfg.BasePath()
	return c.JSON(fiber.Map{
		"success": true,
		"version": h.cfg.APIVersion,
		"schema":  h.cfg.SolicitudSchema,
		"endpoints": fiber.Map{
			"solicitudes": fiber.Map{
				"create": "POST " + base + "/solicitudes",
				"list":   "GET " + base + "/solicitudes?page&limit&search",
				"get":    "GET " + base + "/solicitudes/:id",
				"update": "PUT " + base + "/solicitudes/:id",
				"delete": "DELETE " + base + "/solicitudes/:id",
			},
			"auth": fiber.Map{
				"login":    "POST " + base + "/auth/login",
				"register": "POST " + base + "/auth/register",
				"verify":   "POST " + base + "/auth/verify",
				"refresh":  "POST " + base + "/auth/refresh",
				"me":       "GET " + base + "/auth/me",
			},
			"users": fiber.Map{
				"list":   "GET " + base + "/users",
				"me":     "GET " + base + "/users/me",
				"get":    "GET " + base + "/users/:id",
				"create": "POST " + base + "/users",
				"update": "PUT " + base + "/users/:id",
				"delete": "DELETE " + base + "/users/:id",
			},
			"status": "GET " + base + "/status",
		},
	})
}
