package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/dataexpress/internal/apperr"
	"github.com/yourorg/dataexpress/internal/debug"
	"github.com/yourorg/dataexpress/internal/identity"
	"github.com/yourorg/dataexpress/internal/middleware"
	"github.com/yourorg/dataexpress/internal/models"
)

// DebugLogRequest representa un log enviado desde el frontend
type DebugLogRequest struct {
	Level    string                 `json:"level"` // debug, info, warn, error
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// DebugHandler conecta el dashboard de debugging
type DebugHandler struct {
	hub      *debug.Hub
	provider identity.Provider
}

func NewDebugHandler(hub *debug.Hub, provider identity.Provider) *DebugHandler {
	return &DebugHandler{hub: hub, provider: provider}
}

// Upgrade valida el handshake: debe ser WebSocket y traer un token de admin
// en ?token= (los navegadores no permiten headers en el handshake)
func (h *DebugHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	token := c.Query("token")
	if token == "" {
		return apperr.Authentication("Token de autenticación no proporcionado")
	}
	tok, err := h.provider.VerifyIDToken(c.UserContext(), token)
	if err != nil {
		return apperr.InvalidToken(err)
	}
	if !models.PrincipalFromToken(tok).IsAdmin() {
		return apperr.Authorization("El dashboard requiere rol admin")
	}
	return c.Next()
}

// Stream atiende la conexión WebSocket
func (h *DebugHandler) Stream() fiber.Handler {
	return websocket.New(h.hub.HandleConn)
}

// ReceiveClientLog - POST /debug/log: reenvía logs del frontend al dashboard
func (h *DebugHandler) ReceiveClientLog(c *fiber.Ctx) error {
	var req DebugLogRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	if req.Message == "" {
		return apperr.Validation("El campo message es requerido", nil)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[req.Level] {
		req.Level = "info"
	}

	if req.Metadata == nil {
		req.Metadata = map[string]interface{}{}
	}
	if p := middleware.CurrentPrincipal(c); p != nil {
		req.Metadata["uid"] = p.UID
	}
	h.hub.SendLog("frontend", req.Level, req.Message, req.Metadata)
	return c.JSON(fiber.Map{"success": true, "clients": h.hub.Clients()})
}
