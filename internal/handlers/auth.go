package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/dataexpress/internal/middleware"
	"github.com/yourorg/dataexpress/internal/models"
	"github.com/yourorg/dataexpress/internal/services"
)

// AuthHandler expone login, registro y verificación de tokens
type AuthHandler struct {
	svc *services.Auth
}

func NewAuthHandler(svc *services.Auth) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login - POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	result, err := h.svc.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, result, "Login exitoso")
}

// Register - POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	result, message, err := h.svc.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, result, message)
}

// Verify - POST /auth/verify
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req models.TokenRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	info, err := h.svc.Verify(c.UserContext(), req.IDToken)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"user": info}, "Token válido")
}

// Refresh - POST /auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req models.TokenRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	info, token, err := h.svc.Refresh(c.UserContext(), req.IDToken)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"token": token, "user": info}, "Token verificado")
}

// Me - GET /auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	profile, err := h.svc.Profile(c.UserContext(), middleware.CurrentPrincipal(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"user": profile}, "")
}
