package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/dataexpress/internal/apperr"
	"github.com/yourorg/dataexpress/internal/middleware"
	"github.com/yourorg/dataexpress/internal/models"
	"github.com/yourorg/dataexpress/internal/services"
)

// UsersHandler expone el recurso /users
type UsersHandler struct {
	svc *services.Users
}

func NewUsersHandler(svc *services.Users) *UsersHandler {
	return &UsersHandler{svc: svc}
}

// List - GET /users (admin)
func (h *UsersHandler) List(c *fiber.Ctx) error {
	result, err := h.svc.List(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("limit", 10), c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       result.Items,
		"pagination": result.Pagination,
	})
}

// Me - GET /users/me
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	p := middleware.CurrentPrincipal(c)
	if p == nil {
		return apperr.Authentication("")
	}
	user, err := h.svc.GetByFirebaseUID(c.UserContext(), p.UID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, user, "")
}

// ByFirebaseUID - GET /users/firebase/:uid (dueño o admin)
func (h *UsersHandler) ByFirebaseUID(c *fiber.Ctx) error {
	user, err := h.svc.GetByFirebaseUID(c.UserContext(), c.Params("uid"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, user, "")
}

// Get - GET /users/:id
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.svc.Get(c.UserContext(), c.Params("id"), middleware.CurrentPrincipal(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, user, "")
}

// Create - POST /users (admin)
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var in models.UserInput
	if err := parseJSON(c, &in); err != nil {
		return err
	}
	user, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, user, "Usuario creado exitosamente")
}

// Update - PUT /users/:id
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var in models.UserInput
	if err := parseJSON(c, &in); err != nil {
		return err
	}
	user, err := h.svc.Update(c.UserContext(), c.Params("id"), in, middleware.CurrentPrincipal(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, user, "Usuario actualizado exitosamente")
}

// Delete - DELETE /users/:id
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id"), middleware.CurrentPrincipal(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Usuario eliminado exitosamente"})
}
