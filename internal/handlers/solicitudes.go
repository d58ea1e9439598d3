package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/dataexpress/internal/middleware"
	"github.com/yourorg/dataexpress/internal/services"
	"github.com/yourorg/dataexpress/internal/validation"
)

// SolicitudesHandler expone el CRUD de solicitudes de crédito
type SolicitudesHandler struct {
	svc *services.Solicitudes
}

func NewSolicitudesHandler(svc *services.Solicitudes) *SolicitudesHandler {
	return &SolicitudesHandler{svc: svc}
}

// Create - POST /solicitudes
func (h *SolicitudesHandler) Create(c *fiber.Ctx) error {
	var form validation.Form
	if err := parseJSON(c, &form); err != nil {
		return err
	}

	sol, err := h.svc.Create(c.UserContext(), form, middleware.CurrentPrincipal(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, sol, "Solicitud de crédito creada exitosamente")
}

// List - GET /solicitudes?page&limit&search
func (h *SolicitudesHandler) List(c *fiber.Ctx) error {
	result, err := h.svc.List(c.UserContext(),
		middleware.CurrentPrincipal(c),
		c.QueryInt("page", 1),
		c.QueryInt("limit", 10),
		c.Query("search"),
	)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       result.Items,
		"pagination": result.Pagination,
	})
}

// Get - GET /solicitudes/:id
func (h *SolicitudesHandler) Get(c *fiber.Ctx) error {
	sol, err := h.svc.Get(c.UserContext(), c.Params("id"), middleware.CurrentPrincipal(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, sol, "")
}

// Update - PUT /solicitudes/:id
func (h *SolicitudesHandler) Update(c *fiber.Ctx) error {
	var patch validation.Form
	if err := parseJSON(c, &patch); err != nil {
		return err
	}
	if patch == nil {
		patch = validation.Form{}
	}

	sol, err := h.svc.Update(c.UserContext(), c.Params("id"), patch, middleware.CurrentPrincipal(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, sol, "Solicitud actualizada exitosamente")
}

// Delete - DELETE /solicitudes/:id
func (h *SolicitudesHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id"), middleware.CurrentPrincipal(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Solicitud eliminada exitosamente",
	})
}
