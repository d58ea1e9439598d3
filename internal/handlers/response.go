package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/dataexpress/internal/apperr"
)

// parseJSON decodifica el cuerpo con el decoder configurado en la app.
// Un cuerpo vacío deja out sin tocar.
func parseJSON(c *fiber.Ctx, out interface{}) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, out); err != nil {
		return apperr.InvalidJSON(err)
	}
	return nil
}

func ok(c *fiber.Ctx, status int, data interface{}, message string) error {
	resp := fiber.Map{"success": true, "data": data}
	if message != "" {
		resp["message"] = message
	}
	return c.Status(status).JSON(resp)
}
