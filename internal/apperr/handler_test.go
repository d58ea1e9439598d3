package apperr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(dev bool, handler fiber.Handler) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := fiber.New(fiber.Config{ErrorHandler: Handler(logger, dev)})
	app.Get("/fail", handler)
	return app
}

func request(t *testing.T, app *fiber.App, path string) (int, string, Envelope, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("respuesta no es un envelope: %s", raw)
	}
	return resp.StatusCode, resp.Header.Get(fiber.HeaderRetryAfter), env, string(raw)
}

func TestHandlerRendersTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", Validation("Datos inválidos", nil), 400, CodeValidation},
		{"invalid json", InvalidJSON(errors.New("unexpected EOF")), 400, CodeInvalidJSON},
		{"authentication", Authentication(""), 401, CodeAuthentication},
		{"token expired", TokenExpired(), 401, CodeTokenExpired},
		{"invalid token", InvalidToken(errors.New("bad signature")), 401, CodeInvalidToken},
		{"authorization", Authorization(""), 403, CodeAuthorization},
		{"not found", NotFound("Solicitud"), 404, CodeNotFound},
		{"conflict", Conflict("El email ya está registrado"), 409, CodeConflict},
		{"database", Database("Error al guardar", errors.New("deadline")), 500, CodeDatabase},
		{"external", ExternalService("storage", errors.New("503")), 502, CodeExternalService},
		{"timeout", context.DeadlineExceeded, 504, CodeTimeout},
		{"wrapped", fmt.Errorf("servicio: %w", Conflict("duplicado")), 409, CodeConflict},
		{"plain", errors.New("boom"), 500, CodeInternal},
		{"fiber 413", fiber.ErrRequestEntityTooLarge, 413, CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(false, func(c *fiber.Ctx) error { return tt.err })
			status, _, env, _ := request(t, app, "/fail")

			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if env.Success {
				t.Error("success debería ser false")
			}
			if env.Error.Code != tt.code || env.Error.StatusCode != tt.status {
				t.Errorf("error = %+v", env.Error)
			}
			if env.Error.Message == "" {
				t.Error("el mensaje no debe ser vacío")
			}
		})
	}
}

func TestHandlerHidesInternalErrors(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.3:443: connection refused")
	app := newTestApp(false, func(c *fiber.Ctx) error {
		return Database("Error al guardar", cause).WithDetails(map[string]interface{}{"query": "solicitudes"})
	})

	_, _, env, raw := request(t, app, "/fail")
	if strings.Contains(raw, "connection refused") {
		t.Errorf("el error interno se filtró: %s", raw)
	}
	if env.Error.Details != nil {
		t.Errorf("los detalles de un 5xx no deben salir en producción: %v", env.Error.Details)
	}

	devApp := newTestApp(true, func(c *fiber.Ctx) error {
		return Database("Error al guardar", cause).WithDetails(map[string]interface{}{"query": "solicitudes"})
	})
	_, _, env, raw = request(t, devApp, "/fail")
	if env.Error.Details["query"] != "solicitudes" {
		t.Errorf("en desarrollo se esperaban los detalles: %v", env.Error.Details)
	}
	if strings.Contains(raw, "connection refused") {
		t.Error("el error interno nunca se serializa")
	}
}

func TestHandlerRateLimit(t *testing.T) {
	app := newTestApp(false, func(c *fiber.Ctx) error {
		return RateLimit("Demasiadas solicitudes", 42)
	})

	status, retry, env, _ := request(t, app, "/fail")
	if status != 429 || env.Error.Code != CodeRateLimit {
		t.Fatalf("status = %d, error = %+v", status, env.Error)
	}
	if retry != "42" || env.Error.RetryAfter != 42 {
		t.Errorf("Retry-After = %q, retryAfter = %d", retry, env.Error.RetryAfter)
	}
}

func TestHandlerUnknownRoute(t *testing.T) {
	app := newTestApp(false, func(c *fiber.Ctx) error { return nil })

	status, _, env, _ := request(t, app, "/nada?x=1")
	if status != 404 || env.Error.Code != CodeNotFound {
		t.Fatalf("status = %d, error = %+v", status, env.Error)
	}
	if env.Error.Message != "Ruta no encontrada: GET /nada?x=1" {
		t.Errorf("mensaje = %q", env.Error.Message)
	}
}

func TestIsAndAs(t *testing.T) {
	err := fmt.Errorf("capa: %w", NotFound("Usuario"))

	if !Is(err, KindNotFound) {
		t.Error("Is debería encontrar el kind a través del wrap")
	}
	if Is(err, KindConflict) {
		t.Error("kind incorrecto")
	}
	appErr, ok := As(err)
	if !ok || appErr.Message != "Usuario no encontrado" {
		t.Errorf("As = %+v, %v", appErr, ok)
	}

	cause := errors.New("raíz")
	if !errors.Is(Internal(cause), cause) {
		t.Error("Unwrap debe exponer la causa")
	}
}
