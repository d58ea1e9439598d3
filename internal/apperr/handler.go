package apperr

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Body es el contenido de la llave "error" del envelope
type Body struct {
	Message    string                 `json:"message"`
	Code       string                 `json:"code"`
	StatusCode int                    `json:"statusCode"`
	RetryAfter int                    `json:"retryAfter,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Envelope es la forma única de toda respuesta de error
type Envelope struct {
	Success bool `json:"success"`
	Error   Body `json:"error"`
}

// FromError normaliza cualquier error a *Error.
// Los *fiber.Error generados por el framework (404 de ruta, 408 del timeout,
// 413 por body) se traducen a la taxonomía propia.
func FromError(c *fiber.Ctx, err error) *Error {
	if appErr, ok := As(err); ok {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout().Wrap(err)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return newError(KindNotFound, CodeNotFound, fiber.StatusNotFound,
				"Ruta no encontrada: "+c.Method()+" "+c.OriginalURL())
		case fiber.StatusRequestTimeout:
			return Timeout().Wrap(err)
		case fiber.StatusUnauthorized:
			return Authentication(fe.Message)
		case fiber.StatusForbidden:
			return Authorization(fe.Message)
		case fiber.StatusTooManyRequests:
			return RateLimit(fe.Message, 0)
		}
		if fe.Code >= 400 && fe.Code < 500 {
			return newError(KindValidation, CodeValidation, fe.Code, fe.Message)
		}
		return Internal(err)
	}
	return Internal(err)
}

// Render arma el envelope. Los detalles de errores 5xx solo salen en desarrollo.
func Render(appErr *Error, development bool) Envelope {
	body := Body{
		Message:    appErr.Message,
		Code:       appErr.Code,
		StatusCode: appErr.Status,
	}
	if appErr.Status < 500 || development {
		body.Details = appErr.Details
	}
	if appErr.Kind == KindRateLimit {
		if v, ok := appErr.Details["retryAfter"].(int); ok {
			body.RetryAfter = v
		}
	}
	return Envelope{Success: false, Error: body}
}

// Handler construye el fiber.ErrorHandler de la aplicación
func Handler(logger *slog.Logger, development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := FromError(c, err)

		attrs := []any{
			"code", appErr.Code,
			"status", appErr.Status,
			"method", c.Method(),
			"path", c.Path(),
		}
		if appErr.Err != nil {
			attrs = append(attrs, "error", appErr.Err.Error())
		}
		if appErr.Status >= 500 {
			logger.Error(appErr.Message, attrs...)
		} else {
			logger.Warn(appErr.Message, attrs...)
		}

		if appErr.Kind == KindRateLimit {
			if v, ok := appErr.Details["retryAfter"].(int); ok && v > 0 {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(v))
			}
		}
		return c.Status(appErr.Status).JSON(Render(appErr, development))
	}
}
