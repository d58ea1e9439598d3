package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// TAXONOMÍA DE ERRORES DE LA API
// ============================================================================
// Cada error de negocio o de colaborador externo termina como un *Error con
// un Kind, un código estable para el cliente y el status HTTP por defecto.
// El error interno (Err) solo se registra en logs, nunca se serializa.

// Kind clasifica los errores de la aplicación
type Kind string

const (
	KindValidation      Kind = "validation"
	KindAuthentication  Kind = "authentication"
	KindAuthorization   Kind = "authorization"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindRateLimit       Kind = "rate_limit"
	KindDatabase        Kind = "database"
	KindExternalService Kind = "external_service"
	KindTimeout         Kind = "timeout"
	KindInternal        Kind = "internal"
)

// Códigos expuestos en el envelope de error
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidJSON     = "INVALID_JSON"
	CodeAuthentication  = "AUTHENTICATION_ERROR"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeAuthorization   = "AUTHORIZATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT_ERROR"
	CodeRateLimit       = "RATE_LIMIT_EXCEEDED"
	CodeDatabase        = "DATABASE_ERROR"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"
	CodeTimeout         = "TIMEOUT"
	CodeInternal        = "INTERNAL_ERROR"
)

// Error es el error tipado que viaja desde servicios y middleware hasta el ErrorHandler
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetails agrega detalles visibles para el cliente
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

// Wrap guarda el error original para los logs del servidor
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func newError(kind Kind, code string, status int, message string) *Error {
	return &Error{Kind: kind, Code: code, Status: status, Message: message}
}

// ────────────────────────────────────────────────────────────────────────
// CONSTRUCTORES
// ────────────────────────────────────────────────────────────────────────

func Validation(message string, details map[string]interface{}) *Error {
	e := newError(KindValidation, CodeValidation, http.StatusBadRequest, message)
	e.Details = details
	return e
}

func InvalidJSON(err error) *Error {
	return newError(KindValidation, CodeInvalidJSON, http.StatusBadRequest, "JSON inválido en el cuerpo de la petición").Wrap(err)
}

func Authentication(message string) *Error {
	if message == "" {
		message = "No autenticado"
	}
	return newError(KindAuthentication, CodeAuthentication, http.StatusUnauthorized, message)
}

func TokenExpired() *Error {
	return newError(KindAuthentication, CodeTokenExpired, http.StatusUnauthorized, "Token expirado")
}

func InvalidToken(err error) *Error {
	return newError(KindAuthentication, CodeInvalidToken, http.StatusUnauthorized, "Token inválido").Wrap(err)
}

func Authorization(message string) *Error {
	if message == "" {
		message = "No autorizado para realizar esta acción"
	}
	return newError(KindAuthorization, CodeAuthorization, http.StatusForbidden, message)
}

// NotFound arma el mensaje "<recurso> no encontrado"
func NotFound(resource string) *Error {
	return newError(KindNotFound, CodeNotFound, http.StatusNotFound, resource+" no encontrado")
}

func Conflict(message string) *Error {
	return newError(KindConflict, CodeConflict, http.StatusConflict, message)
}

func RateLimit(message string, retryAfter int) *Error {
	e := newError(KindRateLimit, CodeRateLimit, http.StatusTooManyRequests, message)
	e.Details = map[string]interface{}{"retryAfter": retryAfter}
	return e
}

func Database(message string, err error) *Error {
	return newError(KindDatabase, CodeDatabase, http.StatusInternalServerError, message).Wrap(err)
}

func ExternalService(service string, err error) *Error {
	return newError(KindExternalService, CodeExternalService, http.StatusBadGateway,
		"Error en servicio externo: "+service).Wrap(err)
}

func Timeout() *Error {
	return newError(KindTimeout, CodeTimeout, http.StatusGatewayTimeout, "La petición excedió el tiempo máximo de respuesta")
}

func Internal(err error) *Error {
	return newError(KindInternal, CodeInternal, http.StatusInternalServerError, "Error interno del servidor").Wrap(err)
}

// As extrae el *Error de una cadena de errores
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reporta si err es un *Error del kind indicado
func Is(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
