package services

import (
	"errors"

	"github.com/yourorg/dataexpress/internal/apperr"
	"github.com/yourorg/dataexpress/internal/identity"
	"github.com/yourorg/dataexpress/internal/store"
)

// identityError traduce fallos del proveedor de identidad a la taxonomía
func identityError(err error) error {
	switch {
	case errors.Is(err, identity.ErrTokenExpired):
		return apperr.TokenExpired()
	case errors.Is(err, identity.ErrTokenRevoked), errors.Is(err, identity.ErrTokenInvalid):
		return apperr.InvalidToken(err)
	case errors.Is(err, identity.ErrInvalidCredentials):
		return apperr.Authentication("Credenciales inválidas")
	case errors.Is(err, identity.ErrUserNotFound):
		return apperr.NotFound("Usuario")
	case errors.Is(err, identity.ErrEmailExists):
		return apperr.Conflict("El email ya está registrado")
	}
	return apperr.ExternalService("autenticación", err)
}

// storeError traduce fallos del document store; ErrNotFound se reporta con resource
func storeError(err error, resource, message string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(resource)
	}
	return apperr.Database(message, err)
}

// documentError es el error de creación cuando el PDF no se pudo generar o subir:
// se reporta como 400 porque la solicitud no es válida sin documento
func documentError(message string, cause error) error {
	return apperr.Validation(message, map[string]interface{}{
		"errors": []map[string]interface{}{
			{"type": "document_error", "message": message},
		},
	}).Wrap(cause)
}

// normalizePage aplica page >= 1 y 1 <= limit <= 100 (10 por defecto)
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
