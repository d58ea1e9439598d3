package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/dataexpress/internal/apperr"
	"github.com/yourorg/dataexpress/internal/identity"
	"github.com/yourorg/dataexpress/internal/models"
)

// ============================================================================
// AUTENTICACIÓN Y AUTORIZACIÓN
// ============================================================================
// El principal verificado viaja en c.Locals("user") y el uid en c.Locals("userID").
// Regla transversal: el dueño puede leer/editar/borrar lo suyo, admin puede todo.

const (
	LocalsUser   = "user"
	LocalsUserID = "userID"
)

// Authenticate exige "Authorization: Bearer <token>" válido
func Authenticate(provider identity.Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := verifyBearer(c, provider)
		if err != nil {
			return err
		}
		c.Locals(LocalsUser, principal)
		c.Locals(LocalsUserID, principal.UID)
		return c.Next()
	}
}

// OptionalAuth nunca falla: si no hay token válido el principal queda nil
func OptionalAuth(provider identity.Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) != "" {
			if principal, err := verifyBearer(c, provider); err == nil {
				c.Locals(LocalsUser, principal)
				c.Locals(LocalsUserID, principal.UID)
				return c.Next()
			}
		}
		c.Locals(LocalsUser, nil)
		return c.Next()
	}
}

func verifyBearer(c *fiber.Ctx, provider identity.Provider) (*models.Principal, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return nil, apperr.Authentication("Token de autenticación no proporcionado")
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, apperr.Authentication("Formato de token inválido. Use: Bearer <token>")
	}

	tok, err := provider.VerifyIDToken(c.UserContext(), parts[1])
	if err != nil {
		if errors.Is(err, identity.ErrTokenExpired) {
			return nil, apperr.TokenExpired()
		}
		return nil, apperr.InvalidToken(err)
	}
	return models.PrincipalFromToken(tok), nil
}

// CurrentPrincipal retorna el principal del request o nil
func CurrentPrincipal(c *fiber.Ctx) *models.Principal {
	p, _ := c.Locals(LocalsUser).(*models.Principal)
	return p
}

// RequireRole rechaza si el rol del principal no está en roles
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := CurrentPrincipal(c)
		if p == nil {
			return apperr.Authentication("")
		}
		if !p.HasRole(roles...) {
			return apperr.Authorization("Se requiere uno de los roles: " + strings.Join(roles, ", "))
		}
		return c.Next()
	}
}

// RequireOwnership compara el parámetro de ruta con el uid del principal
func RequireOwnership(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := CurrentPrincipal(c)
		if p == nil {
			return apperr.Authentication("")
		}
		if !CanAccess(p, c.Params(param)) {
			return apperr.Authorization("No tiene permisos para acceder a este recurso")
		}
		return c.Next()
	}
}

// CanAccess aplica la regla dueño-o-admin sobre un recurso ya leído
func CanAccess(p *models.Principal, ownerID string) bool {
	return p.CanAccess(ownerID)
}
