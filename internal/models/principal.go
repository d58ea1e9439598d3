package models

import "github.com/yourorg/dataexpress/internal/identity"

// Principal es la identidad verificada del request (solo lectura aguas abajo)
type Principal struct {
	UID           string                 `json:"uid"`
	Email         string                 `json:"email"`
	EmailVerified bool                   `json:"emailVerified"`
	Name          string                 `json:"name,omitempty"`
	Picture       string                 `json:"picture,omitempty"`
	Role          string                 `json:"role"`
	CustomClaims  map[string]interface{} `json:"customClaims"`
}

// PrincipalFromToken construye el principal a partir de un token verificado
func PrincipalFromToken(t *identity.Token) *Principal {
	claims := t.Claims
	if claims == nil {
		claims = map[string]interface{}{}
	}
	return &Principal{
		UID:           t.UID,
		Email:         t.Email,
		EmailVerified: t.EmailVerified,
		Name:          t.Name,
		Picture:       t.Picture,
		Role:          identity.RoleFromClaims(claims),
		CustomClaims:  claims,
	}
}

// IsAdmin reporta si el principal omite las verificaciones de propiedad
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == identity.RoleAdmin
}

// HasRole reporta si el rol del principal está en roles
func (p *Principal) HasRole(roles ...string) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// CanAccess aplica la regla dueño-o-admin: admin siempre pasa, el resto solo
// sobre recursos cuyo dueño es él mismo
func (p *Principal) CanAccess(ownerID string) bool {
	if p == nil {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	return ownerID != "" && ownerID == p.UID
}
