package identity

import (
	"context"
	"errors"
	"time"
)

// ============================================================================
// PROVEEDOR DE IDENTIDAD
// ============================================================================
// La API no firma ni verifica criptografía propia en producción: delega en
// Firebase Authentication. El proveedor local (JWT HS256 + bcrypt) existe
// para desarrollo y tests.

var (
	ErrTokenExpired       = errors.New("identity: token expirado")
	ErrTokenRevoked       = errors.New("identity: token revocado")
	ErrTokenInvalid       = errors.New("identity: token inválido")
	ErrUserNotFound       = errors.New("identity: usuario no encontrado")
	ErrEmailExists        = errors.New("identity: el email ya está registrado")
	ErrInvalidCredentials = errors.New("identity: credenciales inválidas")
)

// RoleAdmin es el rol que omite las verificaciones de propiedad
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Token es el resultado de verificar un ID token
type Token struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
	Claims        map[string]interface{} // claims personalizados (ej: role)
	AuthTime      int64
	IssuedAt      int64
	Expires       int64
}

// Role resuelve el rol desde los claims; por defecto "user"
func (t *Token) Role() string {
	return RoleFromClaims(t.Claims)
}

// RoleFromClaims extrae claims["role"] o retorna RoleUser
func RoleFromClaims(claims map[string]interface{}) string {
	if role, ok := claims["role"].(string); ok && role != "" {
		return role
	}
	return RoleUser
}

// UserRecord es el usuario tal como lo conoce el proveedor
type UserRecord struct {
	UID           string
	Email         string
	DisplayName   string
	PhotoURL      string
	EmailVerified bool
	Disabled      bool
	CustomClaims  map[string]interface{}
	CreatedAt     time.Time
	LastLoginAt   time.Time
}

// NewUser son los datos para crear un usuario con email y contraseña
type NewUser struct {
	Email       string
	Password    string
	DisplayName string
}

// Provider es el contrato mínimo con el proveedor de identidad
type Provider interface {
	Name() string
	VerifyIDToken(ctx context.Context, idToken string) (*Token, error)
	GetUser(ctx context.Context, uid string) (*UserRecord, error)
	CreateUser(ctx context.Context, user NewUser) (*UserRecord, error)
}

// PasswordSigner lo implementan proveedores que pueden iniciar sesión con email/contraseña
type PasswordSigner interface {
	SignInWithPassword(ctx context.Context, email, password string) (string, *UserRecord, error)
}

// TokenIssuer lo implementan proveedores que emiten ID tokens propios
type TokenIssuer interface {
	IssueToken(ctx context.Context, uid string) (string, time.Time, error)
}

// ClaimsSetter permite asignar claims personalizados (ej: role=admin)
type ClaimsSetter interface {
	SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error
}
