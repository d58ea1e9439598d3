package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestLocal(now *time.Time) *Local {
	return NewLocal(testSecret, time.Hour,
		WithBcryptCost(bcrypt.MinCost),
		WithClock(func() time.Time { return *now }),
	)
}

func TestLocalRegisterSignInVerify(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	p := newTestLocal(&now)

	rec, err := p.CreateUser(ctx, NewUser{Email: "Ana@Example.com", Password: "secreta", DisplayName: "Ana"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if len(rec.UID) != 28 {
		t.Errorf("UID de largo %d, se esperaban 28", len(rec.UID))
	}
	if rec.Email != "ana@example.com" {
		t.Errorf("email no normalizado: %q", rec.Email)
	}

	if _, err := p.CreateUser(ctx, NewUser{Email: "ana@example.com", Password: "otra123"}); !errors.Is(err, ErrEmailExists) {
		t.Errorf("email duplicado: err = %v", err)
	}

	if _, _, err := p.SignInWithPassword(ctx, "ana@example.com", "mala"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("contraseña incorrecta: err = %v", err)
	}

	token, _, err := p.SignInWithPassword(ctx, "ANA@example.com", "secreta")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}

	tok, err := p.VerifyIDToken(ctx, token)
	if err != nil {
		t.Fatalf("VerifyIDToken: %v", err)
	}
	if tok.UID != rec.UID || tok.Email != "ana@example.com" || tok.Name != "Ana" {
		t.Errorf("token inesperado: %+v", tok)
	}
	if tok.Role() != RoleUser {
		t.Errorf("rol por defecto = %q", tok.Role())
	}
	if tok.Expires-tok.IssuedAt != 3600 {
		t.Errorf("ttl = %d", tok.Expires-tok.IssuedAt)
	}
}

func TestLocalCustomClaimsRole(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	p := newTestLocal(&now)

	rec, _ := p.CreateUser(ctx, NewUser{Email: "admin@example.com", Password: "secreta"})
	if err := p.SetCustomClaims(ctx, rec.UID, map[string]interface{}{"role": RoleAdmin}); err != nil {
		t.Fatalf("SetCustomClaims: %v", err)
	}

	token, _, err := p.IssueToken(ctx, rec.UID)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	tok, err := p.VerifyIDToken(ctx, token)
	if err != nil {
		t.Fatalf("VerifyIDToken: %v", err)
	}
	if tok.Role() != RoleAdmin {
		t.Errorf("rol = %q, se esperaba admin", tok.Role())
	}
	if _, leaked := tok.Claims["sub"]; leaked {
		t.Error("claims estándar no deberían aparecer como personalizados")
	}
}

func TestLocalExpiredAndTampered(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	p := newTestLocal(&now)

	rec, _ := p.CreateUser(ctx, NewUser{Email: "u@example.com", Password: "secreta"})
	token, _, _ := p.IssueToken(ctx, rec.UID)

	if _, err := p.VerifyIDToken(ctx, token+"x"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("token alterado: err = %v", err)
	}
	if _, err := p.VerifyIDToken(ctx, "no-es-un-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("basura: err = %v", err)
	}

	other := NewLocal("otro-secreto-otro-secreto-otro-secreto", time.Hour, WithClock(func() time.Time { return now }))
	if _, err := other.VerifyIDToken(ctx, token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("otra clave: err = %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := p.VerifyIDToken(ctx, token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("token expirado: err = %v", err)
	}
}

func TestLocalDisabledUserIsRevoked(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	p := newTestLocal(&now)

	rec, _ := p.CreateUser(ctx, NewUser{Email: "u@example.com", Password: "secreta"})
	token, _, _ := p.IssueToken(ctx, rec.UID)

	if err := p.SetDisabled(rec.UID, true); err != nil {
		t.Fatal(err)
	}
	if _, err := p.VerifyIDToken(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("usuario deshabilitado: err = %v", err)
	}
}

func TestLocalGetUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	p := newTestLocal(&now)

	if _, err := p.GetUser(ctx, "inexistente"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v", err)
	}
	rec, _ := p.CreateUser(ctx, NewUser{Email: "u@example.com", Password: "secreta"})
	got, err := p.GetUser(ctx, rec.UID)
	if err != nil || got.Email != "u@example.com" || !got.CreatedAt.Equal(now) {
		t.Errorf("GetUser = %+v, %v", got, err)
	}
}

func TestRoleFromClaims(t *testing.T) {
	if RoleFromClaims(nil) != RoleUser {
		t.Error("nil debería dar user")
	}
	if RoleFromClaims(map[string]interface{}{"role": ""}) != RoleUser {
		t.Error("rol vacío debería dar user")
	}
	if RoleFromClaims(map[string]interface{}{"role": "admin"}) != RoleAdmin {
		t.Error("admin")
	}
}
