package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yourorg/dataexpress/internal/apperr"
	"github.com/yourorg/dataexpress/internal/identity"
	"github.com/yourorg/dataexpress/internal/models"
	"github.com/yourorg/dataexpress/internal/validation"
)

// Auth maneja el ciclo de vida del principal delegando en el proveedor
// de identidad y sincronizando el perfil en la colección "users"
type Auth struct {
	provider identity.Provider
	users    *Users
	logger   *slog.Logger
}

func NewAuth(provider identity.Provider, users *Users, logger *slog.Logger) *Auth {
	return &Auth{provider: provider, users: users, logger: logger.With("service", "auth")}
}

// Login acepta un idToken emitido por el proveedor o, si el proveedor
// lo permite, email y contraseña
func (a *Auth) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	var (
		token string
		rec   *identity.UserRecord
	)

	switch {
	case req.IDToken != "":
		tok, err := a.provider.VerifyIDToken(ctx, req.IDToken)
		if err != nil {
			a.logger.Warn("login fallido", "tokenMask", validation.MaskToken(req.IDToken), "error", err)
			return nil, identityError(err)
		}
		rec, err = a.provider.GetUser(ctx, tok.UID)
		if err != nil {
			return nil, identityError(err)
		}
		token = req.IDToken

	case req.Email != "" && req.Password != "":
		signer, ok := a.provider.(identity.PasswordSigner)
		if !ok {
			return nil, apperr.Validation("El campo idToken es requerido", nil)
		}
		var err error
		token, rec, err = signer.SignInWithPassword(ctx, req.Email, req.Password)
		if err != nil {
			a.logger.Warn("login fallido", "email", req.Email, "error", err)
			return nil, identityError(err)
		}

	default:
		return nil, apperr.Validation("El campo idToken es requerido", nil)
	}

	user, _, err := a.users.SyncProfile(ctx, rec, "")
	if err != nil {
		return nil, err
	}
	a.logger.Info("login exitoso", "uid", rec.UID, "email", rec.Email)
	return &models.AuthResult{User: user, Token: token}, nil
}

// Register crea la cuenta en el proveedor (o usa la del idToken) y su perfil.
// El mensaje distingue un registro nuevo de una actualización.
func (a *Auth) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, string, error) {
	req.Email = strings.TrimSpace(req.Email)
	name := validation.SanitizeString(req.Name)
	if name == "" {
		name = validation.SanitizeString(req.DisplayName)
	}

	if req.IDToken == "" && req.Email == "" {
		return nil, "", apperr.Validation("El email o idToken es requerido", nil)
	}
	if req.IDToken == "" && req.Password == "" {
		return nil, "", apperr.Validation("La contraseña es requerida cuando no se proporciona idToken", nil)
	}
	if req.Email != "" && !validation.IsValidEmail(req.Email) {
		return nil, "", apperr.Validation("El formato del email no es válido", nil)
	}
	if req.IDToken == "" && !validation.IsValidPassword(req.Password) {
		return nil, "", apperr.Validation("La contraseña debe tener al menos 6 caracteres", nil)
	}

	var rec *identity.UserRecord
	if req.IDToken != "" {
		tok, err := a.provider.VerifyIDToken(ctx, req.IDToken)
		if err != nil {
			return nil, "", identityError(err)
		}
		if rec, err = a.provider.GetUser(ctx, tok.UID); err != nil {
			return nil, "", identityError(err)
		}
	} else {
		var err error
		rec, err = a.provider.CreateUser(ctx, identity.NewUser{
			Email:       req.Email,
			Password:    req.Password,
			DisplayName: name,
		})
		if err != nil {
			a.logger.Warn("registro fallido", "email", req.Email, "error", err)
			return nil, "", identityError(err)
		}
	}

	user, created, err := a.users.SyncProfile(ctx, rec, name)
	if err != nil {
		return nil, "", err
	}

	result := &models.AuthResult{User: user}
	if issuer, ok := a.provider.(identity.TokenIssuer); ok && req.IDToken == "" {
		token, exp, err := issuer.IssueToken(ctx, rec.UID)
		if err != nil {
			return nil, "", identityError(err)
		}
		result.Token = token
		result.ExpiresAt = &exp
	}

	message := "Usuario registrado exitosamente"
	if !created {
		message = "Usuario actualizado exitosamente"
	}
	a.logger.Info("registro exitoso", "uid", rec.UID, "email", rec.Email, "created", created)
	return result, message, nil
}

// Verify valida un idToken y retorna su vista pública
func (a *Auth) Verify(ctx context.Context, idToken string) (*models.TokenInfo, error) {
	if idToken == "" {
		return nil, apperr.Validation("El campo idToken es requerido", nil)
	}
	tok, err := a.provider.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, identityError(err)
	}
	return &models.TokenInfo{
		UID:           tok.UID,
		Email:         tok.Email,
		EmailVerified: tok.EmailVerified,
		CustomClaims:  tok.Claims,
		Expires:       tok.Expires,
		IssuedAt:      tok.IssuedAt,
	}, nil
}

// Refresh verifica el token; si el proveedor emite tokens propios entrega uno
// nuevo, si no retorna el mismo (Firebase renueva en el cliente)
func (a *Auth) Refresh(ctx context.Context, idToken string) (*models.TokenInfo, string, error) {
	info, err := a.Verify(ctx, idToken)
	if err != nil {
		return nil, "", err
	}
	if issuer, ok := a.provider.(identity.TokenIssuer); ok {
		fresh, _, err := issuer.IssueToken(ctx, info.UID)
		if err != nil {
			return nil, "", identityError(err)
		}
		return info, fresh, nil
	}
	return info, idToken, nil
}

// Profile retorna el perfil combinado del principal
func (a *Auth) Profile(ctx context.Context, principal *models.Principal) (*models.Profile, error) {
	if principal == nil || principal.UID == "" {
		return nil, apperr.Authentication("Usuario no autenticado")
	}
	return a.users.Profile(ctx, principal.UID)
}
