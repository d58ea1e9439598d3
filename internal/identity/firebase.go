package identity

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
)

// claims estándar de Firebase que no se exponen como personalizados
var standardClaims = map[string]bool{
	"iss": true, "aud": true, "auth_time": true, "user_id": true, "sub": true,
	"iat": true, "exp": true, "email": true, "email_verified": true, "firebase": true,
	"name": true, "picture": true, "uid": true,
}

// Firebase delega en Firebase Authentication (Admin SDK)
type Firebase struct {
	client *auth.Client
}

// NewFirebase envuelve un cliente de auth ya creado
func NewFirebase(client *auth.Client) *Firebase {
	return &Firebase{client: client}
}

func (f *Firebase) Name() string { return "firebase" }

// VerifyIDToken verifica firma, expiración y revocación
func (f *Firebase) VerifyIDToken(ctx context.Context, idToken string) (*Token, error) {
	tok, err := f.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		switch {
		case auth.IsIDTokenExpired(err):
			return nil, ErrTokenExpired
		case auth.IsIDTokenRevoked(err):
			return nil, fmt.Errorf("%w: %v", ErrTokenRevoked, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	out := &Token{
		UID:      tok.UID,
		AuthTime: tok.AuthTime,
		IssuedAt: tok.IssuedAt,
		Expires:  tok.Expires,
		Claims:   make(map[string]interface{}),
	}
	out.Email, _ = tok.Claims["email"].(string)
	out.EmailVerified, _ = tok.Claims["email_verified"].(bool)
	out.Name, _ = tok.Claims["name"].(string)
	out.Picture, _ = tok.Claims["picture"].(string)
	for k, v := range tok.Claims {
		if !standardClaims[k] {
			out.Claims[k] = v
		}
	}
	return out, nil
}

func (f *Firebase) GetUser(ctx context.Context, uid string) (*UserRecord, error) {
	u, err := f.client.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("identity: firebase GetUser: %w", err)
	}
	return fromFirebase(u), nil
}

func (f *Firebase) CreateUser(ctx context.Context, user NewUser) (*UserRecord, error) {
	params := (&auth.UserToCreate{}).
		Email(user.Email).
		Password(user.Password).
		EmailVerified(false)
	if user.DisplayName != "" {
		params = params.DisplayName(user.DisplayName)
	}
	u, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("identity: firebase CreateUser: %w", err)
	}
	return fromFirebase(u), nil
}

func (f *Firebase) SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	if err := f.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		if auth.IsUserNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("identity: firebase SetCustomUserClaims: %w", err)
	}
	return nil
}

func fromFirebase(u *auth.UserRecord) *UserRecord {
	rec := &UserRecord{
		UID:           u.UID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		PhotoURL:      u.PhotoURL,
		EmailVerified: u.EmailVerified,
		Disabled:      u.Disabled,
		CustomClaims:  u.CustomClaims,
	}
	if u.UserMetadata != nil {
		rec.CreatedAt = time.UnixMilli(u.UserMetadata.CreationTimestamp)
		if u.UserMetadata.LastLogInTimestamp > 0 {
			rec.LastLoginAt = time.UnixMilli(u.UserMetadata.LastLogInTimestamp)
		}
	}
	return rec
}
