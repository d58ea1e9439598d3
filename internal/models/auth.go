package models

import "time"

// LoginRequest acepta un ID token del cliente o, con el proveedor local, email y contraseña
type LoginRequest struct {
	IDToken  string `json:"idToken"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest crea el usuario en el proveedor, o lo sincroniza si llega un idToken
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
}

// TokenRequest es el cuerpo de /auth/verify y /auth/refresh
type TokenRequest struct {
	IDToken string `json:"idToken"`
}

// AuthResult es lo que retornan login y register
type AuthResult struct {
	User      *User      `json:"user"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// TokenInfo es la vista pública de un token verificado
type TokenInfo struct {
	UID           string                 `json:"uid"`
	Email         string                 `json:"email"`
	EmailVerified bool                   `json:"emailVerified"`
	CustomClaims  map[string]interface{} `json:"customClaims"`
	Expires       int64                  `json:"exp,omitempty"`
	IssuedAt      int64                  `json:"iat,omitempty"`
}

// Profile combina el usuario del proveedor con su documento en Firestore
type Profile struct {
	UID           string                 `json:"uid"`
	Email         string                 `json:"email"`
	EmailVerified bool                   `json:"emailVerified"`
	Name          string                 `json:"name"`
	PhotoURL      string                 `json:"photoURL,omitempty"`
	Role          string                 `json:"role"`
	CustomClaims  map[string]interface{} `json:"customClaims"`
	CreatedAt     *time.Time             `json:"createdAt"`
	UpdatedAt     *time.Time             `json:"updatedAt"`
	LastLoginAt   *time.Time             `json:"lastLoginAt"`
}
