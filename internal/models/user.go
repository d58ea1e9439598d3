package models

import (
	"time"

	"github.com/yourorg/dataexpress/internal/store"
)

// User es el perfil de usuario persistido en la colección "users"
type User struct {
	ID            string     `json:"id"`
	FirebaseUID   string     `json:"firebaseUid,omitempty"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	EmailVerified bool       `json:"emailVerified"`
	PhotoURL      string     `json:"photoURL,omitempty"`
	Role          string     `json:"role"`
	CreatedAt     *time.Time `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
}

// UserInput es el cuerpo de POST/PUT /users. Los punteros distinguen "no enviado".
type UserInput struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	PhotoURL *string `json:"photoURL"`
	Role     *string `json:"role"`
}

// UserFromDocument convierte un documento de Firestore
func UserFromDocument(doc store.Document) *User {
	u := &User{
		ID:          doc.ID,
		FirebaseUID: doc.String("firebaseUid"),
		Email:       doc.String("email"),
		Name:        doc.String("name"),
		PhotoURL:    doc.String("photoURL"),
		Role:        doc.String("role"),
		CreatedAt:   timePtr(doc, "createdAt"),
		UpdatedAt:   timePtr(doc, "updatedAt"),
		LastLoginAt: timePtr(doc, "lastLoginAt"),
	}
	u.EmailVerified, _ = doc.Data["emailVerified"].(bool)
	if u.Role == "" {
		u.Role = "user"
	}
	return u
}

func timePtr(doc store.Document, field string) *time.Time {
	if t, ok := doc.Time(field); ok {
		return &t
	}
	return nil
}
