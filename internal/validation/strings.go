package validation

import "strings"

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// SanitizeString recorta espacios y elimina < y >
func SanitizeString(s string) string {
	return strings.TrimSpace(angleBrackets.Replace(s))
}

// IsValidPassword exige al menos 6 caracteres (mínimo del proveedor de identidad)
func IsValidPassword(password string) bool {
	return len(password) >= 6
}

// IsValidFirebaseUID valida el largo de un uid (20 a 128)
func IsValidFirebaseUID(uid string) bool {
	return len(uid) >= 20 && len(uid) <= 128
}

// MaskToken deja visibles solo los primeros y últimos 4 caracteres
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
