package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const localIssuer = "dataexpress-local"

// Local es un proveedor en memoria: usuarios con bcrypt y ID tokens JWT HS256.
// Sirve para desarrollo sin proyecto Firebase y para los tests de integración.
type Local struct {
	mu      sync.RWMutex
	secret  []byte
	ttl     time.Duration
	cost    int
	now     func() time.Time
	users   map[string]*localUser
	byEmail map[string]string
}

type localUser struct {
	record UserRecord
	hash   []byte
}

// LocalOption configura el proveedor local
type LocalOption func(*Local)

// WithBcryptCost cambia el costo de bcrypt (los tests usan bcrypt.MinCost)
func WithBcryptCost(cost int) LocalOption {
	return func(l *Local) { l.cost = cost }
}

// WithClock fija el reloj usado para emitir y validar tokens
func WithClock(now func() time.Time) LocalOption {
	return func(l *Local) { l.now = now }
}

func NewLocal(secret string, ttl time.Duration, opts ...LocalOption) *Local {
	if ttl <= 0 {
		ttl = time.Hour
	}
	l := &Local{
		secret:  []byte(secret),
		ttl:     ttl,
		cost:    bcrypt.DefaultCost,
		now:     time.Now,
		users:   make(map[string]*localUser),
		byEmail: make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Local) Name() string { return "local" }

// CreateUser registra un usuario nuevo; el email es único sin distinguir mayúsculas
func (l *Local) CreateUser(_ context.Context, user NewUser) (*UserRecord, error) {
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" || user.Password == "" {
		return nil, errors.New("identity: email y contraseña son requeridos")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), l.cost)
	if err != nil {
		return nil, fmt.Errorf("identity: hash de contraseña: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.byEmail[email]; exists {
		return nil, ErrEmailExists
	}

	// mismo largo que un UID de Firebase
	uid := strings.ReplaceAll(uuid.NewString(), "-", "")[:28]
	rec := UserRecord{
		UID:          uid,
		Email:        email,
		DisplayName:  user.DisplayName,
		CustomClaims: map[string]interface{}{},
		CreatedAt:    l.now(),
	}
	l.users[uid] = &localUser{record: rec, hash: hash}
	l.byEmail[email] = uid

	out := rec
	return &out, nil
}

func (l *Local) GetUser(_ context.Context, uid string) (*UserRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	u, ok := l.users[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := u.record
	out.CustomClaims = copyClaims(u.record.CustomClaims)
	return &out, nil
}

func (l *Local) SetCustomClaims(_ context.Context, uid string, claims map[string]interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[uid]
	if !ok {
		return ErrUserNotFound
	}
	u.record.CustomClaims = copyClaims(claims)
	return nil
}

// SetDisabled deshabilita o rehabilita un usuario; sus tokens dejan de ser válidos
func (l *Local) SetDisabled(uid string, disabled bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[uid]
	if !ok {
		return ErrUserNotFound
	}
	u.record.Disabled = disabled
	return nil
}

// SignInWithPassword valida credenciales y emite un ID token
func (l *Local) SignInWithPassword(ctx context.Context, email, password string) (string, *UserRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	l.mu.Lock()
	uid, ok := l.byEmail[email]
	var u *localUser
	if ok {
		u = l.users[uid]
	}
	l.mu.Unlock()

	if u == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	l.mu.Lock()
	u.record.LastLoginAt = l.now()
	rec := u.record
	l.mu.Unlock()

	token, _, err := l.IssueToken(ctx, uid)
	if err != nil {
		return "", nil, err
	}
	return token, &rec, nil
}

// IssueToken firma un ID token con los claims personalizados actuales del usuario
func (l *Local) IssueToken(_ context.Context, uid string) (string, time.Time, error) {
	l.mu.RLock()
	u, ok := l.users[uid]
	var rec UserRecord
	if ok {
		rec = u.record
		rec.CustomClaims = copyClaims(u.record.CustomClaims)
	}
	l.mu.RUnlock()

	if !ok {
		return "", time.Time{}, ErrUserNotFound
	}

	now := l.now()
	exp := now.Add(l.ttl)

	claims := jwt.MapClaims{}
	for k, v := range rec.CustomClaims {
		claims[k] = v
	}
	claims["iss"] = localIssuer
	claims["sub"] = uid
	claims["iat"] = now.Unix()
	claims["exp"] = exp.Unix()
	claims["auth_time"] = now.Unix()
	claims["email"] = rec.Email
	claims["email_verified"] = rec.EmailVerified
	if rec.DisplayName != "" {
		claims["name"] = rec.DisplayName
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("identity: firmar token: %w", err)
	}
	return signed, exp, nil
}

// VerifyIDToken valida firma y expiración, y que el usuario siga activo
func (l *Local) VerifyIDToken(_ context.Context, idToken string) (*Token, error) {
	parsed, err := jwt.Parse(idToken, func(t *jwt.Token) (interface{}, error) {
		return l.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(localIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(l.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	uid, _ := claims["sub"].(string)
	if uid == "" {
		return nil, fmt.Errorf("%w: sin sujeto", ErrTokenInvalid)
	}

	l.mu.RLock()
	u, exists := l.users[uid]
	disabled := exists && u.record.Disabled
	l.mu.RUnlock()
	if !exists || disabled {
		return nil, ErrTokenRevoked
	}

	tok := &Token{
		UID:    uid,
		Claims: make(map[string]interface{}),
	}
	tok.Email, _ = claims["email"].(string)
	tok.EmailVerified, _ = claims["email_verified"].(bool)
	tok.Name, _ = claims["name"].(string)
	tok.Picture, _ = claims["picture"].(string)
	tok.AuthTime = numericClaim(claims["auth_time"])
	tok.IssuedAt = numericClaim(claims["iat"])
	tok.Expires = numericClaim(claims["exp"])
	for k, v := range claims {
		if !standardClaims[k] {
			tok.Claims[k] = v
		}
	}
	return tok, nil
}

func numericClaim(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}

func copyClaims(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
