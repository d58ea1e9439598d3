package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yourorg/dataexpress/internal/apperr"
	"github.com/yourorg/dataexpress/internal/identity"
	"github.com/yourorg/dataexpress/internal/models"
	"github.com/yourorg/dataexpress/internal/store"
	"github.com/yourorg/dataexpress/internal/validation"
)

var userSearchFields = []string{"name", "email"}

var validRoles = []string{identity.RoleUser, identity.RoleAdmin}

// Users administra los perfiles de la colección "users"
type Users struct {
	store    store.Store
	provider identity.Provider
	logger   *slog.Logger
}

func NewUsers(st store.Store, provider identity.Provider, logger *slog.Logger) *Users {
	return &Users{store: st, provider: provider, logger: logger.With("service", "users")}
}

// UserList es una página de usuarios
type UserList struct {
	Items      []*models.User
	Pagination models.Pagination
}

func (s *Users) List(ctx context.Context, page, limit int, search string) (*UserList, error) {
	page, limit = normalizePage(page, limit)

	docs, err := s.store.Query(ctx, store.CollectionUsers)
	if err != nil {
		return nil, apperr.Database("Error al obtener usuarios", err)
	}
	docs = filterSearch(docs, search, userSearchFields)
	sortByCreatedDesc(docs)

	start, end := models.Paginate(page, limit, len(docs))
	items := make([]*models.User, 0, end-start)
	for _, d := range docs[start:end] {
		items = append(items, models.UserFromDocument(d))
	}
	return &UserList{Items: items, Pagination: models.NewPagination(page, limit, len(docs))}, nil
}

// Get retorna el perfil si el principal es su dueño o admin
func (s *Users) Get(ctx context.Context, id string, principal *models.Principal) (*models.User, error) {
	doc, err := s.store.Get(ctx, store.CollectionUsers, id)
	if err != nil {
		return nil, storeError(err, "Usuario", "Error al obtener usuario")
	}
	user := models.UserFromDocument(*doc)
	if !principal.CanAccess(user.FirebaseUID) {
		return nil, apperr.Authorization("No tiene permisos para acceder a este usuario")
	}
	return user, nil
}

// GetByFirebaseUID busca el perfil asociado a un uid del proveedor
func (s *Users) GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	if !validation.IsValidFirebaseUID(uid) {
		return nil, apperr.Validation("El uid no tiene un formato válido", nil)
	}
	doc, err := s.findByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.NotFound("Usuario")
	}
	return models.UserFromDocument(*doc), nil
}

func (s *Users) findByUID(ctx context.Context, uid string) (*store.Document, error) {
	docs, err := s.store.Query(ctx, store.CollectionUsers, store.Eq("firebaseUid", uid))
	if err != nil {
		return nil, apperr.Database("Error al obtener usuario", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}

func (s *Users) emailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	docs, err := s.store.Query(ctx, store.CollectionUsers, store.Eq("email", email))
	if err != nil {
		return false, apperr.Database("Error al verificar email", err)
	}
	for _, d := range docs {
		if d.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func checkUserInput(in models.UserInput) error {
	var issues validation.Issues
	if in.Email != nil && !validation.IsValidEmail(*in.Email) {
		issues = append(issues, validation.Issue{
			Type:    validation.InvalidFormat,
			Field:   "email",
			Message: "El formato del email es inválido",
		})
	}
	if in.Role != nil && *in.Role != identity.RoleUser && *in.Role != identity.RoleAdmin {
		issues = append(issues, validation.Issue{
			Type:        validation.InvalidValue,
			Field:       "role",
			Message:     "Rol inválido",
			ValidValues: validRoles,
		})
	}
	if len(issues) > 0 {
		return apperr.Validation("Datos de usuario inválidos", issues.Details())
	}
	return nil
}

// Create registra un perfil sin cuenta en el proveedor (uso administrativo)
func (s *Users) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	if in.Email == nil || strings.TrimSpace(*in.Email) == "" {
		return nil, apperr.Validation("El email es requerido", validation.Issues{{
			Type:    validation.MissingFields,
			Fields:  []string{"email"},
			Message: validation.MissingFieldsMessage,
		}}.Details())
	}
	if err := checkUserInput(in); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(*in.Email))
	taken, err := s.emailTaken(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("El email ya está registrado").WithDetails(map[string]interface{}{"field": "email"})
	}

	data := map[string]interface{}{
		"email":         email,
		"name":          "",
		"emailVerified": false,
		"role":          identity.RoleUser,
		"createdAt":     store.ServerTime,
		"updatedAt":     store.ServerTime,
	}
	if in.Name != nil {
		data["name"] = validation.SanitizeString(*in.Name)
	}
	if in.PhotoURL != nil {
		data["photoURL"] = *in.PhotoURL
	}
	if in.Role != nil {
		data["role"] = *in.Role
	}

	id, err := s.store.Add(ctx, store.CollectionUsers, data)
	if err != nil {
		return nil, apperr.Database("Error al crear usuario", err)
	}
	s.logger.Info("usuario creado", "id", id, "email", email)
	return s.read(ctx, id)
}

// Update modifica nombre, email, foto o rol. Cambiar el rol es exclusivo de admin.
func (s *Users) Update(ctx context.Context, id string, in models.UserInput, principal *models.Principal) (*models.User, error) {
	if err := checkUserInput(in); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id, principal)
	if err != nil {
		return nil, err
	}
	if in.Role != nil && !principal.IsAdmin() {
		return nil, apperr.Authorization("Solo un administrador puede cambiar el rol")
	}
	if in.Role != nil && current.FirebaseUID != "" {
		// el rol efectivo vive en los claims del token; el perfil solo lo refleja
		if err := s.syncRoleClaim(ctx, current.FirebaseUID, *in.Role); err != nil {
			return nil, err
		}
	}

	update := map[string]interface{}{"updatedAt": store.ServerTime}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		taken, err := s.emailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("El email ya está registrado").WithDetails(map[string]interface{}{"field": "email"})
		}
		update["email"] = email
	}
	if in.Name != nil {
		update["name"] = validation.SanitizeString(*in.Name)
	}
	if in.PhotoURL != nil {
		update["photoURL"] = *in.PhotoURL
	}
	if in.Role != nil {
		update["role"] = *in.Role
	}

	if err := s.store.Update(ctx, store.CollectionUsers, id, update); err != nil {
		return nil, storeError(err, "Usuario", "Error al actualizar usuario")
	}
	return s.read(ctx, id)
}

// syncRoleClaim copia el rol a los claims del proveedor conservando los demás.
// Aplica desde el próximo token emitido para ese uid.
func (s *Users) syncRoleClaim(ctx context.Context, uid, role string) error {
	setter, ok := s.provider.(identity.ClaimsSetter)
	if !ok {
		return apperr.ExternalService("autenticación", fmt.Errorf("el proveedor %s no permite asignar roles", s.provider.Name()))
	}
	rec, err := s.provider.GetUser(ctx, uid)
	if err != nil {
		return identityError(err)
	}
	claims := make(map[string]interface{}, len(rec.CustomClaims)+1)
	for k, v := range rec.CustomClaims {
		claims[k] = v
	}
	claims["role"] = role
	if err := setter.SetCustomClaims(ctx, uid, claims); err != nil {
		s.logger.Error("no se pudo actualizar el rol en el proveedor", "uid", uid, "error", err)
		return identityError(err)
	}
	s.logger.Info("rol actualizado", "uid", uid, "role", role)
	return nil
}

func (s *Users) Delete(ctx context.Context, id string, principal *models.Principal) error {
	if _, err := s.Get(ctx, id, principal); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, store.CollectionUsers, id); err != nil {
		return storeError(err, "Usuario", "Error al eliminar usuario")
	}
	s.logger.Info("usuario eliminado", "id", id)
	return nil
}

func (s *Users) Count(ctx context.Context) (int, error) {
	docs, err := s.store.Query(ctx, store.CollectionUsers)
	if err != nil {
		return 0, apperr.Database("Error al contar usuarios", err)
	}
	return len(docs), nil
}

// SyncProfile crea o actualiza el perfil de un usuario del proveedor.
// name, si no es vacío, tiene prioridad sobre el displayName del proveedor.
// created indica si el perfil no existía.
func (s *Users) SyncProfile(ctx context.Context, rec *identity.UserRecord, name string) (user *models.User, created bool, err error) {
	existing, err := s.findByUID(ctx, rec.UID)
	if err != nil {
		return nil, false, err
	}
	if name == "" {
		name = rec.DisplayName
	}

	if existing == nil {
		data := map[string]interface{}{
			"firebaseUid":   rec.UID,
			"email":         rec.Email,
			"name":          name,
			"emailVerified": rec.EmailVerified,
			"role":          identity.RoleFromClaims(rec.CustomClaims),
			"createdAt":     store.ServerTime,
			"updatedAt":     store.ServerTime,
			"lastLoginAt":   store.ServerTime,
		}
		if rec.PhotoURL != "" {
			data["photoURL"] = rec.PhotoURL
		}
		id, err := s.store.Add(ctx, store.CollectionUsers, data)
		if err != nil {
			return nil, false, apperr.Database("Error al sincronizar usuario", err)
		}
		s.logger.Info("usuario sincronizado (creado)", "uid", rec.UID, "id", id)
		user, err := s.read(ctx, id)
		return user, true, err
	}

	update := map[string]interface{}{
		"emailVerified": rec.EmailVerified,
		"updatedAt":     store.ServerTime,
		"lastLoginAt":   store.ServerTime,
	}
	if rec.Email != "" {
		update["email"] = rec.Email
	}
	if name != "" {
		update["name"] = name
	}
	if rec.PhotoURL != "" {
		update["photoURL"] = rec.PhotoURL
	}
	if err := s.store.Update(ctx, store.CollectionUsers, existing.ID, update); err != nil {
		return nil, false, apperr.Database("Error al sincronizar usuario", err)
	}
	s.logger.Debug("usuario sincronizado (actualizado)", "uid", rec.UID, "id", existing.ID)
	user, err = s.read(ctx, existing.ID)
	return user, false, err
}

// Profile combina el usuario del proveedor con su perfil persistido
func (s *Users) Profile(ctx context.Context, uid string) (*models.Profile, error) {
	rec, err := s.provider.GetUser(ctx, uid)
	if err != nil {
		return nil, identityError(err)
	}
	doc, err := s.findByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		UID:           rec.UID,
		Email:         rec.Email,
		EmailVerified: rec.EmailVerified,
		Name:          rec.DisplayName,
		PhotoURL:      rec.PhotoURL,
		Role:          identity.RoleFromClaims(rec.CustomClaims),
		CustomClaims:  rec.CustomClaims,
	}
	if profile.CustomClaims == nil {
		profile.CustomClaims = map[string]interface{}{}
	}
	if doc != nil {
		u := models.UserFromDocument(*doc)
		if profile.Name == "" {
			profile.Name = u.Name
		}
		if profile.PhotoURL == "" {
			profile.PhotoURL = u.PhotoURL
		}
		if _, hasRole := rec.CustomClaims["role"]; !hasRole {
			profile.Role = u.Role
		}
		profile.CreatedAt = u.CreatedAt
		profile.UpdatedAt = u.UpdatedAt
		profile.LastLoginAt = u.LastLoginAt
	}
	return profile, nil
}

func (s *Users) read(ctx context.Context, id string) (*models.User, error) {
	doc, err := s.store.Get(ctx, store.CollectionUsers, id)
	if err != nil {
		return nil, storeError(err, "Usuario", "Error al leer usuario")
	}
	return models.UserFromDocument(*doc), nil
}
