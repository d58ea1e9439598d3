package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/yourorg/dataexpress/internal/apperr"
	"github.com/yourorg/dataexpress/internal/blob"
	"github.com/yourorg/dataexpress/internal/models"
	"github.com/yourorg/dataexpress/internal/pdf"
	"github.com/yourorg/dataexpress/internal/store"
	"github.com/yourorg/dataexpress/internal/validation"
)

// ============================================================================
// SERVICIO DE SOLICITUDES
// ============================================================================
// Creación: validar -> generar PDF -> subir PDF -> persistir.
// Cada etapa solo empieza si la anterior terminó bien; si algo falla
// no queda registro escrito.

// Solicitudes orquesta validación, documento, blob y persistencia
type Solicitudes struct {
	store     store.Store
	blobs     blob.Store
	generator *pdf.Generator
	validator *validation.Validator
	logger    *slog.Logger
}

func NewSolicitudes(st store.Store, blobs blob.Store, gen *pdf.Generator, v *validation.Validator, logger *slog.Logger) *Solicitudes {
	return &Solicitudes{
		store:     st,
		blobs:     blobs,
		generator: gen,
		validator: v,
		logger:    logger.With("service", "solicitudes"),
	}
}

// Schema retorna el esquema de formulario activo
func (s *Solicitudes) Schema() *validation.Schema {
	return s.validator.Schema()
}

// Create valida el formulario y crea la solicitud con su PDF.
// principal puede ser nil (creación anónima).
func (s *Solicitudes) Create(ctx context.Context, form validation.Form, principal *models.Principal) (models.Solicitud, error) {
	if len(form) == 0 {
		return nil, apperr.Validation("El cuerpo de la solicitud está vacío o no es válido", map[string]interface{}{
			"errors": []map[string]interface{}{
				{"type": "empty_body", "message": "No se recibieron datos en el cuerpo de la solicitud"},
			},
		})
	}

	data, issues := s.validator.Parse(form)
	if len(issues) > 0 {
		return nil, apperr.Validation("Datos de solicitud inválidos", issues.Details())
	}

	id := s.store.NewID(store.CollectionSolicitudes)
	log := s.logger.With("solicitudId", id)

	doc, err := s.generator.Generate(ctx, s.Schema(), data)
	if err != nil {
		log.Error("no se pudo generar el PDF", "error", err)
		return nil, documentError("Error al generar el documento PDF de la solicitud", err)
	}

	numero, _ := data["numeroDocumento"].(string)
	logicalName := fmt.Sprintf("solicitud_%s.pdf", numero)
	obj, err := s.blobs.Upload(ctx, doc.Bytes, logicalName, id, doc.ContentType)
	if err == nil && obj.URL == "" {
		err = fmt.Errorf("upload sin URL para %s", logicalName)
	}
	if err != nil {
		log.Error("no se pudo subir el PDF", "error", err)
		return nil, documentError("Error al subir el documento PDF de la solicitud", err)
	}

	record := make(map[string]interface{}, len(data)+8)
	for k, v := range data {
		record[k] = v
	}
	record["documento"] = obj.Map()
	record["estado"] = validation.EstadoInicial
	record["schema"] = s.Schema().Name
	if principal != nil {
		record["userId"] = principal.UID
	} else {
		record["userId"] = nil
	}
	record["fechaSolicitud"] = store.ServerTime
	record["createdAt"] = store.ServerTime
	record["updatedAt"] = store.ServerTime

	if err := s.store.Create(ctx, store.CollectionSolicitudes, id, record); err != nil {
		log.Error("no se pudo persistir la solicitud", "error", err)
		s.removeBlob(ctx, obj.Path, log)
		return nil, apperr.Database("Error al crear solicitud de crédito", err)
	}

	created, err := s.store.Get(ctx, store.CollectionSolicitudes, id)
	if err != nil {
		return nil, storeError(err, "Solicitud", "Error al leer la solicitud creada")
	}

	log.Info("solicitud creada",
		"numeroDocumento", numero,
		"pdfBytes", doc.Size(),
		"path", obj.Path,
	)
	return models.SolicitudFromDocument(*created), nil
}

// ListResult es una página del listado
type ListResult struct {
	Items      []models.Solicitud
	Pagination models.Pagination
}

// List pagina las solicitudes visibles para el principal: admin ve todas,
// un usuario solo las propias. search filtra por nombre, documento o email.
func (s *Solicitudes) List(ctx context.Context, principal *models.Principal, page, limit int, search string) (*ListResult, error) {
	if principal == nil {
		return nil, apperr.Authentication("")
	}
	page, limit = normalizePage(page, limit)

	var filters []store.Filter
	if !principal.IsAdmin() {
		filters = append(filters, store.Eq("userId", principal.UID))
	}

	docs, err := s.store.Query(ctx, store.CollectionSolicitudes, filters...)
	if err != nil {
		return nil, apperr.Database("Error al obtener solicitudes", err)
	}

	docs = filterSearch(docs, search, validation.SearchFields)
	sortByCreatedDesc(docs)

	start, end := models.Paginate(page, limit, len(docs))
	items := make([]models.Solicitud, 0, end-start)
	for _, d := range docs[start:end] {
		items = append(items, models.SolicitudFromDocument(d))
	}
	return &ListResult{
		Items:      items,
		Pagination: models.NewPagination(page, limit, len(docs)),
	}, nil
}

// Get retorna la solicitud si el principal es dueño o admin
func (s *Solicitudes) Get(ctx context.Context, id string, principal *models.Principal) (models.Solicitud, error) {
	doc, err := s.store.Get(ctx, store.CollectionSolicitudes, id)
	if err != nil {
		return nil, storeError(err, "Solicitud", "Error al obtener solicitud")
	}
	sol := models.SolicitudFromDocument(*doc)
	if !principal.CanAccess(sol.OwnerID()) {
		return nil, apperr.Authorization("No tiene permisos para acceder a esta solicitud")
	}
	return sol, nil
}

// Update aplica un reemplazo parcial. Solo valida formato; id, timestamps de
// creación, dueño y documento no se pueden modificar. Cambiar el estado es
// exclusivo de admin.
func (s *Solicitudes) Update(ctx context.Context, id string, patch validation.Form, principal *models.Principal) (models.Solicitud, error) {
	for _, field := range models.ImmutableSolicitudFields {
		delete(patch, field)
	}
	delete(patch, "updatedAt")
	if len(patch) == 0 {
		return nil, apperr.Validation("No se enviaron campos para actualizar", nil)
	}

	changes, issues := s.validator.ParseUpdate(patch)
	if len(issues) > 0 {
		return nil, apperr.Validation("Datos de actualización inválidos", issues.Details())
	}

	if _, err := s.Get(ctx, id, principal); err != nil {
		return nil, err
	}
	if _, ok := changes["estado"]; ok && !principal.IsAdmin() {
		return nil, apperr.Authorization("Solo un administrador puede cambiar el estado de la solicitud")
	}

	update := make(map[string]interface{}, len(changes)+1)
	for k, v := range changes {
		update[k] = v
	}
	update["updatedAt"] = store.ServerTime

	if err := s.store.Update(ctx, store.CollectionSolicitudes, id, update); err != nil {
		return nil, storeError(err, "Solicitud", "Error al actualizar solicitud")
	}

	doc, err := s.store.Get(ctx, store.CollectionSolicitudes, id)
	if err != nil {
		return nil, storeError(err, "Solicitud", "Error al leer la solicitud actualizada")
	}
	s.logger.Info("solicitud actualizada", "solicitudId", id, "fields", len(changes))
	return models.SolicitudFromDocument(*doc), nil
}

// Delete borra la solicitud y luego su PDF (el PDF en best effort)
func (s *Solicitudes) Delete(ctx context.Context, id string, principal *models.Principal) error {
	sol, err := s.Get(ctx, id, principal)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, store.CollectionSolicitudes, id); err != nil {
		return storeError(err, "Solicitud", "Error al eliminar solicitud")
	}

	log := s.logger.With("solicitudId", id)
	s.removeBlob(ctx, sol.DocumentPath(), log)
	log.Info("solicitud eliminada")
	return nil
}

// Count retorna el total de solicitudes
func (s *Solicitudes) Count(ctx context.Context) (int, error) {
	docs, err := s.store.Query(ctx, store.CollectionSolicitudes)
	if err != nil {
		return 0, apperr.Database("Error al contar solicitudes", err)
	}
	return len(docs), nil
}

// DeleteAll borra todas las solicitudes y sus PDF (herramienta de mantenimiento)
func (s *Solicitudes) DeleteAll(ctx context.Context) (int, error) {
	docs, err := s.store.Query(ctx, store.CollectionSolicitudes)
	if err != nil {
		return 0, apperr.Database("Error al obtener solicitudes", err)
	}
	deleted := 0
	for _, d := range docs {
		if err := s.store.Delete(ctx, store.CollectionSolicitudes, d.ID); err != nil {
			return deleted, apperr.Database("Error al eliminar solicitud", err)
		}
		s.removeBlob(ctx, models.SolicitudFromDocument(d).DocumentPath(), s.logger.With("solicitudId", d.ID))
		deleted++
	}
	return deleted, nil
}

func (s *Solicitudes) removeBlob(ctx context.Context, path string, log *slog.Logger) {
	if path == "" {
		return
	}
	// el contexto del request puede estar vencido; la limpieza usa uno propio
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if _, err := s.blobs.Delete(cleanupCtx, path); err != nil {
		log.Warn("no se pudo eliminar el PDF", "path", path, "error", err)
	}
}

// filterSearch deja los documentos cuyo texto en fields contiene search (sin mayúsculas)
func filterSearch(docs []store.Document, search string, fields []string) []store.Document {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return docs
	}
	out := docs[:0:0]
	for _, d := range docs {
		for _, f := range fields {
			v, ok := d.Data[f]
			if !ok || v == nil {
				continue
			}
			if strings.Contains(strings.ToLower(fmt.Sprint(v)), needle) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// sortByCreatedDesc ordena por createdAt descendente (los más recientes primero)
func sortByCreatedDesc(docs []store.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, _ := docs[i].Time("createdAt")
		b, _ := docs[j].Time("createdAt")
		return a.After(b)
	})
}
