package models

import (
	"github.com/yourorg/dataexpress/internal/store"
)

// Campos que una actualización nunca puede modificar
var ImmutableSolicitudFields = []string{"id", "createdAt", "fechaSolicitud", "userId", "documento"}

// Solicitud es el registro persistido tal como se responde al cliente:
// los campos del formulario validado más documento, estado, userId y timestamps.
type Solicitud map[string]interface{}

// SolicitudFromDocument agrega el id al mapa de datos
func SolicitudFromDocument(doc store.Document) Solicitud {
	out := make(Solicitud, len(doc.Data)+1)
	for k, v := range doc.Data {
		out[k] = v
	}
	out["id"] = doc.ID
	return out
}

// OwnerID retorna el uid dueño de la solicitud ("" si es anónima)
func (s Solicitud) OwnerID() string {
	id, _ := s["userId"].(string)
	return id
}

// DocumentPath retorna la ruta del PDF en el blob store, si existe
func (s Solicitud) DocumentPath() string {
	switch doc := s["documento"].(type) {
	case map[string]interface{}:
		path, _ := doc["path"].(string)
		return path
	}
	return ""
}

// Pagination es el bloque de paginación de los listados
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination calcula totalPages (mínimo 0)
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// Paginate retorna el rango [start, end) de la página pedida
// Una página más allá del total retorna un rango vacío sin multiplicar page,
// así un page enorme no desborda el offset.
func Paginate(page, limit, total int) (start, end int) {
	if limit < 1 || total < 1 {
		return 0, 0
	}
	if page < 1 {
		page = 1
	}
	if page-1 > total/limit {
		return total, total
	}
	start = (page - 1) * limit
	if start > total {
		start = total
	}
	end = start + limit
	if end > total {
		end = total
	}
	return start, end
}
