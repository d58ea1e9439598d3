package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ============================================================================
// DOCUMENT STORE
// ============================================================================
// Contrato mínimo sobre un almacén de documentos (Firestore en producción,
// memoria en desarrollo y tests). Los servicios escriben mapas planos y usan
// ServerTime como marcador de "hora del servidor"; cada adaptador lo
// reemplaza por su mecanismo nativo.

// Colecciones usadas por la API
const (
	CollectionSolicitudes = "solicitudes"
	CollectionUsers       = "users"
)

// ErrNotFound se retorna cuando el documento no existe
var ErrNotFound = errors.New("store: documento no encontrado")

// ServerTimestamp es el tipo del marcador de hora del servidor
type ServerTimestamp struct{}

// ServerTime se usa como valor en payloads de escritura
var ServerTime = ServerTimestamp{}

// Operadores soportados en filtros
const (
	OpEqual        = "=="
	OpLess         = "<"
	OpLessEqual    = "<="
	OpGreater      = ">"
	OpGreaterEqual = ">="
)

// Filter es una condición campo-operador-valor
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// Where arma un Filter
func Where(field, op string, value interface{}) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Eq es atajo para Where(field, "==", value)
func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

func (f Filter) validate() error {
	switch f.Op {
	case OpEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return nil
	}
	return fmt.Errorf("store: operador no soportado %q", f.Op)
}

// Document es un documento leído: id + datos planos
type Document struct {
	ID   string
	Data map[string]interface{}
}

// String retorna el campo como string ("" si no existe o no es string)
func (d Document) String(field string) string {
	s, _ := d.Data[field].(string)
	return s
}

// Time retorna el campo como time.Time
func (d Document) Time(field string) (time.Time, bool) {
	t, ok := d.Data[field].(time.Time)
	return t, ok
}

// Store es el contrato consumido por los servicios
type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	Add(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	Create(ctx context.Context, collection, id string, data map[string]interface{}) error
	NewID(collection string) string
	Update(ctx context.Context, collection, id string, data map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
	Close() error
}
