package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore es un Store thread-safe en memoria.
// Se usa en desarrollo sin Firebase y en los tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
	now         func() time.Time
}

// NewMemoryStore crea un almacén vacío
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]interface{}),
		now:         time.Now,
	}
}

// SetClock reemplaza el reloj usado para ServerTime
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

func (m *MemoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Data: copyMap(data)}, nil
}

func (m *MemoryStore) Query(_ context.Context, collection string, filters ...Filter) ([]Document, error) {
	for _, f := range filters {
		if err := f.validate(); err != nil {
			return nil, err
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]Document, 0)
	for id, data := range m.collections[collection] {
		if matchesAll(data, filters) {
			docs = append(docs, Document{ID: id, Data: copyMap(data)})
		}
	}
	// Orden estable para que los tests no dependan del orden del map
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *MemoryStore) NewID(string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}

func (m *MemoryStore) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	id := m.NewID(collection)
	return id, m.Create(ctx, collection, id, data)
}

func (m *MemoryStore) Create(_ context.Context, collection, id string, data map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collection]
	if !ok {
		col = make(map[string]map[string]interface{})
		m.collections[collection] = col
	}
	if _, exists := col[id]; exists {
		return fmt.Errorf("store: el documento %s/%s ya existe", collection, id)
	}
	col[id] = m.resolve(data)
	return nil
}

func (m *MemoryStore) Update(_ context.Context, collection, id string, data map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range m.resolve(data) {
		current[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	return nil
}

// Count retorna la cantidad de documentos de una colección
func (m *MemoryStore) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

// Clear elimina todos los documentos de una colección
func (m *MemoryStore) Clear(collection string) {
	m.mu.Lock()
	delete(m.collections, collection)
	m.mu.Unlock()
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

// resolve copia el payload reemplazando ServerTime por la hora actual
func (m *MemoryStore) resolve(data map[string]interface{}) map[string]interface{} {
	now := m.now()
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		if _, ok := v.(ServerTimestamp); ok {
			out[k] = now
			continue
		}
		out[k] = copyValue(v)
	}
	return out
}

func copyMap(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		return copyMap(x)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i := range x {
			out[i] = copyValue(x[i])
		}
		return out
	}
	return v
}

func matchesAll(data map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		if !matches(data[f.Field], f) {
			return false
		}
	}
	return true
}

func matches(value interface{}, f Filter) bool {
	if f.Op == OpEqual {
		return compare(value, f.Value) == 0
	}
	c := compare(value, f.Value)
	if c == incomparable {
		return false
	}
	switch f.Op {
	case OpLess:
		return c < 0
	case OpLessEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	}
	return false
}

const incomparable = 2

// compare retorna -1, 0, 1 o incomparable
func compare(a, b interface{}) int {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return 0
		}
		return incomparable
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmp3(fa < fb, fa > fb)
		}
		return incomparable
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return incomparable
		}
		return strings.Compare(x, y)
	case bool:
		y, ok := b.(bool)
		if !ok {
			return incomparable
		}
		if x == y {
			return 0
		}
		return cmp3(!x, x)
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return incomparable
		}
		return cmp3(x.Before(y), x.After(y))
	}
	return incomparable
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
