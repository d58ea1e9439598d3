package blob

import (
	"context"
	"sync"
	"time"
)

// MemoryStore guarda los objetos en memoria. FailNext permite simular caídas.
type MemoryStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	baseURL  string
	now      func() time.Time
	failNext error
}

// NewMemoryStore crea un store vacío que arma URLs con baseURL
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte), baseURL: baseURL, now: time.Now}
}

// FailNext hace que el próximo Upload falle con err
func (m *MemoryStore) FailNext(err error) {
	m.mu.Lock()
	m.failNext = err
	m.mu.Unlock()
}

func (m *MemoryStore) Upload(_ context.Context, data []byte, logicalName, ownerID, _ string) (Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failNext; err != nil {
		m.failNext = nil
		return Object{}, err
	}
	if len(data) == 0 {
		return Object{}, ErrEmptyUpload
	}
	path, fileName := BuildPath(ownerID, logicalName, m.now())
	m.objects[path] = append([]byte(nil), data...)
	return Object{
		URL:          m.baseURL + "/files/" + path,
		Path:         path,
		FileName:     fileName,
		OriginalName: logicalName,
	}, nil
}

func (m *MemoryStore) Delete(_ context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[path]; !ok {
		return false, nil
	}
	delete(m.objects, path)
	return true, nil
}

// Get retorna el contenido de un objeto
func (m *MemoryStore) Get(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[path]
	return data, ok
}

// Len retorna la cantidad de objetos guardados
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
