package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	fixed := time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time { return fixed })

	id, err := m.Add(ctx, CollectionSolicitudes, map[string]interface{}{
		"nombreCompleto": "Ana",
		"createdAt":      ServerTime,
		"documento":      map[string]interface{}{"url": "http://x"},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	doc, err := m.Get(ctx, CollectionSolicitudes, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if created, ok := doc.Time("createdAt"); !ok || !created.Equal(fixed) {
		t.Errorf("Expected ServerTime to be resolved, got %v", doc.Data["createdAt"])
	}

	// Las lecturas son copias
	doc.Data["nombreCompleto"] = "Mutado"
	doc.Data["documento"].(map[string]interface{})["url"] = "mutado"
	again, _ := m.Get(ctx, CollectionSolicitudes, id)
	if again.String("nombreCompleto") != "Ana" {
		t.Error("Get must return a copy")
	}
	if again.Data["documento"].(map[string]interface{})["url"] != "http://x" {
		t.Error("Nested maps must be copied")
	}

	if err := m.Update(ctx, CollectionSolicitudes, id, map[string]interface{}{"estado": "aprobado"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ = m.Get(ctx, CollectionSolicitudes, id)
	if again.String("estado") != "aprobado" || again.String("nombreCompleto") != "Ana" {
		t.Errorf("Update must merge fields, got %+v", again.Data)
	}

	if err := m.Update(ctx, CollectionSolicitudes, "nope", map[string]interface{}{"a": 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := m.Delete(ctx, CollectionSolicitudes, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(ctx, CollectionSolicitudes, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreCreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if err := m.Create(ctx, CollectionUsers, "u1", map[string]interface{}{"email": "a@b.co"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Create(ctx, CollectionUsers, "u1", map[string]interface{}{}); err == nil {
		t.Error("Expected duplicate id to fail")
	}
}

func TestMemoryStoreQuery(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	for i, owner := range []string{"u1", "u2", "u1"} {
		_, _ = m.Add(ctx, CollectionSolicitudes, map[string]interface{}{
			"userId": owner,
			"monto":  float64((i + 1) * 1000),
		})
	}

	docs, err := m.Query(ctx, CollectionSolicitudes, Eq("userId", "u1"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("Expected 2 docs for u1, got %d", len(docs))
	}

	docs, _ = m.Query(ctx, CollectionSolicitudes, Where("monto", OpGreaterEqual, 2000))
	if len(docs) != 2 {
		t.Errorf("Expected 2 docs with monto >= 2000, got %d", len(docs))
	}

	docs, _ = m.Query(ctx, CollectionSolicitudes, Eq("userId", "u1"), Where("monto", OpLess, 2000))
	if len(docs) != 1 {
		t.Errorf("Expected 1 doc combining filters, got %d", len(docs))
	}

	if _, err := m.Query(ctx, CollectionSolicitudes, Where("monto", "array-contains", 1)); err == nil {
		t.Error("Expected unsupported operator error")
	}

	if docs, _ := m.Query(ctx, "vacía"); len(docs) != 0 {
		t.Errorf("Expected empty result for unknown collection, got %d", len(docs))
	}
}
