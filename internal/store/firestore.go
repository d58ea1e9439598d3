package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore adapta el contrato Store a Cloud Firestore
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore envuelve un cliente ya creado (ver internal/db)
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("firestore get %s/%s: %w", collection, id, err)
	}
	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		if err := f.validate(); err != nil {
			return nil, err
		}
		q = q.Where(f.Field, f.Op, f.Value)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	docs := make([]Document, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore query %s: %w", collection, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) NewID(collection string) string {
	return s.client.Collection(collection).NewDoc().ID
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, toFirestore(data))
	if err != nil {
		return "", fmt.Errorf("firestore add %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Create(ctx context.Context, collection, id string, data map[string]interface{}) error {
	if _, err := s.client.Collection(collection).Doc(id).Create(ctx, toFirestore(data)); err != nil {
		return fmt.Errorf("firestore create %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, data map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(data))
	for k, v := range toFirestore(data) {
		// FieldPath evita que llaves con puntos se interpreten como rutas anidadas
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("firestore update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Ping hace una lectura mínima para el health check
func (s *FirestoreStore) Ping(ctx context.Context) error {
	iter := s.client.Collection(CollectionSolicitudes).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// toFirestore reemplaza ServerTime por firestore.ServerTimestamp
func toFirestore(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		switch x := v.(type) {
		case ServerTimestamp:
			out[k] = firestore.ServerTimestamp
		case map[string]interface{}:
			out[k] = toFirestore(x)
		default:
			out[k] = v
		}
	}
	return out
}
