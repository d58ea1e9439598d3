package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
)

// FirebaseStore sube archivos al bucket de Firebase Storage (GCS)
type FirebaseStore struct {
	client *storage.Client
	bucket string
	logger *slog.Logger
	now    func() time.Time
}

// NewFirebaseStore crea el store sobre un cliente de Storage ya inicializado
func NewFirebaseStore(client *storage.Client, bucket string, logger *slog.Logger) *FirebaseStore {
	return &FirebaseStore{client: client, bucket: bucket, logger: logger, now: time.Now}
}

// Upload escribe el objeto con metadata y retorna la URL de descarga de Firebase
func (s *FirebaseStore) Upload(ctx context.Context, data []byte, logicalName, ownerID, contentType string) (Object, error) {
	if len(data) == 0 {
		return Object{}, ErrEmptyUpload
	}
	now := s.now()
	path, fileName := BuildPath(ownerID, logicalName, now)
	token := uuid.NewString()

	w := s.client.Bucket(s.bucket).Object(path).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		"solicitudId":  ownerID,
		"originalName": logicalName,
		"uploadedAt":   now.UTC().Format(time.RFC3339),
		// Token que habilita la URL de descarga de Firebase
		"firebaseStorageDownloadTokens": token,
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return Object{}, fmt.Errorf("blob: escribiendo %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 412 {
			return Object{}, fmt.Errorf("blob: el objeto %s ya existe: %w", path, err)
		}
		return Object{}, fmt.Errorf("blob: finalizando %s: %w", path, err)
	}

	s.logger.Info("Archivo subido a Storage", "path", path, "bytes", len(data))
	return Object{
		URL:          s.downloadURL(path, token),
		Path:         path,
		FileName:     fileName,
		OriginalName: logicalName,
	}, nil
}

// Delete elimina el objeto; retorna false si no existía
func (s *FirebaseStore) Delete(ctx context.Context, path string) (bool, error) {
	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("blob: eliminando %s: %w", path, err)
	}
	return true, nil
}

func (s *FirebaseStore) downloadURL(path, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		s.bucket, url.PathEscape(path), token)
}
