package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore guarda los archivos en disco y los expone bajo {baseURL}/files/.
// Pensado para desarrollo sin Firebase.
type LocalStore struct {
	dir     string
	baseURL string
	logger  *slog.Logger
	now     func() time.Time
}

// NewLocalStore crea el directorio raíz si no existe
func NewLocalStore(dir, baseURL string, logger *slog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob: creando %s: %w", dir, err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Dir retorna el directorio servido como /files
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Upload(_ context.Context, data []byte, logicalName, ownerID, _ string) (Object, error) {
	if len(data) == 0 {
		return Object{}, ErrEmptyUpload
	}
	path, fileName := BuildPath(SanitizeFileName(ownerID), logicalName, s.now())
	full := filepath.Join(s.dir, filepath.FromSlash(path))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, fmt.Errorf("blob: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return Object{}, fmt.Errorf("blob: escribiendo %s: %w", full, err)
	}
	s.logger.Info("Archivo guardado en disco", "path", path, "bytes", len(data))
	return Object{
		URL:          s.baseURL + "/files/" + path,
		Path:         path,
		FileName:     fileName,
		OriginalName: logicalName,
	}, nil
}

func (s *LocalStore) Delete(_ context.Context, path string) (bool, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return false, fmt.Errorf("blob: path inválido %q", path)
	}
	err := os.Remove(filepath.Join(s.dir, clean))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
