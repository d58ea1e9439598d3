package blob

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ============================================================================
// BLOB STORE
// ============================================================================
// Los PDFs se guardan en solicitudes/{ownerId}/{timestamp}_{nombre}. El
// timestamp hace único cada path: dos creaciones concurrentes nunca escriben
// el mismo objeto.

// RootFolder es la carpeta raíz de los documentos de solicitudes
const RootFolder = "solicitudes"

// ErrEmptyUpload se retorna al intentar subir un buffer vacío
var ErrEmptyUpload = errors.New("blob: no se puede subir un archivo vacío")

// Object es la referencia durable al archivo subido
type Object struct {
	URL          string `json:"url"`
	Path         string `json:"path"`
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
}

// Map convierte la referencia al formato que se persiste
func (o Object) Map() map[string]interface{} {
	return map[string]interface{}{
		"url":          o.URL,
		"path":         o.Path,
		"fileName":     o.FileName,
		"originalName": o.OriginalName,
	}
}

// Store es el contrato del almacenamiento de archivos
type Store interface {
	Upload(ctx context.Context, data []byte, logicalName, ownerID, contentType string) (Object, error)
	Delete(ctx context.Context, path string) (bool, error)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFileName reemplaza todo lo que no sea alfanumérico, punto o guion por _
func SanitizeFileName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// BuildPath arma el path del objeto y el nombre final del archivo
func BuildPath(ownerID, logicalName string, at time.Time) (path, fileName string) {
	fileName = fmt.Sprintf("%d_%s", at.UnixMilli(), SanitizeFileName(logicalName))
	return fmt.Sprintf("%s/%s/%s", RootFolder, ownerID, fileName), fileName
}
