package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrEmptyDocument se retorna cuando el render termina sin bytes
	ErrEmptyDocument = errors.New("pdf: el documento generado está vacío")
	// ErrInvalidDocument se retorna cuando el buffer no es un PDF válido
	ErrInvalidDocument = errors.New("pdf: el documento generado no es un PDF válido")
)

var magic = []byte("%PDF-")

var disableConfigDir sync.Once

// Verify revisa el buffer generado y retorna el número de páginas
func Verify(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ErrEmptyDocument
	}
	if !bytes.HasPrefix(data, magic) {
		return 0, ErrInvalidDocument
	}

	// pdfcpu no debe escribir su carpeta de configuración en el servidor
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if pages < 1 {
		return 0, ErrEmptyDocument
	}
	return pages, nil
}
