package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yourorg/dataexpress/internal/validation"
)

// ============================================================================
// GENERADOR DE DOCUMENTOS PDF
// ============================================================================
// El renderer escribe en un io.Pipe mientras otra goroutine acumula el buffer.
// El documento solo está completo cuando el pipe se cierra. Cualquier error
// del render (incluido un panic), un buffer vacío o un PDF inválido hacen
// fallar la generación: no existen documentos parciales.

// ContentType del documento generado
const ContentType = "application/pdf"

// Renderer dibuja un Layout y escribe el PDF en w
type Renderer interface {
	Name() string
	Render(ctx context.Context, l Layout, w io.Writer) error
}

// Document es el PDF generado, inmutable y solo en memoria
type Document struct {
	Bytes       []byte
	ContentType string
	Pages       int
	GeneratedAt time.Time
}

// Size retorna el tamaño en bytes
func (d *Document) Size() int {
	return len(d.Bytes)
}

// Generator orquesta layout, render y verificación
type Generator struct {
	renderer Renderer
	company  string
	now      func() time.Time
	loc      *time.Location
	logger   *slog.Logger
}

// NewGenerator crea un generador con el renderer indicado
func NewGenerator(renderer Renderer, company string, loc *time.Location, logger *slog.Logger) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		renderer: renderer,
		company:  company,
		now:      time.Now,
		loc:      loc,
		logger:   logger,
	}
}

// SetClock reemplaza el reloj usado para el pie de página
func (g *Generator) SetClock(now func() time.Time) {
	g.now = now
}

// Generate renderiza la solicitud validada y retorna el PDF completo
func (g *Generator) Generate(ctx context.Context, schema *validation.Schema, data validation.Validated) (*Document, error) {
	start := time.Now()
	generatedAt := g.now().In(g.loc)
	layout := BuildLayout(schema, data, g.company, generatedAt)

	pr, pw := io.Pipe()
	var buf bytes.Buffer

	eg := new(errgroup.Group)
	eg.Go(func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("pdf: panic en renderer %s: %v", g.renderer.Name(), rec)
			}
			pw.CloseWithError(err)
		}()
		return g.renderer.Render(ctx, layout, pw)
	})
	eg.Go(func() error {
		_, err := io.Copy(&buf, pr)
		return err
	})
	if err := eg.Wait(); err != nil {
		g.logger.Error("Error generando PDF", "renderer", g.renderer.Name(), "error", err)
		return nil, fmt.Errorf("pdf: render: %w", err)
	}

	pages, err := Verify(buf.Bytes())
	if err != nil {
		g.logger.Error("PDF generado inválido", "renderer", g.renderer.Name(), "bytes", buf.Len(), "error", err)
		return nil, err
	}

	g.logger.Debug("PDF generado",
		"renderer", g.renderer.Name(),
		"bytes", buf.Len(),
		"pages", pages,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Document{
		Bytes:       buf.Bytes(),
		ContentType: ContentType,
		Pages:       pages,
		GeneratedAt: generatedAt,
	}, nil
}

// WriteDebugFile guarda el documento en disco (solo herramientas de desarrollo)
func WriteDebugFile(dir, name string, doc *Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, doc.Bytes, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
