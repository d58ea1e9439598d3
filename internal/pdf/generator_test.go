package pdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/yourorg/dataexpress/internal/validation"
)

func sampleNegocio() validation.Validated {
	return validation.Validated{
		"email":                        "ana.perez@example.com",
		"autorizacionTratamientoDatos": true,
		"autorizacionContacto":         false,
		"nombreCompleto":               "Ana María Núñez",
		"tipoDocumento":                "PEP",
		"numeroDocumento":              "1020304050",
		"fechaNacimiento":              "1990-05-12",
		"fechaExpedicionDocumento":     "2008-06-01",
		"ciudadNegocio":                "Bogotá",
		"direccionNegocio":             "Calle 10 # 20-30",
		"celularNegocio":               "3001234567",
	}
}

func newTestGenerator(r Renderer) *Generator {
	g := NewGenerator(r, "Bancamia DataExpress", time.UTC, nil)
	g.SetClock(func() time.Time { return time.Date(2026, time.October, 18, 15, 30, 0, 0, time.UTC) })
	return g
}

func TestGenerateProducesPDF(t *testing.T) {
	doc, err := newTestGenerator(NewFPDFRenderer()).Generate(context.Background(), validation.Negocio, sampleNegocio())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(doc.Bytes, []byte("%PDF-")) {
		t.Errorf("Expected PDF magic bytes, got %q", doc.Bytes[:8])
	}
	if doc.Size() < 500 || doc.Size() > 5<<20 {
		t.Errorf("Unexpected document size %d", doc.Size())
	}
	if doc.Pages < 1 {
		t.Errorf("Expected at least one page, got %d", doc.Pages)
	}
	if doc.ContentType != ContentType {
		t.Errorf("Unexpected content type %q", doc.ContentType)
	}
}

func TestGenerateCreditoSchema(t *testing.T) {
	data := validation.Validated{
		"nombreCompleto":  "Carlos Gómez",
		"tipoDocumento":   "TI",
		"montoSolicitado": float64(10000000),
		"plazoMeses":      "36",
		"tieneDeudas":     "si",
		"montoDeudas":     float64(0),
	}
	doc, err := newTestGenerator(NewFPDFRenderer()).Generate(context.Background(), validation.Credito, data)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if doc.Pages < 1 {
		t.Errorf("Expected pages, got %d", doc.Pages)
	}
}

func TestGenerateIsRestartable(t *testing.T) {
	g := newTestGenerator(NewFPDFRenderer())
	first, err := g.Generate(context.Background(), validation.Negocio, sampleNegocio())
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	second, err := g.Generate(context.Background(), validation.Negocio, sampleNegocio())
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	first.Bytes[0] = 'X'
	if _, err := Verify(second.Bytes); err != nil {
		t.Errorf("Second document must be independent of the first: %v", err)
	}
}

type failingRenderer struct{ err error }

func (f failingRenderer) Name() string { return "failing" }
func (f failingRenderer) Render(context.Context, Layout, io.Writer) error {
	return f.err
}

type emptyRenderer struct{}

func (emptyRenderer) Name() string                                    { return "empty" }
func (emptyRenderer) Render(context.Context, Layout, io.Writer) error { return nil }

type panicRenderer struct{}

func (panicRenderer) Name() string { return "panic" }
func (panicRenderer) Render(context.Context, Layout, io.Writer) error {
	panic("fuente corrupta")
}

type garbageRenderer struct{}

func (garbageRenderer) Name() string { return "garbage" }
func (garbageRenderer) Render(_ context.Context, _ Layout, w io.Writer) error {
	_, err := w.Write([]byte("esto no es un pdf"))
	return err
}

func TestGenerateFailures(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name     string
		renderer Renderer
		want     error
	}{
		{"render error", failingRenderer{err: boom}, boom},
		{"empty buffer", emptyRenderer{}, ErrEmptyDocument},
		{"invalid bytes", garbageRenderer{}, ErrInvalidDocument},
		{"panic", panicRenderer{}, nil},
	}
	for _, tc := range cases {
		doc, err := newTestGenerator(tc.renderer).Generate(context.Background(), validation.Negocio, sampleNegocio())
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if doc != nil {
			t.Errorf("%s: expected no document", tc.name)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestBuildLayout(t *testing.T) {
	at := time.Date(2026, time.October, 18, 9, 5, 0, 0, time.UTC)
	l := BuildLayout(validation.Negocio, sampleNegocio(), "Bancamia DataExpress", at)

	if l.Title != DocumentTitle || l.Subtitle != "Bancamia DataExpress" {
		t.Errorf("Unexpected header %q / %q", l.Title, l.Subtitle)
	}
	if l.Footer != "Generado el 18 de octubre de 2026, 09:05" {
		t.Errorf("Unexpected footer %q", l.Footer)
	}
	if len(l.Sections) != 3 {
		t.Fatalf("Expected 3 sections, got %d", len(l.Sections))
	}

	values := map[string]string{}
	for _, sec := range l.Sections {
		for _, line := range sec.Lines {
			values[sec.Title+"/"+line.Label] = line.Value
		}
	}
	checks := map[string]string{
		"INFORMACIÓN PERSONAL/Tipo de Documento":           "Permiso Especial de Permanencia",
		"INFORMACIÓN PERSONAL/Referencia":                  NotAvailable,
		"AUTORIZACIONES/Autorización Tratamiento de Datos": "Sí",
		"AUTORIZACIONES/Autorización de Contacto":          "No",
		"INFORMACIÓN DEL NEGOCIO/Ciudad":                   "Bogotá",
	}
	for key, want := range checks {
		if values[key] != want {
			t.Errorf("%s: expected %q, got %q", key, want, values[key])
		}
	}
}

func TestFormatValue(t *testing.T) {
	tipo, _ := validation.Negocio.Field("tipoDocumento")
	if got := FormatValue(tipo, "XYZ"); got != "XYZ" {
		t.Errorf("Unmapped enum should render raw, got %q", got)
	}
	auth, _ := validation.Negocio.Field("autorizacionContacto")
	if got := FormatValue(auth, "true"); got != "Sí" {
		t.Errorf("Expected Sí for \"true\", got %q", got)
	}
	monto, _ := validation.Credito.Field("montoSolicitado")
	if got := FormatValue(monto, float64(10000000)); got != "$ 10.000.000" {
		t.Errorf("Unexpected currency %q", got)
	}
	nombre, _ := validation.Negocio.Field("nombreCompleto")
	if got := FormatValue(nombre, "   "); got != NotAvailable {
		t.Errorf("Blank values should render N/A, got %q", got)
	}
}

func TestFormatCOP(t *testing.T) {
	cases := map[float64]string{
		0:         "$ 0",
		999:       "$ 999",
		1000:      "$ 1.000",
		1234567.5: "$ 1.234.567,50",
		-2500:     "$ -2.500",
	}
	for in, want := range cases {
		if got := FormatCOP(in); got != want {
			t.Errorf("FormatCOP(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestVerifyRejectsNonPDF(t *testing.T) {
	if _, err := Verify(nil); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Expected ErrEmptyDocument, got %v", err)
	}
	if _, err := Verify([]byte("<html></html>")); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("Expected ErrInvalidDocument, got %v", err)
	}
}
