package pdf

import (
	"context"
	"io"

	"github.com/go-pdf/fpdf"
)

// Medidas en puntos (LETTER 612x792)
const (
	pageMargin = 50.0
	labelWidth = 170.0
	lineHeight = 15.0
)

// FPDFRenderer dibuja el Layout con go-pdf/fpdf y escribe el PDF en streaming
type FPDFRenderer struct{}

// NewFPDFRenderer crea el renderer por defecto
func NewFPDFRenderer() *FPDFRenderer {
	return &FPDFRenderer{}
}

// Name identifica el renderer en logs
func (r *FPDFRenderer) Name() string {
	return "fpdf"
}

// Render escribe el documento completo en w
func (r *FPDFRenderer) Render(_ context.Context, l Layout, w io.Writer) error {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin+20)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetTitle(l.Title, true)
	doc.SetAuthor(l.Subtitle, true)
	doc.SetCreator("dataexpress", false)
	doc.SetCreationDate(l.GeneratedAt)

	doc.SetFooterFunc(func() {
		doc.SetY(-pageMargin)
		doc.SetFont("Helvetica", "I", 8)
		doc.SetTextColor(120, 120, 120)
		doc.CellFormat(0, 10, tr(l.Footer), "", 0, "C", false, 0, "")
	})

	doc.AddPage()

	// ────────────────────────────────────────────────────────────────────
	// ENCABEZADO
	// ────────────────────────────────────────────────────────────────────
	doc.SetFont("Helvetica", "B", 20)
	doc.SetTextColor(0, 51, 102)
	doc.CellFormat(0, 26, tr(l.Title), "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.SetTextColor(80, 80, 80)
	doc.CellFormat(0, 18, tr(l.Subtitle), "", 1, "C", false, 0, "")
	doc.Ln(6)

	pageW, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	y := doc.GetY()
	doc.SetDrawColor(0, 51, 102)
	doc.SetLineWidth(1)
	doc.Line(left, y, pageW-right, y)
	doc.Ln(14)

	// ────────────────────────────────────────────────────────────────────
	// SECCIONES
	// ────────────────────────────────────────────────────────────────────
	for _, sec := range l.Sections {
		doc.SetFont("Helvetica", "B", 13)
		doc.SetTextColor(0, 51, 102)
		doc.CellFormat(0, 18, tr(sec.Title), "", 1, "L", false, 0, "")
		doc.Ln(2)

		for _, line := range sec.Lines {
			doc.SetFont("Helvetica", "B", 10)
			doc.SetTextColor(40, 40, 40)
			doc.CellFormat(labelWidth, lineHeight, tr(line.Label+":"), "", 0, "L", false, 0, "")
			doc.SetFont("Helvetica", "", 10)
			doc.MultiCell(0, lineHeight, tr(line.Value), "", "L", false)
		}
		doc.Ln(10)
	}

	if doc.Err() {
		return doc.Error()
	}
	return doc.Output(w)
}
