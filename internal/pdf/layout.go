package pdf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yourorg/dataexpress/internal/validation"
)

// NotAvailable es el texto para valores ausentes
const NotAvailable = "N/A"

// DocumentTitle encabeza todas las solicitudes generadas
const DocumentTitle = "SOLICITUD DE CRÉDITO"

// Line es un par etiqueta: valor ya formateado
type Line struct {
	Label string
	Value string
}

// Block es una sección del documento
type Block struct {
	Title string
	Lines []Line
}

// Layout es el contenido del documento independiente del motor de render
type Layout struct {
	Title       string
	Subtitle    string
	Sections    []Block
	Footer      string
	GeneratedAt time.Time
}

// BuildLayout arma las secciones a partir del esquema y los datos validados
func BuildLayout(schema *validation.Schema, data validation.Validated, company string, generatedAt time.Time) Layout {
	l := Layout{
		Title:       DocumentTitle,
		Subtitle:    company,
		Footer:      "Generado el " + FormatFechaLarga(generatedAt),
		GeneratedAt: generatedAt,
	}
	for _, sec := range schema.Sections {
		block := Block{Title: sec.Title}
		for _, name := range sec.Fields {
			f, _ := schema.Field(name)
			block.Lines = append(block.Lines, Line{Label: f.Label, Value: FormatValue(f, data[name])})
		}
		l.Sections = append(l.Sections, block)
	}
	return l
}

// FormatValue convierte un valor al texto que se imprime
func FormatValue(f validation.Field, v interface{}) string {
	if v == nil {
		return NotAvailable
	}
	switch f.Type {
	case validation.TypeBool:
		b, ok := validation.ParseBool(v)
		if !ok {
			return NotAvailable
		}
		if b {
			return "Sí"
		}
		return "No"

	case validation.TypeEnum:
		s := strings.TrimSpace(fmt.Sprint(v))
		if s == "" {
			return NotAvailable
		}
		return f.DisplayValue(s)

	case validation.TypeNumber:
		n, ok := validation.ParseNumber(v)
		if !ok {
			return NotAvailable
		}
		if f.Currency {
			return FormatCOP(n)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)

	case validation.TypeInteger:
		n, ok := validation.ParseInteger(v)
		if !ok {
			return NotAvailable
		}
		return strconv.FormatInt(n, 10)
	}

	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return NotAvailable
	}
	return s
}

// FormatCOP formatea pesos colombianos: $ 1.234.567 o $ 1.234,50
func FormatCOP(n float64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	whole := math.Floor(n)
	cents := int(math.Round((n - whole) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := strconv.FormatFloat(whole, 'f', 0, 64)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	out := "$ " + sign + b.String()
	if cents > 0 {
		out += fmt.Sprintf(",%02d", cents)
	}
	return out
}

var meses = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatFechaLarga formatea al estilo es-CO: 18 de octubre de 2026, 15:30
func FormatFechaLarga(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d, %02d:%02d", t.Day(), meses[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
