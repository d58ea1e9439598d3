package validation

import (
	"fmt"
	"sort"
)

// ============================================================================
// DESCRIPTORES DE ESQUEMA
// ============================================================================
// Un Schema describe el formulario de una versión de la API: campos en orden,
// requeridos, enumeraciones, reglas numéricas y de fecha, requeridos
// condicionales y las secciones con las que se arma el PDF.

// FieldType indica cómo se valida y coerciona un campo
type FieldType int

const (
	TypeString FieldType = iota
	TypeEmail
	TypeEnum
	TypeDate
	TypeNumber
	TypeInteger
	TypeBool
)

// NumberRule restringe campos numéricos
type NumberRule int

const (
	NumberAny NumberRule = iota
	NumberPositive
	NumberNonNegative
)

// DateRule restringe campos de fecha
type DateRule int

const (
	DateAny       DateRule = iota
	DateBirth              // anterior a hoy y mayor de edad
	DateNotFuture          // hoy o antes
)

// MinAge es la edad mínima del solicitante
const MinAge = 18

// Field describe un campo del formulario
type Field struct {
	Name        string
	Label       string
	Type        FieldType
	Required    bool
	Values      []string          // enumeración cerrada (TypeEnum)
	ValueLabels map[string]string // código -> texto legible
	Number      NumberRule
	Date        DateRule
	Currency    bool
	Placeholder interface{} // valor usado en el borrador de actualizaciones parciales
}

// DisplayValue traduce un código de enumeración a su texto legible.
// Si el código no está mapeado se retorna tal cual.
func (f Field) DisplayValue(code string) string {
	if label, ok := f.ValueLabels[code]; ok {
		return label
	}
	return code
}

// Conditional hace requerido a Field cuando DependsOn == Equals
type Conditional struct {
	Field     string
	DependsOn string
	Equals    string
}

// Section agrupa campos para el documento generado
type Section struct {
	Title  string
	Fields []string
}

// Schema es el descriptor versionado del formulario
type Schema struct {
	Name         string
	Fields       []Field
	Conditionals []Conditional
	Sections     []Section
	index        map[string]int
}

// NewSchema arma el descriptor y valida que las referencias sean consistentes
func NewSchema(name string, fields []Field, conds []Conditional, sections []Section) (*Schema, error) {
	s := &Schema{
		Name:         name,
		Fields:       fields,
		Conditionals: conds,
		Sections:     sections,
		index:        make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("schema %s: campo duplicado %q", name, f.Name)
		}
		if f.Type == TypeEnum && len(f.Values) == 0 {
			return nil, fmt.Errorf("schema %s: enumeración vacía en %q", name, f.Name)
		}
		s.index[f.Name] = i
	}
	for _, c := range conds {
		if _, ok := s.index[c.Field]; !ok {
			return nil, fmt.Errorf("schema %s: condicional sobre campo desconocido %q", name, c.Field)
		}
		if _, ok := s.index[c.DependsOn]; !ok {
			return nil, fmt.Errorf("schema %s: condicional depende de campo desconocido %q", name, c.DependsOn)
		}
	}
	for _, sec := range sections {
		for _, f := range sec.Fields {
			if _, ok := s.index[f]; !ok {
				return nil, fmt.Errorf("schema %s: sección %q referencia campo desconocido %q", name, sec.Title, f)
			}
		}
	}
	return s, nil
}

// Field busca un campo por nombre
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Has reporta si el campo pertenece al esquema
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// SearchFields son los campos usados por la búsqueda libre del listado
var SearchFields = []string{"nombreCompleto", "numeroDocumento", "email"}

var registry = map[string]*Schema{}

func mustRegister(s *Schema, err error) *Schema {
	if err != nil {
		panic(err)
	}
	registry[s.Name] = s
	return s
}

// Lookup retorna el esquema registrado con ese nombre
func Lookup(name string) (*Schema, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("esquema de solicitud desconocido: %q (disponibles: %v)", name, Names())
	}
	return s, nil
}

// Names lista los esquemas registrados
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
