package validation

import (
	"fmt"
	"time"
)

// ============================================================================
// VALIDATOR DE SOLICITUDES
// ============================================================================
// Flujo:
//   1. Requeridos estáticos -> se agregan a un único issue missing_fields
//   2. Requeridos condicionales -> se suman al mismo agregado
//   3. Formato y valor por campo presente -> un issue por violación
// Nunca corta en el primer error: el cliente recibe el reporte completo.

// Form es el cuerpo JSON tal como llega (sin tipos confiables)
type Form map[string]interface{}

// Validated es el formulario ya validado, coercionado y saneado.
// Solo contiene campos del esquema.
type Validated map[string]interface{}

// Estados posibles de una solicitud
var Estados = []string{"pendiente", "en_revision", "aprobado", "rechazado"}

// EstadoInicial es el estado con el que nace toda solicitud
const EstadoInicial = "pendiente"

// Validator valida formularios contra un Schema
type Validator struct {
	schema *Schema
	now    func() time.Time
	loc    *time.Location
}

// Option configura un Validator
type Option func(*Validator)

// WithClock reemplaza el reloj (tests)
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithLocation fija la zona horaria con la que se calcula "hoy"
func WithLocation(loc *time.Location) Option {
	return func(v *Validator) {
		if loc != nil {
			v.loc = loc
		}
	}
}

// New crea un Validator para el esquema dado
func New(schema *Schema, opts ...Option) *Validator {
	v := &Validator{schema: schema, now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Schema retorna el esquema activo
func (v *Validator) Schema() *Schema {
	return v.schema
}

func (v *Validator) today() time.Time {
	now := v.now().In(v.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, v.loc)
}

// Validate retorna todas las violaciones del formulario (vacío = válido)
func (v *Validator) Validate(form Form) Issues {
	var issues Issues

	var missing []string
	seen := make(map[string]bool)
	for _, f := range v.schema.Fields {
		if f.Required && isMissing(form[f.Name], f.Type) {
			missing = append(missing, f.Name)
			seen[f.Name] = true
		}
	}
	for _, c := range v.schema.Conditionals {
		dep, _ := textValue(form[c.DependsOn])
		if dep != c.Equals || seen[c.Field] {
			continue
		}
		f, _ := v.schema.Field(c.Field)
		if isMissing(form[c.Field], f.Type) {
			missing = append(missing, c.Field)
			seen[c.Field] = true
		}
	}
	if len(missing) > 0 {
		issues = append(issues, Issue{
			Type:    MissingFields,
			Fields:  missing,
			Message: MissingFieldsMessage,
		})
	}

	today := v.today()
	for _, f := range v.schema.Fields {
		value := form[f.Name]
		if isMissing(value, f.Type) {
			continue
		}
		if issue := v.checkField(f, value, today); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}

// Parse valida y, si no hay issues, retorna el formulario tipado
func (v *Validator) Parse(form Form) (Validated, Issues) {
	if issues := v.Validate(form); len(issues) > 0 {
		return nil, issues
	}
	out := make(Validated, len(v.schema.Fields))
	for _, f := range v.schema.Fields {
		value := form[f.Name]
		if isMissing(value, f.Type) {
			continue
		}
		out[f.Name] = coerce(f, value)
	}
	return out, nil
}

// ValidateUpdate valida una actualización parcial: solo formato y valores.
// Los campos no enviados se completan con placeholders y luego se descartan
// los issues missing_fields.
func (v *Validator) ValidateUpdate(patch Form) Issues {
	draft := v.placeholders()
	for k, val := range patch {
		draft[k] = val
	}
	issues := v.Validate(draft).Without(MissingFields)

	if raw, ok := patch["estado"]; ok {
		estado, isText := raw.(string)
		if !isText || !contains(Estados, estado) {
			issues = append(issues, Issue{
				Type:        InvalidValue,
				Field:       "estado",
				Message:     "Estado de solicitud inválido",
				ValidValues: Estados,
			})
		}
	}
	return issues
}

// ParseUpdate retorna solo los campos del esquema enviados en el patch, coercionados.
// Valores vacíos se ignoran (no borran el dato almacenado).
func (v *Validator) ParseUpdate(patch Form) (Validated, Issues) {
	if issues := v.ValidateUpdate(patch); len(issues) > 0 {
		return nil, issues
	}
	out := make(Validated)
	for _, f := range v.schema.Fields {
		value, ok := patch[f.Name]
		if !ok || isMissing(value, f.Type) {
			continue
		}
		out[f.Name] = coerce(f, value)
	}
	if estado, ok := patch["estado"].(string); ok {
		out["estado"] = estado
	}
	return out, nil
}

func (v *Validator) placeholders() Form {
	draft := make(Form, len(v.schema.Fields))
	for _, f := range v.schema.Fields {
		if !f.Required {
			continue
		}
		if f.Placeholder != nil {
			draft[f.Name] = f.Placeholder
			continue
		}
		switch f.Type {
		case TypeEnum:
			draft[f.Name] = f.Values[0]
		case TypeBool:
			draft[f.Name] = false
		case TypeNumber, TypeInteger:
			draft[f.Name] = 1
		default:
			draft[f.Name] = "placeholder"
		}
	}
	return draft
}

// ────────────────────────────────────────────────────────────────────────
// REGLAS POR CAMPO
// ────────────────────────────────────────────────────────────────────────

func (v *Validator) checkField(f Field, value interface{}, today time.Time) *Issue {
	switch f.Type {
	case TypeEmail:
		s, ok := value.(string)
		if !ok || !IsValidEmail(s) {
			return formatIssue(f.Name, "Formato de email inválido")
		}

	case TypeEnum:
		s, ok := textValue(value)
		if !ok || !contains(f.Values, s) {
			return &Issue{
				Type:        InvalidValue,
				Field:       f.Name,
				Message:     fmt.Sprintf("%s inválido", f.Label),
				ValidValues: f.Values,
			}
		}

	case TypeBool:
		if _, ok := ParseBool(value); !ok {
			return formatIssue(f.Name, fmt.Sprintf("%s debe ser true o false", f.Label))
		}

	case TypeNumber:
		n, ok := ParseNumber(value)
		if !ok {
			return formatIssue(f.Name, fmt.Sprintf("%s debe ser un número válido", f.Label))
		}
		switch {
		case f.Number == NumberPositive && n <= 0:
			return valueIssue(f.Name, fmt.Sprintf("%s debe ser mayor a 0", f.Label))
		case f.Number == NumberNonNegative && n < 0:
			return valueIssue(f.Name, fmt.Sprintf("%s no puede ser negativo", f.Label))
		}

	case TypeInteger:
		if _, ok := ParseInteger(value); !ok {
			return formatIssue(f.Name, fmt.Sprintf("%s debe ser un número entero", f.Label))
		}

	case TypeDate:
		s, ok := value.(string)
		if !ok {
			return formatIssue(f.Name, fmt.Sprintf("%s debe tener formato YYYY-MM-DD", f.Label))
		}
		date, ok := ParseDate(s, v.loc)
		if !ok {
			return formatIssue(f.Name, fmt.Sprintf("%s no es una fecha válida (YYYY-MM-DD)", f.Label))
		}
		return checkDate(f, date, today)

	default:
		if _, ok := value.(string); !ok {
			return formatIssue(f.Name, fmt.Sprintf("%s debe ser texto", f.Label))
		}
	}
	return nil
}

func checkDate(f Field, date, today time.Time) *Issue {
	switch f.Date {
	case DateBirth:
		if !date.Before(today) {
			return valueIssue(f.Name, "La fecha de nacimiento debe ser anterior a hoy")
		}
		if Age(date, today) < MinAge {
			return valueIssue(f.Name, fmt.Sprintf("El solicitante debe ser mayor de %d años", MinAge))
		}
	case DateNotFuture:
		if date.After(today) {
			return valueIssue(f.Name, fmt.Sprintf("%s no puede ser una fecha futura", f.Label))
		}
	}
	return nil
}

func formatIssue(field, message string) *Issue {
	return &Issue{Type: InvalidFormat, Field: field, Message: message}
}

func valueIssue(field, message string) *Issue {
	return &Issue{Type: InvalidValue, Field: field, Message: message}
}

// coerce convierte un valor ya validado a su tipo final
func coerce(f Field, value interface{}) interface{} {
	switch f.Type {
	case TypeNumber:
		n, _ := ParseNumber(value)
		return n
	case TypeInteger:
		n, _ := ParseInteger(value)
		return n
	case TypeBool:
		b, _ := ParseBool(value)
		return b
	case TypeEnum:
		s, _ := textValue(value)
		return s
	default:
		s, _ := value.(string)
		return SanitizeString(s)
	}
}
