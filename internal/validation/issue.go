package validation

// IssueType clasifica las violaciones reportadas por el Validator
type IssueType string

const (
	MissingFields IssueType = "missing_fields"
	InvalidFormat IssueType = "invalid_format"
	InvalidValue  IssueType = "invalid_value"
)

// MissingFieldsMessage es el mensaje del issue agregado de campos faltantes
const MissingFieldsMessage = "Faltan campos requeridos"

// Issue representa una violación del formulario.
// Los campos faltantes se agrupan en un único Issue con Fields;
// el resto es un Issue por violación.
type Issue struct {
	Type        IssueType `json:"type"`
	Field       string    `json:"field,omitempty"`
	Fields      []string  `json:"fields,omitempty"`
	Message     string    `json:"message"`
	ValidValues []string  `json:"validValues,omitempty"`
}

// Issues es el resultado en lote de una validación
type Issues []Issue

// Without retorna los issues que no son del tipo indicado
func (is Issues) Without(t IssueType) Issues {
	out := make(Issues, 0, len(is))
	for _, issue := range is {
		if issue.Type != t {
			out = append(out, issue)
		}
	}
	return out
}

// ForField retorna los issues de un campo (incluye el agregado si lo menciona)
func (is Issues) ForField(field string) Issues {
	var out Issues
	for _, issue := range is {
		if issue.Field == field {
			out = append(out, issue)
			continue
		}
		for _, f := range issue.Fields {
			if f == field {
				out = append(out, issue)
				break
			}
		}
	}
	return out
}

// Details arma el bloque details del envelope de error
func (is Issues) Details() map[string]interface{} {
	return map[string]interface{}{"errors": is}
}
