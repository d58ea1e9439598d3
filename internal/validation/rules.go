package validation

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout es el formato aceptado para fechas del formulario
const DateLayout = "2006-01-02"

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// IsValidEmail verifica la forma local@dominio.tld
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// isMissing aplica la regla de presencia: ausente, nil o string vacío tras trim.
// Para booleanos solo cuenta ausente o nil (false es un valor presente).
func isMissing(v interface{}, t FieldType) bool {
	if v == nil {
		return true
	}
	if t == TypeBool {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// ParseBool acepta true/false o los strings "true"/"false"
func ParseBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.TrimSpace(b) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// ParseNumber convierte números JSON o strings numéricos a float64 finito
func ParseNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseInteger acepta números sin parte decimal
func ParseInteger(v interface{}) (int64, bool) {
	f, ok := ParseNumber(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

// ParseDate valida YYYY-MM-DD y que sea una fecha de calendario real
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !dateRegex.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Age calcula la edad en años cumplidos a la fecha indicada.
// Aritmética de calendario, no días/365.25: el día exacto del cumpleaños 18
// ya cuenta como mayor de edad.
func Age(birth, on time.Time) int {
	years := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		years--
	}
	return years
}

// textValue retorna la representación string de un valor escalar del formulario
func textValue(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), true
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10), true
		}
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case json.Number:
		return s.String(), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	}
	return "", false
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
