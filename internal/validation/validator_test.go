package validation

import (
	"reflect"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, time.October, 18, 15, 30, 0, 0, time.UTC)

func newNegocioValidator() *Validator {
	return New(Negocio, WithClock(func() time.Time { return fixedNow }), WithLocation(time.UTC))
}

func newCreditoValidator() *Validator {
	return New(Credito, WithClock(func() time.Time { return fixedNow }), WithLocation(time.UTC))
}

func validNegocioForm() Form {
	return Form{
		"email":                        "ana.perez@example.com",
		"autorizacionTratamientoDatos": true,
		"autorizacionContacto":         false,
		"nombreCompleto":               "Ana Pérez",
		"tipoDocumento":                "CC",
		"numeroDocumento":              "1020304050",
		"fechaNacimiento":              "1990-05-12",
		"fechaExpedicionDocumento":     "2008-06-01",
		"ciudadNegocio":                "Bogotá",
		"direccionNegocio":             "Calle 10 # 20-30",
		"celularNegocio":               "3001234567",
		"referencia":                   float64(12345),
	}
}

func validCreditoForm() Form {
	return Form{
		"nombreCompleto":    "Carlos Gómez",
		"tipoDocumento":     "CC",
		"numeroDocumento":   "79888777",
		"fechaNacimiento":   "1985-02-20",
		"estadoCivil":       "casado",
		"genero":            "masculino",
		"telefono":          "3109876543",
		"email":             "carlos@example.com",
		"direccion":         "Carrera 7 # 45-10",
		"ciudad":            "Medellín",
		"departamento":      "Antioquia",
		"ocupacion":         "Contador",
		"empresa":           "Contadores SAS",
		"cargoActual":       "Analista",
		"tipoContrato":      "indefinido",
		"ingresosMensuales": "4500000",
		"tiempoEmpleo":      "2a5",
		"montoSolicitado":   float64(10000000),
		"plazoMeses":        "36",
		"proposito":         "Vivienda",
		"tieneDeudas":       "no",
		"refNombre1":        "Luisa Díaz",
		"refTelefono1":      "3001112233",
		"refRelacion1":      "Hermana",
		"refNombre2":        "Pedro Ruiz",
		"refTelefono2":      "3004445566",
		"refRelacion2":      "Amigo",
	}
}

func TestValidateValidForms(t *testing.T) {
	if issues := newNegocioValidator().Validate(validNegocioForm()); len(issues) != 0 {
		t.Errorf("Expected no issues for negocio form, got %+v", issues)
	}
	if issues := newCreditoValidator().Validate(validCreditoForm()); len(issues) != 0 {
		t.Errorf("Expected no issues for credito form, got %+v", issues)
	}
}

func TestValidateAggregatesMissingFields(t *testing.T) {
	form := validNegocioForm()
	delete(form, "nombreCompleto")
	form["ciudadNegocio"] = ""
	form["celularNegocio"] = "   "
	form["direccionNegocio"] = nil

	issues := newNegocioValidator().Validate(form)
	if len(issues) != 1 {
		t.Fatalf("Expected exactly one issue, got %d: %+v", len(issues), issues)
	}
	if issues[0].Type != MissingFields {
		t.Errorf("Expected missing_fields, got %s", issues[0].Type)
	}
	want := []string{"nombreCompleto", "ciudadNegocio", "direccionNegocio", "celularNegocio"}
	if !reflect.DeepEqual(issues[0].Fields, want) {
		t.Errorf("Expected fields %v, got %v", want, issues[0].Fields)
	}
	if issues[0].Message != MissingFieldsMessage {
		t.Errorf("Unexpected message %q", issues[0].Message)
	}
}

func TestValidateFalseConsentIsPresent(t *testing.T) {
	form := validNegocioForm()
	form["autorizacionTratamientoDatos"] = false
	form["autorizacionContacto"] = "false"

	if issues := newNegocioValidator().Validate(form); len(issues) != 0 {
		t.Errorf("false consent must not be missing, got %+v", issues)
	}

	delete(form, "autorizacionContacto")
	issues := newNegocioValidator().Validate(form)
	if len(issues) != 1 || !reflect.DeepEqual(issues[0].Fields, []string{"autorizacionContacto"}) {
		t.Errorf("Expected absent consent to be missing, got %+v", issues)
	}
}

func TestValidateBooleanFormat(t *testing.T) {
	form := validNegocioForm()
	form["autorizacionContacto"] = "yes"

	issues := newNegocioValidator().Validate(form)
	if len(issues) != 1 || issues[0].Type != InvalidFormat || issues[0].Field != "autorizacionContacto" {
		t.Errorf("Expected invalid_format on autorizacionContacto, got %+v", issues)
	}
}

func TestValidateEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.co":             true,
		"nombre@dominio.com": true,
		"not-an-email":       false,
		"a@b":                false,
		"a b@c.com":          false,
		"@dominio.com":       false,
	}
	for email, valid := range cases {
		form := validNegocioForm()
		form["email"] = email
		issues := newNegocioValidator().Validate(form)
		if valid && len(issues) != 0 {
			t.Errorf("%q: expected valid, got %+v", email, issues)
		}
		if !valid && (len(issues) != 1 || issues[0].Field != "email") {
			t.Errorf("%q: expected one email issue, got %+v", email, issues)
		}
	}
}

func TestValidateEnumReportsValidValues(t *testing.T) {
	form := validNegocioForm()
	form["tipoDocumento"] = "TI" // válido solo en credito

	issues := newNegocioValidator().Validate(form)
	if len(issues) != 1 {
		t.Fatalf("Expected one issue, got %+v", issues)
	}
	if issues[0].Type != InvalidValue || !reflect.DeepEqual(issues[0].ValidValues, []string{"CC", "CE", "PA", "PEP", "PPP"}) {
		t.Errorf("Unexpected issue %+v", issues[0])
	}
}

func TestValidateBirthDateBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		date  string
		valid bool
	}{
		{"exactamente 18 años", "2008-10-18", true},
		{"17 años 364 días", "2008-10-19", false},
		{"hoy", "2026-10-18", false},
		{"futuro", "2030-01-01", false},
		{"fecha inexistente", "2000-02-30", false},
		{"formato inválido", "18/10/1990", false},
		{"bisiesto", "2000-02-29", true},
	}
	for _, tc := range cases {
		form := validNegocioForm()
		form["fechaNacimiento"] = tc.date
		issues := newNegocioValidator().Validate(form)
		if tc.valid && len(issues) != 0 {
			t.Errorf("%s: expected valid, got %+v", tc.name, issues)
		}
		if !tc.valid && len(issues.ForField("fechaNacimiento")) != 1 {
			t.Errorf("%s: expected one fechaNacimiento issue, got %+v", tc.name, issues)
		}
	}
}

func TestValidateIssueDateBoundaries(t *testing.T) {
	form := validNegocioForm()
	form["fechaExpedicionDocumento"] = "2026-10-18"
	if issues := newNegocioValidator().Validate(form); len(issues) != 0 {
		t.Errorf("Issue date equal to today must pass, got %+v", issues)
	}

	form["fechaExpedicionDocumento"] = "2026-10-19"
	issues := newNegocioValidator().Validate(form)
	if len(issues) != 1 || issues[0].Type != InvalidValue || issues[0].Field != "fechaExpedicionDocumento" {
		t.Errorf("Issue date tomorrow must fail, got %+v", issues)
	}
}

func TestValidateReferenceInteger(t *testing.T) {
	for _, v := range []interface{}{float64(10), "42", nil, ""} {
		form := validNegocioForm()
		form["referencia"] = v
		if issues := newNegocioValidator().Validate(form); len(issues) != 0 {
			t.Errorf("referencia=%v: expected valid, got %+v", v, issues)
		}
	}
	for _, v := range []interface{}{1.5, "abc", "NaN", true} {
		form := validNegocioForm()
		form["referencia"] = v
		issues := newNegocioValidator().Validate(form)
		if len(issues) != 1 || issues[0].Field != "referencia" {
			t.Errorf("referencia=%v: expected one issue, got %+v", v, issues)
		}
	}
}

func TestValidateConditionalDebtAmount(t *testing.T) {
	form := validCreditoForm()
	form["tieneDeudas"] = "si"

	issues := newCreditoValidator().Validate(form)
	if len(issues) != 1 || !reflect.DeepEqual(issues[0].Fields, []string{"montoDeudas"}) {
		t.Fatalf("Expected montoDeudas missing, got %+v", issues)
	}

	form["montoDeudas"] = "0"
	if issues := newCreditoValidator().Validate(form); len(issues) != 0 {
		t.Errorf("montoDeudas=0 must be valid, got %+v", issues)
	}

	form["montoDeudas"] = -1
	issues = newCreditoValidator().Validate(form)
	if len(issues) != 1 || issues[0].Field != "montoDeudas" || issues[0].Type != InvalidValue {
		t.Errorf("Expected negative debt to be invalid, got %+v", issues)
	}
}

func TestValidateConditionalJoinsAggregate(t *testing.T) {
	form := validCreditoForm()
	form["tieneDeudas"] = "si"
	delete(form, "empresa")

	issues := newCreditoValidator().Validate(form)
	if len(issues) != 1 {
		t.Fatalf("Expected a single aggregate, got %+v", issues)
	}
	if !reflect.DeepEqual(issues[0].Fields, []string{"empresa", "montoDeudas"}) {
		t.Errorf("Unexpected missing fields %v", issues[0].Fields)
	}
}

func TestValidateAmounts(t *testing.T) {
	form := validCreditoForm()
	form["montoSolicitado"] = "0"
	form["ingresosMensuales"] = "mucho"
	form["plazoMeses"] = float64(36)

	issues := newCreditoValidator().Validate(form)
	if len(issues) != 2 {
		t.Fatalf("Expected two issues, got %+v", issues)
	}
	if issues[0].Field != "ingresosMensuales" || issues[0].Type != InvalidFormat {
		t.Errorf("Unexpected first issue %+v", issues[0])
	}
	if issues[1].Field != "montoSolicitado" || issues[1].Type != InvalidValue {
		t.Errorf("Unexpected second issue %+v", issues[1])
	}
}

func TestValidateCollectsAllIssues(t *testing.T) {
	form := validNegocioForm()
	delete(form, "numeroDocumento")
	form["email"] = "mal"
	form["tipoDocumento"] = "XX"
	form["fechaExpedicionDocumento"] = "2999-01-01"

	issues := newNegocioValidator().Validate(form)
	if len(issues) != 4 {
		t.Fatalf("Expected 4 issues, got %d: %+v", len(issues), issues)
	}
	if issues[0].Type != MissingFields {
		t.Errorf("Expected aggregate first, got %+v", issues[0])
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	form := validNegocioForm()
	form["email"] = "mal"
	delete(form, "celularNegocio")

	v := newNegocioValidator()
	first := v.Validate(form)
	second := v.Validate(form)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Validate is not idempotent: %+v vs %+v", first, second)
	}
}

func TestParseCoercesTypes(t *testing.T) {
	form := validCreditoForm()
	form["nombreCompleto"] = "  <b>Carlos</b> Gómez "
	form["extra"] = "ignorado"

	out, issues := newCreditoValidator().Parse(form)
	if len(issues) != 0 {
		t.Fatalf("Unexpected issues %+v", issues)
	}
	if out["ingresosMensuales"] != float64(4500000) {
		t.Errorf("Expected ingresosMensuales coerced to float64, got %T %v", out["ingresosMensuales"], out["ingresosMensuales"])
	}
	if out["nombreCompleto"] != "bCarlos/b Gómez" {
		t.Errorf("Expected sanitized name, got %q", out["nombreCompleto"])
	}
	if _, ok := out["extra"]; ok {
		t.Error("Unknown fields must be dropped")
	}
	if _, ok := out["montoDeudas"]; ok {
		t.Error("Absent optional fields must not be set")
	}

	neg, issues := newNegocioValidator().Parse(validNegocioForm())
	if len(issues) != 0 {
		t.Fatalf("Unexpected issues %+v", issues)
	}
	if neg["referencia"] != int64(12345) || neg["autorizacionContacto"] != false {
		t.Errorf("Unexpected coercion: %+v", neg)
	}
}

func TestValidateUpdateIgnoresCompleteness(t *testing.T) {
	v := newNegocioValidator()

	if issues := v.ValidateUpdate(Form{"celularNegocio": "3110000000"}); len(issues) != 0 {
		t.Errorf("Partial update must not report missing fields, got %+v", issues)
	}

	issues := v.ValidateUpdate(Form{"email": "no-es-email", "estado": "archivado"})
	if len(issues) != 2 {
		t.Fatalf("Expected email and estado issues, got %+v", issues)
	}
	if issues[0].Field != "email" || issues[1].Field != "estado" {
		t.Errorf("Unexpected issues %+v", issues)
	}
}

func TestParseUpdateKeepsOnlySentFields(t *testing.T) {
	out, issues := newNegocioValidator().ParseUpdate(Form{
		"ciudadNegocio": "Cali",
		"referencia":    "7",
		"estado":        "en_revision",
		"createdAt":     "2020-01-01",
	})
	if len(issues) != 0 {
		t.Fatalf("Unexpected issues %+v", issues)
	}
	want := Validated{"ciudadNegocio": "Cali", "referencia": int64(7), "estado": "en_revision"}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Expected %+v, got %+v", want, out)
	}
}

func TestLookupSchemas(t *testing.T) {
	for _, name := range []string{"credito", "negocio"} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%q): %v", name, err)
		}
	}
	if _, err := Lookup("v9"); err == nil {
		t.Error("Expected error for unknown schema")
	}
}

func TestFieldDisplayValue(t *testing.T) {
	f, _ := Negocio.Field("tipoDocumento")
	if got := f.DisplayValue("PEP"); got != "Permiso Especial de Permanencia" {
		t.Errorf("Unexpected label %q", got)
	}
	if got := f.DisplayValue("ZZ"); got != "ZZ" {
		t.Errorf("Unmapped codes must render raw, got %q", got)
	}
}

func TestStringHelpers(t *testing.T) {
	if MaskToken("abcdefghijklmnop") != "abcd...mnop" {
		t.Errorf("Unexpected mask %q", MaskToken("abcdefghijklmnop"))
	}
	if IsValidPassword("12345") || !IsValidPassword("123456") {
		t.Error("Password length rule broken")
	}
	if IsValidFirebaseUID("short") {
		t.Error("Expected short uid to be invalid")
	}
}
