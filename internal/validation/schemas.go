package validation

// ============================================================================
// ESQUEMAS REGISTRADOS
// ============================================================================
//   credito (v1): formulario de crédito con información laboral y referencias
//   negocio (v2+): formulario de microcrédito con datos del negocio y autorizaciones

var documentLabels = map[string]string{
	"CC":  "Cédula de Ciudadanía",
	"CE":  "Cédula de Extranjería",
	"PA":  "Pasaporte",
	"TI":  "Tarjeta de Identidad",
	"PEP": "Permiso Especial de Permanencia",
	"PPP": "Permiso por Protección Temporal",
}

var yesNoLabels = map[string]string{"si": "Sí", "no": "No"}

// Credito es el esquema v1
var Credito = mustRegister(NewSchema("credito",
	[]Field{
		{Name: "nombreCompleto", Label: "Nombre Completo", Type: TypeString, Required: true},
		{Name: "tipoDocumento", Label: "Tipo de Documento", Type: TypeEnum, Required: true,
			Values: []string{"CC", "CE", "PA", "TI"}, ValueLabels: documentLabels},
		{Name: "numeroDocumento", Label: "Número de Documento", Type: TypeString, Required: true},
		{Name: "fechaNacimiento", Label: "Fecha de Nacimiento", Type: TypeDate, Required: true,
			Date: DateBirth, Placeholder: "1990-01-01"},
		{Name: "estadoCivil", Label: "Estado Civil", Type: TypeEnum, Required: true,
			Values: []string{"soltero", "casado", "union", "divorciado", "viudo"},
			ValueLabels: map[string]string{
				"soltero": "Soltero(a)", "casado": "Casado(a)", "union": "Unión libre",
				"divorciado": "Divorciado(a)", "viudo": "Viudo(a)",
			}},
		{Name: "genero", Label: "Género", Type: TypeEnum, Required: true,
			Values:      []string{"masculino", "femenino", "otro"},
			ValueLabels: map[string]string{"masculino": "Masculino", "femenino": "Femenino", "otro": "Otro"}},
		{Name: "telefono", Label: "Teléfono", Type: TypeString, Required: true},
		{Name: "email", Label: "Email", Type: TypeEmail, Required: true, Placeholder: "temp@temp.com"},
		{Name: "direccion", Label: "Dirección", Type: TypeString, Required: true},
		{Name: "ciudad", Label: "Ciudad", Type: TypeString, Required: true},
		{Name: "departamento", Label: "Departamento", Type: TypeString, Required: true},

		{Name: "ocupacion", Label: "Ocupación", Type: TypeString, Required: true},
		{Name: "empresa", Label: "Empresa", Type: TypeString, Required: true},
		{Name: "cargoActual", Label: "Cargo Actual", Type: TypeString, Required: true},
		{Name: "tipoContrato", Label: "Tipo de Contrato", Type: TypeEnum, Required: true,
			Values: []string{"indefinido", "fijo", "prestacion", "independiente"},
			ValueLabels: map[string]string{
				"indefinido": "Término indefinido", "fijo": "Término fijo",
				"prestacion": "Prestación de servicios", "independiente": "Independiente",
			}},
		{Name: "ingresosMensuales", Label: "Ingresos Mensuales", Type: TypeNumber, Required: true,
			Number: NumberPositive, Currency: true, Placeholder: 1},
		{Name: "tiempoEmpleo", Label: "Tiempo en el Empleo", Type: TypeEnum, Required: true,
			Values: []string{"menos6", "6a12", "1a2", "2a5", "mas5"},
			ValueLabels: map[string]string{
				"menos6": "Menos de 6 meses", "6a12": "6 a 12 meses", "1a2": "1 a 2 años",
				"2a5": "2 a 5 años", "mas5": "Más de 5 años",
			}},

		{Name: "montoSolicitado", Label: "Monto Solicitado", Type: TypeNumber, Required: true,
			Number: NumberPositive, Currency: true, Placeholder: 1},
		{Name: "plazoMeses", Label: "Plazo", Type: TypeEnum, Required: true,
			Values: []string{"12", "24", "36", "48", "60", "72"},
			ValueLabels: map[string]string{
				"12": "12 meses", "24": "24 meses", "36": "36 meses",
				"48": "48 meses", "60": "60 meses", "72": "72 meses",
			}},
		{Name: "proposito", Label: "Propósito del Crédito", Type: TypeString, Required: true},
		{Name: "tieneDeudas", Label: "Tiene Deudas", Type: TypeEnum, Required: true,
			Values: []string{"si", "no"}, ValueLabels: yesNoLabels, Placeholder: "no"},
		{Name: "montoDeudas", Label: "Monto de Deudas", Type: TypeNumber,
			Number: NumberNonNegative, Currency: true},

		{Name: "refNombre1", Label: "Nombre", Type: TypeString, Required: true},
		{Name: "refTelefono1", Label: "Teléfono", Type: TypeString, Required: true},
		{Name: "refRelacion1", Label: "Relación", Type: TypeString, Required: true},
		{Name: "refNombre2", Label: "Nombre", Type: TypeString, Required: true},
		{Name: "refTelefono2", Label: "Teléfono", Type: TypeString, Required: true},
		{Name: "refRelacion2", Label: "Relación", Type: TypeString, Required: true},
	},
	[]Conditional{
		{Field: "montoDeudas", DependsOn: "tieneDeudas", Equals: "si"},
	},
	[]Section{
		{Title: "INFORMACIÓN PERSONAL", Fields: []string{
			"nombreCompleto", "tipoDocumento", "numeroDocumento", "fechaNacimiento", "estadoCivil",
			"genero", "telefono", "email", "direccion", "ciudad", "departamento",
		}},
		{Title: "INFORMACIÓN LABORAL", Fields: []string{
			"ocupacion", "empresa", "cargoActual", "tipoContrato", "ingresosMensuales", "tiempoEmpleo",
		}},
		{Title: "INFORMACIÓN DEL CRÉDITO", Fields: []string{
			"montoSolicitado", "plazoMeses", "proposito", "tieneDeudas", "montoDeudas",
		}},
		{Title: "REFERENCIA PERSONAL 1", Fields: []string{"refNombre1", "refTelefono1", "refRelacion1"}},
		{Title: "REFERENCIA PERSONAL 2", Fields: []string{"refNombre2", "refTelefono2", "refRelacion2"}},
	},
))

// Negocio es el esquema v2 / v3
var Negocio = mustRegister(NewSchema("negocio",
	[]Field{
		{Name: "email", Label: "Email", Type: TypeEmail, Required: true, Placeholder: "temp@temp.com"},
		{Name: "autorizacionTratamientoDatos", Label: "Autorización Tratamiento de Datos", Type: TypeBool,
			Required: true, Placeholder: true},
		{Name: "autorizacionContacto", Label: "Autorización de Contacto", Type: TypeBool,
			Required: true, Placeholder: true},
		{Name: "nombreCompleto", Label: "Nombre Completo", Type: TypeString, Required: true},
		{Name: "tipoDocumento", Label: "Tipo de Documento", Type: TypeEnum, Required: true,
			Values: []string{"CC", "CE", "PA", "PEP", "PPP"}, ValueLabels: documentLabels},
		{Name: "numeroDocumento", Label: "Número", Type: TypeString, Required: true},
		{Name: "fechaNacimiento", Label: "Fecha de Nacimiento", Type: TypeDate, Required: true,
			Date: DateBirth, Placeholder: "1990-01-01"},
		{Name: "fechaExpedicionDocumento", Label: "Expedición Documento", Type: TypeDate, Required: true,
			Date: DateNotFuture, Placeholder: "2010-01-01"},
		{Name: "ciudadNegocio", Label: "Ciudad", Type: TypeString, Required: true},
		{Name: "direccionNegocio", Label: "Dirección", Type: TypeString, Required: true},
		{Name: "celularNegocio", Label: "Celular", Type: TypeString, Required: true},
		{Name: "referencia", Label: "Referencia", Type: TypeInteger},
	},
	nil,
	[]Section{
		{Title: "INFORMACIÓN PERSONAL", Fields: []string{
			"nombreCompleto", "tipoDocumento", "numeroDocumento", "fechaNacimiento",
			"fechaExpedicionDocumento", "email", "referencia",
		}},
		{Title: "INFORMACIÓN DEL NEGOCIO", Fields: []string{"ciudadNegocio", "direccionNegocio", "celularNegocio"}},
		{Title: "AUTORIZACIONES", Fields: []string{"autorizacionTratamientoDatos", "autorizacionContacto"}},
	},
))
