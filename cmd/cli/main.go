package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yourorg/dataexpress/internal/blob"
	"github.com/yourorg/dataexpress/internal/config"
	appdb "github.com/yourorg/dataexpress/internal/db"
	"github.com/yourorg/dataexpress/internal/pdf"
	"github.com/yourorg/dataexpress/internal/services"
	"github.com/yourorg/dataexpress/internal/store"
	"github.com/yourorg/dataexpress/internal/validation"
)

func main() {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== DataExpress CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Seed API (crear solicitudes de ejemplo)")
		fmt.Println("3) Generar PDF de ejemplo")
		fmt.Println("4) Verificar un PDF en disco")
		fmt.Println("5) Eliminar todas las solicitudes")
		fmt.Println("6) Exit")
		fmt.Print("Select option: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			doHealthCheck()
		case "2":
			doSeed()
		case "3":
			doSamplePDF()
		case "4":
			fmt.Print("Ruta del PDF: ")
			path, _ := reader.ReadString('\n')
			doVerifyPDF(strings.TrimSpace(path))
		case "5":
			fmt.Print("¿Seguro? Esto borra todas las solicitudes (escriba 'si'): ")
			confirm, _ := reader.ReadString('\n')
			if strings.TrimSpace(confirm) == "si" {
				doClear()
			}
		case "6":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func baseURL() string {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://127.0.0.1:3000"
	}
	return strings.TrimRight(base, "/")
}

func doHealthCheck() {
	resp, err := http.Get(baseURL() + "/health")
	if err != nil {
		fmt.Println("Health: ERROR:", err)
		return
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	fmt.Printf("Health status: %s (uptime %v s, env %v)\n", resp.Status, body["uptime"], body["environment"])
}

// doSeed envía formularios de ejemplo al endpoint público de creación
func doSeed() {
	cfg, err := config.Load()
	if err != nil {
		log.Println("Seed: config error:", err)
		return
	}
	url := baseURL() + cfg.BasePath() + "/solicitudes"
	client := &http.Client{Timeout: 60 * time.Second}

	for i, form := range sampleForms(cfg.SolicitudSchema) {
		raw, _ := json.Marshal(form)
		resp, err := client.Post(url, "application/json", bytes.NewReader(raw))
		if err != nil {
			fmt.Printf("Seed #%d: ERROR: %v\n", i+1, err)
			continue
		}
		var body struct {
			Data  map[string]interface{} `json:"data"`
			Error map[string]interface{} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			fmt.Printf("Seed #%d: %s %v\n", i+1, resp.Status, body.Error["message"])
			continue
		}
		fmt.Printf("Seed #%d: creada %v\n", i+1, body.Data["id"])
	}
}

func doSamplePDF() {
	cfg, err := config.Load()
	if err != nil {
		log.Println("PDF: config error:", err)
		return
	}
	schema, err := validation.Lookup(cfg.SolicitudSchema)
	if err != nil {
		log.Println("PDF:", err)
		return
	}
	validator := validation.New(schema, validation.WithLocation(cfg.Location()))
	data, issues := validator.Parse(sampleForms(schema.Name)[0])
	if len(issues) > 0 {
		fmt.Printf("PDF: formulario de ejemplo inválido: %+v\n", issues)
		return
	}

	var renderer pdf.Renderer = pdf.NewFPDFRenderer()
	if cfg.PDFRenderer == "chrome" {
		renderer = pdf.NewChromeRenderer(cfg.ChromePath)
	}
	gen := pdf.NewGenerator(renderer, cfg.CompanyName, cfg.Location(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	doc, err := gen.Generate(ctx, schema, data)
	if err != nil {
		fmt.Println("PDF: ERROR:", err)
		return
	}
	path, err := pdf.WriteDebugFile("./tmp", "solicitud_ejemplo.pdf", doc)
	if err != nil {
		fmt.Println("PDF: ERROR:", err)
		return
	}
	fmt.Printf("PDF OK: %s (%d páginas, %d bytes, renderer %s)\n", path, doc.Pages, doc.Size(), renderer.Name())
}

func doVerifyPDF(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Verify: ERROR:", err)
		return
	}
	pages, err := pdf.Verify(data)
	if err != nil {
		fmt.Println("Verify: PDF inválido:", err)
		return
	}
	fmt.Printf("Verify OK: %d páginas, %d bytes\n", pages, len(data))
}

// doClear borra directamente en Firestore; con el store en memoria no hay nada que borrar
func doClear() {
	cfg, err := config.Load()
	if err != nil {
		log.Println("Clear: config error:", err)
		return
	}
	if cfg.StoreDriver != "firestore" {
		fmt.Println("Clear: STORE_DRIVER no es firestore, nada que borrar")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := appdb.ConnectFirestore(ctx, cfg)
	if err != nil {
		log.Println("Clear: firestore error:", err)
		return
	}
	st := store.NewFirestoreStore(client)
	defer st.Close()

	blobs, err := blobStore(ctx, cfg)
	if err != nil {
		log.Println("Clear: storage error:", err)
		return
	}

	svc := services.NewSolicitudes(st, blobs, nil, nil, slog.Default())
	n, err := svc.DeleteAll(ctx)
	if err != nil {
		fmt.Println("Clear: ERROR:", err)
		return
	}
	fmt.Printf("Clear: %d solicitudes eliminadas\n", n)
}

// blobStore abre el mismo almacenamiento de PDFs que usa el servidor
func blobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	if cfg.BlobDriver == "firebase" {
		client, err := appdb.ConnectStorage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return blob.NewFirebaseStore(client, cfg.StorageBucket, slog.Default()), nil
	}
	return blob.NewLocalStore(cfg.LocalStorageDir, cfg.PublicBaseURL+"/files", slog.Default())
}

func sampleForms(schema string) []validation.Form {
	if schema == "credito" {
		return []validation.Form{{
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
			"ingresosMensuales": 4500000,
			"tiempoEmpleo":      "2a5",
			"montoSolicitado":   10000000,
			"plazoMeses":        "36",
			"proposito":         "Vivienda",
			"tieneDeudas":       "no",
			"refNombre1":        "Luisa Díaz",
			"refTelefono1":      "3001112233",
			"refRelacion1":      "Hermana",
			"refNombre2":        "Pedro Ruiz",
			"refTelefono2":      "3004445566",
			"refRelacion2":      "Amigo",
		}}
	}

	names := []struct{ nombre, doc, ciudad string }{
		{"Ana Pérez", "1020304050", "Bogotá"},
		{"Luis Gómez", "80123456", "Cali"},
		{"María Rodríguez", "52987654", "Barranquilla"},
	}
	forms := make([]validation.Form, 0, len(names))
	for i, n := range names {
		forms = append(forms, validation.Form{
			"email":                        fmt.Sprintf("cliente%d@example.com", i+1),
			"autorizacionTratamientoDatos": true,
			"autorizacionContacto":         i%2 == 0,
			"nombreCompleto":               n.nombre,
			"tipoDocumento":                "CC",
			"numeroDocumento":              n.doc,
			"fechaNacimiento":              "1990-05-12",
			"fechaExpedicionDocumento":     "2008-06-01",
			"ciudadNegocio":                n.ciudad,
			"direccionNegocio":             fmt.Sprintf("Calle %d # 20-30", 10+i),
			"celularNegocio":               fmt.Sprintf("300123456%d", i),
			"referencia":                   12345 + i,
		})
	}
	return forms
}
