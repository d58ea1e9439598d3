package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ============================================================================
// CONFIGURACIÓN DE LA API
// ============================================================================
// Todo se lee desde variables de entorno (opcionalmente desde .env).
// Los valores por defecto permiten levantar el servidor en local con
// almacenamiento en memoria y el proveedor de identidad local.

const devJWTSecret = "dev-secret-change-me-dev-secret-change-me"

// RateRule define una ventana fija: máximo Max peticiones cada Window
type RateRule struct {
	Max    int
	Window time.Duration
}

// Enabled reporta si la regla aplica (Max > 0)
func (r RateRule) Enabled() bool {
	return r.Max > 0 && r.Window > 0
}

// Config agrupa todos los parámetros del servidor
type Config struct {
	Port            string
	Env             string
	APIVersion      string
	APIPrefix       string
	LogLevel        string
	SolicitudSchema string
	CompanyName     string
	Timezone        string
	CORSOrigins     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// Firebase / GCP
	FirebaseProjectID string
	StorageBucket     string
	CredentialsFile   string

	// Colaboradores intercambiables
	StoreDriver     string // firestore | memory
	BlobDriver      string // firebase | local | memory
	AuthProvider    string // firebase | local
	PDFRenderer     string // fpdf | chrome
	ChromePath      string
	LocalStorageDir string
	PublicBaseURL   string

	// Proveedor local
	JWTSecret string
	JWTTTL    time.Duration

	// Rate limiting
	SolicitudRate RateRule
	LoginRate     RateRule
	RegisterRate  RateRule
	GlobalRate    RateRule
	DebugLogRate  RateRule
	RateSweep     time.Duration
	RedisURL      string

	DebugDashboard bool
}

// Load lee la configuración del entorno
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getenv("PORT", "3000"),
		Env:             getenv("NODE_ENV", "development"),
		APIVersion:      getenv("API_VERSION", "v2"),
		APIPrefix:       getenv("API_PREFIX", "/api"),
		LogLevel:        strings.ToLower(getenv("LOG_LEVEL", "info")),
		CompanyName:     getenv("PDF_COMPANY_NAME", "Bancamia DataExpress"),
		Timezone:        getenv("TIMEZONE", "America/Bogota"),
		CORSOrigins:     getenv("CORS_ORIGINS", "*"),
		RequestTimeout:  getenvDuration("REQUEST_TIMEOUT", 50*time.Second),
		ShutdownTimeout: getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		FirebaseProjectID: getenv("FIREBASE_PROJECT_ID", ""),
		StorageBucket:     getenv("FIREBASE_STORAGE_BUCKET", ""),
		CredentialsFile:   getenv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		StoreDriver:     strings.ToLower(getenv("STORE_DRIVER", "")),
		BlobDriver:      strings.ToLower(getenv("BLOB_DRIVER", "")),
		AuthProvider:    strings.ToLower(getenv("AUTH_PROVIDER", "")),
		PDFRenderer:     strings.ToLower(getenv("PDF_RENDERER", "fpdf")),
		ChromePath:      getenv("CHROME_PATH", ""),
		LocalStorageDir: getenv("LOCAL_STORAGE_DIR", "./storage"),

		JWTSecret: getenv("JWT_SECRET", ""),
		JWTTTL:    getenvDuration("JWT_TTL", 24*time.Hour),

		SolicitudRate: RateRule{
			Max:    getenvInt("RATE_LIMIT_SOLICITUD_MAX", 5),
			Window: getenvDuration("RATE_LIMIT_SOLICITUD_WINDOW", time.Minute),
		},
		LoginRate: RateRule{
			Max:    getenvInt("RATE_LIMIT_LOGIN_MAX", 5),
			Window: getenvDuration("RATE_LIMIT_LOGIN_WINDOW", time.Minute),
		},
		RegisterRate: RateRule{
			Max:    getenvInt("RATE_LIMIT_REGISTER_MAX", 20),
			Window: getenvDuration("RATE_LIMIT_REGISTER_WINDOW", time.Hour),
		},
		GlobalRate: RateRule{
			Max:    getenvInt("RATE_LIMIT_GLOBAL_MAX", 1000),
			Window: getenvDuration("RATE_LIMIT_GLOBAL_WINDOW", time.Minute),
		},
		DebugLogRate: RateRule{
			Max:    getenvInt("RATE_LIMIT_DEBUG_LOG_MAX", 60),
			Window: getenvDuration("RATE_LIMIT_DEBUG_LOG_WINDOW", time.Minute),
		},
		RateSweep: getenvDuration("RATE_LIMIT_SWEEP", 5*time.Minute),
		RedisURL:  getenv("REDIS_URL", ""),

		DebugDashboard: getenvBool("DEBUG_DASHBOARD", false),
	}

	cfg.SolicitudSchema = strings.ToLower(getenv("SOLICITUD_SCHEMA", SchemaForVersion(cfg.APIVersion)))
	cfg.PublicBaseURL = strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:"+cfg.Port), "/")

	// Sin proyecto Firebase se trabaja 100% local
	hasFirebase := cfg.FirebaseProjectID != ""
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = pick(hasFirebase, "firestore", "memory")
	}
	if cfg.BlobDriver == "" {
		cfg.BlobDriver = pick(hasFirebase && cfg.StorageBucket != "", "firebase", "local")
	}
	if cfg.AuthProvider == "" {
		cfg.AuthProvider = pick(hasFirebase, "firebase", "local")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AuthProvider == "local" {
		if c.JWTSecret == "" {
			if c.IsProduction() {
				return fmt.Errorf("JWT_SECRET es obligatorio con AUTH_PROVIDER=local en producción")
			}
			log.Println("⚠️ WARNING: usando JWT secret por defecto (solo desarrollo)")
			c.JWTSecret = devJWTSecret
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET debe tener al menos 32 caracteres (actual: %d)", len(c.JWTSecret))
		}
	}
	if (c.StoreDriver == "firestore" || c.AuthProvider == "firebase") && c.FirebaseProjectID == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID es obligatorio para STORE_DRIVER=firestore o AUTH_PROVIDER=firebase")
	}
	if c.BlobDriver == "firebase" && c.StorageBucket == "" {
		return fmt.Errorf("FIREBASE_STORAGE_BUCKET es obligatorio para BLOB_DRIVER=firebase")
	}
	switch c.PDFRenderer {
	case "fpdf", "chrome":
	default:
		return fmt.Errorf("PDF_RENDERER inválido: %q", c.PDFRenderer)
	}
	return nil
}

// IsProduction reporta si NODE_ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// IsDevelopment reporta si NODE_ENV=development
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// BasePath retorna el prefijo versionado, ej: /api/v2
func (c *Config) BasePath() string {
	return strings.TrimRight(c.APIPrefix, "/") + "/" + c.APIVersion
}

// Location retorna la zona horaria configurada (UTC si no se puede cargar)
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("⚠️  Zona horaria %q no disponible, usando UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}

// SchemaForVersion mapea la versión de la API al esquema del formulario
func SchemaForVersion(version string) string {
	if version == "v1" {
		return "credito"
	}
	return "negocio"
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := getenv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := getenv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("invalid %s=%q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
