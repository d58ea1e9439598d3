package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourorg/dataexpress/internal/blob"
	"github.com/yourorg/dataexpress/internal/config"
	appdb "github.com/yourorg/dataexpress/internal/db"
	"github.com/yourorg/dataexpress/internal/debug"
	"github.com/yourorg/dataexpress/internal/identity"
	"github.com/yourorg/dataexpress/internal/pdf"
	"github.com/yourorg/dataexpress/internal/ratelimit"
	"github.com/yourorg/dataexpress/internal/routes"
	"github.com/yourorg/dataexpress/internal/store"
	"github.com/yourorg/dataexpress/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuración inválida: %v", err)
	}

	var hub *debug.Hub
	if cfg.DebugDashboard {
		hub = debug.NewHub()
		go hub.Run()
	}
	logger := debug.NewLogger(os.Stdout, cfg.LogLevel, cfg.IsProduction(), hub)
	slog.SetDefault(logger)

	ctx := context.Background()

	// ============================================================================
	// COLABORADORES
	// ============================================================================
	backends, err := connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("no se pudieron inicializar los servicios", "error", err)
		os.Exit(1)
	}

	schema, err := validation.Lookup(cfg.SolicitudSchema)
	if err != nil {
		logger.Error("esquema de solicitud inválido", "schema", cfg.SolicitudSchema, "error", err)
		os.Exit(1)
	}
	loc := cfg.Location()
	validator := validation.New(schema, validation.WithLocation(loc))

	var renderer pdf.Renderer = pdf.NewFPDFRenderer()
	if cfg.PDFRenderer == "chrome" {
		renderer = pdf.NewChromeRenderer(cfg.ChromePath)
	}
	generator := pdf.NewGenerator(renderer, cfg.CompanyName, loc, logger)

	limiter := ratelimit.New(cfg.RateSweep)
	limiter.Start()

	var stats *ratelimit.RedisStats
	if cfg.RedisURL != "" {
		stats, err = ratelimit.NewRedisStats(cfg.RedisURL)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err = stats.Ping(pingCtx)
			cancel()
		}
		if err != nil {
			// las estadísticas son opcionales: el servidor sigue sin ellas
			logger.Warn("redis no disponible, estadísticas de rate limit deshabilitadas", "error", err)
			stats = nil
		}
	}

	app := routes.NewApp(&routes.Deps{
		Config:    cfg,
		Logger:    logger,
		Store:     backends.store,
		Blobs:     backends.blobs,
		Identity:  backends.identity,
		Generator: generator,
		Validator: validator,
		Limiter:   limiter,
		Stats:     stats,
		Hub:       hub,
		AccessLog: accessLog(cfg),
	})

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("señal de terminación recibida, cerrando servidor", "signal", sig.String())

		// si el cierre ordenado se cuelga se fuerza la salida
		forced := time.AfterFunc(cfg.ShutdownTimeout+5*time.Second, func() {
			logger.Error("cierre forzado: el servidor no terminó a tiempo")
			os.Exit(1)
		})
		defer forced.Stop()

		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			logger.Warn("error cerrando servidor", "error", err)
		}
	}()

	logger.Info("🚀 servidor escuchando",
		"port", cfg.Port,
		"env", cfg.Env,
		"basePath", cfg.BasePath(),
		"schema", schema.Name,
		"store", cfg.StoreDriver,
		"blobs", cfg.BlobDriver,
		"auth", cfg.AuthProvider,
		"pdf", renderer.Name(),
	)

	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("el servidor terminó con error", "error", err)
	}

	limiter.Stop()
	if stats != nil {
		_ = stats.Close()
	}
	if err := backends.store.Close(); err != nil {
		logger.Warn("error cerrando el store", "error", err)
	}
	if backends.closeBlobs != nil {
		_ = backends.closeBlobs()
	}
	hub.Close()
	logger.Info("✅ servidor cerrado correctamente")
}

// backends son los colaboradores que dependen del driver configurado
type backends struct {
	store      store.Store
	blobs      blob.Store
	identity   identity.Provider
	closeBlobs func() error
}

func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backends, error) {
	b := &backends{}

	needsFirebase := cfg.StoreDriver == "firestore" || cfg.AuthProvider == "firebase" || cfg.BlobDriver == "firebase"
	if needsFirebase {
		app, err := appdb.NewFirebaseApp(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("firebase: %w", err)
		}

		if cfg.AuthProvider == "firebase" {
			client, err := appdb.ConnectAuth(ctx, app)
			if err != nil {
				return nil, fmt.Errorf("firebase auth: %w", err)
			}
			b.identity = identity.NewFirebase(client)
		}
	}

	// ────────────────────────────────────────────────────────────────────────
	// DOCUMENT STORE
	// ────────────────────────────────────────────────────────────────────────
	switch cfg.StoreDriver {
	case "firestore":
		client, err := appdb.ConnectFirestore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("firestore: %w", err)
		}
		b.store = store.NewFirestoreStore(client)
	case "memory":
		logger.Warn("usando store en memoria: los datos se pierden al reiniciar")
		b.store = store.NewMemoryStore()
	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.StoreDriver)
	}

	// ────────────────────────────────────────────────────────────────────────
	// BLOB STORE
	// ────────────────────────────────────────────────────────────────────────
	switch cfg.BlobDriver {
	case "firebase":
		client, err := appdb.ConnectStorage(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("cloud storage: %w", err)
		}
		b.blobs = blob.NewFirebaseStore(client, cfg.StorageBucket, logger)
		b.closeBlobs = client.Close
	case "local":
		local, err := blob.NewLocalStore(cfg.LocalStorageDir, cfg.PublicBaseURL+"/files", logger)
		if err != nil {
			return nil, fmt.Errorf("almacenamiento local: %w", err)
		}
		b.blobs = local
	case "memory":
		b.blobs = blob.NewMemoryStore(cfg.PublicBaseURL + "/files")
	default:
		return nil, fmt.Errorf("BLOB_DRIVER desconocido: %q", cfg.BlobDriver)
	}

	// ────────────────────────────────────────────────────────────────────────
	// IDENTIDAD
	// ────────────────────────────────────────────────────────────────────────
	switch cfg.AuthProvider {
	case "firebase":
		// ya construido arriba
	case "local":
		logger.Warn("usando proveedor de identidad local (JWT HS256)")
		b.identity = identity.NewLocal(cfg.JWTSecret, cfg.JWTTTL)
	default:
		return nil, fmt.Errorf("AUTH_PROVIDER desconocido: %q", cfg.AuthProvider)
	}

	return b, nil
}

// accessLog habilita el log de acceso de Fiber solo fuera de producción
func accessLog(cfg *config.Config) io.Writer {
	if cfg.IsProduction() {
		return nil
	}
	return os.Stdout
}
