package routes

import (
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/yourorg/dataexpress/internal/apperr"
	"github.com/yourorg/dataexpress/internal/blob"
	"github.com/yourorg/dataexpress/internal/config"
	"github.com/yourorg/dataexpress/internal/debug"
	"github.com/yourorg/dataexpress/internal/handlers"
	"github.com/yourorg/dataexpress/internal/identity"
	"github.com/yourorg/dataexpress/internal/middleware"
	"github.com/yourorg/dataexpress/internal/pdf"
	"github.com/yourorg/dataexpress/internal/ratelimit"
	"github.com/yourorg/dataexpress/internal/services"
	"github.com/yourorg/dataexpress/internal/store"
	"github.com/yourorg/dataexpress/internal/validation"
)

// Deps agrupa los colaboradores ya construidos. Stats, Hub y AccessLog son opcionales.
type Deps struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     store.Store
	Blobs     blob.Store
	Identity  identity.Provider
	Generator *pdf.Generator
	Validator *validation.Validator
	Limiter   *ratelimit.Limiter
	Stats     *ratelimit.RedisStats
	Hub       *debug.Hub
	AccessLog io.Writer
}

// NewApp construye la aplicación Fiber completa con middlewares y rutas
func NewApp(d *Deps) *fiber.App {
	cfg := d.Config

	app := fiber.New(fiber.Config{
		AppName:      "DataExpress " + cfg.APIVersion,
		ErrorHandler: apperr.Handler(d.Logger, cfg.IsDevelopment()),
		BodyLimit:    10 * 1024 * 1024,
		ReadTimeout:  cfg.RequestTimeout + 10*time.Second,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	if d.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Output: d.AccessLog,
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} ${path} | ${locals:requestid}\n",
		}))
	}
	app.Use(middleware.RequestLogger(d.Logger, d.Hub))
	app.Use(middleware.GlobalRateLimiter(cfg.GlobalRate))

	Register(app, d)
	return app
}

// Register monta todas las rutas
func Register(app *fiber.App, d *Deps) {
	cfg := d.Config

	solicitudesSvc := services.NewSolicitudes(d.Store, d.Blobs, d.Generator, d.Validator, d.Logger)
	usersSvc := services.NewUsers(d.Store, d.Identity, d.Logger)
	authSvc := services.NewAuth(d.Identity, usersSvc, d.Logger)

	healthHandler := handlers.NewHealthHandler(cfg, d.Store)
	solicitudesHandler := handlers.NewSolicitudesHandler(solicitudesSvc)
	authHandler := handlers.NewAuthHandler(authSvc)
	usersHandler := handlers.NewUsersHandler(usersSvc)
	statusHandler := handlers.NewStatusHandler(cfg, solicitudesSvc, usersSvc, d.Limiter, d.Stats, d.Hub)

	// un *RedisStats nil no debe llegar como interfaz no-nil
	var recorder ratelimit.StatsRecorder
	if d.Stats != nil {
		recorder = d.Stats
	}
	limit := func(rule config.RateRule) fiber.Handler {
		return middleware.RateLimit(d.Limiter, rule, recorder, d.Logger)
	}
	withTimeout := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, cfg.RequestTimeout)
	}

	authenticate := middleware.Authenticate(d.Identity)
	adminOnly := middleware.RequireRole(identity.RoleAdmin)

	// ============================================================================
	// PÚBLICO
	// ============================================================================
	app.Get("/health", healthHandler.Health)
	app.Get("/", healthHandler.Root)

	if cfg.BlobDriver == "local" {
		app.Static("/files", cfg.LocalStorageDir, fiber.Static{ByteRange: true})
	}

	api := app.Group(cfg.BasePath())
	api.Get("/", healthHandler.Endpoints)

	// ============================================================================
	// SOLICITUDES
	// ============================================================================
	api.Post("/solicitudes",
		middleware.OptionalAuth(d.Identity),
		limit(cfg.SolicitudRate),
		withTimeout(solicitudesHandler.Create),
	)
	api.Get("/solicitudes", authenticate, withTimeout(solicitudesHandler.List))
	api.Get("/solicitudes/:id", authenticate, withTimeout(solicitudesHandler.Get))
	api.Put("/solicitudes/:id", authenticate, withTimeout(solicitudesHandler.Update))
	api.Delete("/solicitudes/:id", authenticate, withTimeout(solicitudesHandler.Delete))

	// ============================================================================
	// AUTENTICACIÓN
	// ============================================================================
	authGroup := api.Group("/auth")
	authGroup.Post("/login", limit(cfg.LoginRate), withTimeout(authHandler.Login))
	authGroup.Post("/register", limit(cfg.RegisterRate), withTimeout(authHandler.Register))
	authGroup.Post("/verify", withTimeout(authHandler.Verify))
	authGroup.Post("/refresh", withTimeout(authHandler.Refresh))
	authGroup.Get("/me", authenticate, withTimeout(authHandler.Me))

	// ============================================================================
	// USUARIOS
	// ============================================================================
	users := api.Group("/users", authenticate)
	users.Get("/", adminOnly, withTimeout(usersHandler.List))
	users.Post("/", adminOnly, withTimeout(usersHandler.Create))
	users.Get("/me", withTimeout(usersHandler.Me))
	users.Get("/firebase/:uid", middleware.RequireOwnership("uid"), withTimeout(usersHandler.ByFirebaseUID))
	users.Get("/:id", withTimeout(usersHandler.Get))
	users.Put("/:id", withTimeout(usersHandler.Update))
	users.Delete("/:id", withTimeout(usersHandler.Delete))

	// ────────────────────────────────────────────────────────────────────────
	// ADMINISTRACIÓN Y DEBUG
	// ────────────────────────────────────────────────────────────────────────
	api.Get("/status", authenticate, adminOnly, statusHandler.GetStatus)

	if cfg.DebugDashboard && d.Hub != nil {
		debugHandler := handlers.NewDebugHandler(d.Hub, d.Identity)
		app.Get("/ws/debug", debugHandler.Upgrade, debugHandler.Stream())
		// los logs del frontend llegan al dashboard de admin: solo usuarios autenticados
		api.Post("/debug/log", authenticate, limit(cfg.DebugLogRate), debugHandler.ReceiveClientLog)
	}
}
