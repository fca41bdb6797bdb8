package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"

	"rentalapi/internal/auth"
	"rentalapi/internal/config"
	"rentalapi/internal/database"
	"rentalapi/internal/database/migration"
	handlers "rentalapi/internal/http/handler"
	"rentalapi/internal/http/middleware"
	"rentalapi/internal/logger"
	appotel "rentalapi/internal/otel"
	"rentalapi/internal/repository/postgres"
	"rentalapi/internal/service"
	"rentalapi/internal/storage"
	"rentalapi/internal/upload"
)

// @title Rental API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(logger.Config{Env: cfg.Log.Env, Level: cfg.Log.Level})

	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := appotel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	files, err := newFileStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	spool, err := upload.NewSpooler(afero.NewOsFs(), cfg.Storage.TempDir, cfg.Storage.MaxUploadBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upload spool")
	}

	verifier, issuer := newTokens(cfg.Auth, log)

	// Initialize repositories and services
	payments := postgres.NewPaymentPostgres(db)
	contracts := postgres.NewContractPostgres(db)
	users := postgres.NewUserPostgres(db)

	deps := handlers.Dependencies{
		DB: db,
		Payments: service.NewPaymentService(service.PaymentDeps{
			Payments:      payments,
			Contracts:     contracts,
			Files:         files,
			Spool:         spool,
			Log:           log,
			PurgeOnDelete: cfg.Storage.PurgeOnDelete,
			SignedURLTTL:  time.Duration(cfg.Storage.SignedURLTTLSec) * time.Second,
		}),
		Contracts:     service.NewContractService(contracts),
		Reports:       service.NewReportService(postgres.NewReportPostgres(db), payments, contracts),
		Tenants:       service.NewTenantService(postgres.NewTenantPostgres(db)),
		Apartments:    service.NewApartmentService(postgres.NewApartmentPostgres(db)),
		PaymentStates: service.NewPaymentStateService(postgres.NewPaymentStatePostgres(db)),
		PaymentTypes:  service.NewPaymentTypeService(postgres.NewPaymentTypePostgres(db)),
		Users:         service.NewUserService(users),
		Auth:          service.NewAuthService(users, issuer),
		Spool:         spool,
		Verifier:      verifier,
		RequireAuth:   cfg.Auth.Required,
	}
	if files.Active() == storage.ProviderLocal {
		deps.Uploads = afero.NewBasePathFs(afero.NewOsFs(), cfg.Storage.UploadsDir)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}
	deps.Metrics = reg

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
		// Two files at the ceiling plus form fields; the spooler enforces
		// the per-file limit.
		BodyLimit:             int(2*cfg.Storage.MaxUploadBytes) + 1<<20,
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(recover.New())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Tracing(appotel.DefaultServiceName, middleware.MetricsPath, "/healthz"))
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())
	app.Use(middleware.CORS(cfg.HTTP.AllowedOrigins))
	app.Use(middleware.Maintenance(cfg.HTTP.Maintenance, "/api/health", "/healthz", middleware.MetricsPath))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, deps)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().
		Str("addr", addr).
		Str("storage_provider", files.Active()).
		Bool("auth_required", cfg.Auth.Required).
		Bool("maintenance", cfg.HTTP.Maintenance).
		Msg("server starting")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
}

// newFileStore builds the local disk backend and, when configured, the
// S3-compatible one, then selects the active provider.
func newFileStore(cfg *config.AppConfig, log zerolog.Logger) (*storage.Provider, error) {
	local, err := storage.NewLocal(afero.NewOsFs(), cfg.Storage.UploadsDir, "uploads")
	if err != nil {
		return nil, err
	}
	var remote storage.Storage
	if cfg.MinIO.Enabled() {
		if remote, err = storage.NewMinIO(cfg.MinIO); err != nil {
			return nil, err
		}
	} else if cfg.Storage.Provider == config.ProviderSupabase {
		log.Warn().Msg("STORAGE_PROVIDER=supabase but object storage credentials are missing")
	}
	return storage.NewProvider(cfg.Storage.Provider, local, remote)
}

// newTokens returns nil values when no secret is configured; protected
// routes then reject every request.
func newTokens(cfg config.AuthConfig, log zerolog.Logger) (auth.Verifier, auth.Issuer) {
	if cfg.Secret == "" {
		if cfg.Required {
			log.Fatal().Msg("AUTH_REQUIRED is set but JWT_SECRET is empty")
		}
		log.Warn().Msg("JWT_SECRET is empty; login and /api/users are disabled")
		return nil, nil
	}
	tokens, err := auth.NewJWT(cfg.Secret, cfg.Issuer, time.Duration(cfg.ExpirationMinutes)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token issuer")
	}
	return tokens, tokens
}
