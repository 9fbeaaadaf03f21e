package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/enrollment/internal/app/auth"
	appControllers "github.com/yigit/enrollment/internal/app/controllers"
	appMigrations "github.com/yigit/enrollment/internal/app/migrations"
	appRepos "github.com/yigit/enrollment/internal/app/repositories"
	appRoutes "github.com/yigit/enrollment/internal/app/routes"
	appServices "github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/app/store"
	"github.com/yigit/enrollment/internal/config"
	"github.com/yigit/enrollment/internal/db"
	appMiddleware "github.com/yigit/enrollment/internal/middleware"
	pkgAuth "github.com/yigit/enrollment/internal/pkg/auth"
	"github.com/yigit/enrollment/internal/pkg/filestorage"
	"github.com/yigit/enrollment/internal/pkg/helpers"
	"github.com/yigit/enrollment/internal/pkg/logger"
	"github.com/yigit/enrollment/internal/pkg/metrics"
	"github.com/yigit/enrollment/internal/pkg/netcash"
	"github.com/yigit/enrollment/internal/pkg/replay"
)

// maxMultipartMemory leaves headroom over the 10MB upload limit for form fields
const maxMultipartMemory = 12 << 20

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store       store.Store
	Repos       *appRepos.Repositories
	FileStorage filestorage.FileStorage
	Metrics     *metrics.Metrics
	JWTService  *pkgAuth.JWTService
	Guard       *appAuth.OwnershipGuard

	EnrollmentService appServices.EnrollmentService
	AcademicService   appServices.AcademicService
	DocumentService   appServices.DocumentService
	FinancingService  *appServices.FinancingService
	RiskService       *appServices.RiskService
	PaymentService    *appServices.PaymentService

	Controllers    *appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware

	// Redis is nil when no replay store is configured
	Redis  *redis.Client
	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the record store selected by database.driver. The returned
// *db.PostgresDB is nil for the memory driver.
func SetupStore(cfg *config.Config, lgr zerolog.Logger) (store.Store, *db.PostgresDB, error) {
	if cfg.Database.Driver == "memory" {
		lgr.Warn().Msg("Using in-memory record store; data is lost on restart")
		return store.NewMemoryStore(), nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return store.NewPostgresStore(database), database, nil
}

// setupFileStorage creates the document store selected by storage.driver
func setupFileStorage(cfg *config.Config) (filestorage.FileStorage, error) {
	if cfg.Storage.Driver == "s3" {
		s3cfg := cfg.Storage.S3
		return filestorage.NewS3Storage(filestorage.S3Config{
			Endpoint:      s3cfg.Endpoint,
			Region:        s3cfg.Region,
			Bucket:        s3cfg.Bucket,
			AccessKey:     s3cfg.AccessKey,
			SecretKey:     s3cfg.SecretKey,
			UseSSL:        s3cfg.UseSSL,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		})
	}
	return filestorage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.PublicBaseURL)
}

// setupReplayGuard connects to Redis when configured. An unreachable Redis
// disables duplicate detection instead of failing startup.
func setupReplayGuard(cfg *config.Config, lgr zerolog.Logger) (replay.Guard, *redis.Client) {
	if cfg.Redis.Addr == "" {
		return replay.NoopGuard{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := replay.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, webhook replay detection disabled")
		return replay.NoopGuard{}, nil
	}

	ttl := helpers.ParseDuration(cfg.Redis.ReplayTTL, 24*time.Hour)
	lgr.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", ttl).Msg("Webhook replay detection enabled")
	return replay.NewRedisGuard(client, ttl), client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, recordStore store.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: recordStore, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(recordStore)

	var err error
	deps.FileStorage, err = setupFileStorage(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New()
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Auth.JWTSecret,
		TokenIssuer: cfg.Auth.Issuer,
		Audience:    cfg.Auth.Audience,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Guard = appAuth.NewOwnershipGuard(deps.Repos.ApplicationRepository)

	resolver := appServices.NewApplicationResolver(deps.Repos.ApplicationRepository)
	merger := appServices.NewSectionMerger(deps.Repos.SectionRepository)
	assembler := appServices.NewSubmissionAssembler(deps.Guard, merger, deps.Repos.ApplicationRepository, deps.Metrics)
	aggregator := appServices.NewDocumentAggregator(deps.Repos.DocumentRepository)

	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.Guard,
		resolver,
		merger,
		assembler,
		aggregator,
		deps.Repos.SectionRepository,
		deps.Metrics,
	)
	deps.AcademicService = appServices.NewAcademicService(deps.Guard, deps.Repos.AcademicRepository)
	deps.FinancingService = appServices.NewFinancingService(deps.Guard, deps.Repos.FinancingRepository, deps.Repos.SectionRepository)
	deps.DocumentService = appServices.NewDocumentService(
		deps.Guard,
		deps.Repos.ApplicationRepository,
		deps.Repos.DocumentRepository,
		aggregator,
		deps.FileStorage,
		deps.Metrics,
	)

	// Left as nil interfaces when unconfigured so the services take their fallback paths
	var reporter appServices.RiskReporter
	if cfg.RiskConfigured() {
		timeout := helpers.ParseDuration(cfg.Risk.Timeout, 30*time.Second)
		reporter = netcash.NewRiskClient(cfg.Risk.BaseURL, cfg.Risk.ServiceKey, timeout)
	} else {
		lgr.Warn().Msg("Risk provider not configured, risk checks use the local fallback score")
	}
	deps.RiskService = appServices.NewRiskService(deps.Guard, deps.Repos.RiskReportRepository, reporter, deps.Metrics)

	var gateway appServices.PaymentGateway
	if cfg.PaymentConfigured() {
		timeout := helpers.ParseDuration(cfg.Payment.Timeout, 10*time.Second)
		gateway = netcash.NewPayNowClient(netcash.PayNowConfig{
			BaseURL:    cfg.Payment.BaseURL,
			ServiceKey: cfg.Payment.ServiceKey,
			Currency:   cfg.Payment.Currency,
			ReturnURL:  cfg.Payment.ReturnURL,
			NotifyURL:  cfg.Payment.NotifyURL,
			Timeout:    timeout,
		})
	} else {
		lgr.Warn().Msg("Payment gateway not configured, payment creation is disabled")
	}
	if cfg.Payment.WebhookSecret == "" {
		lgr.Warn().Msg("Webhook secret not set, all payment notifications will be rejected")
	}

	var replayGuard replay.Guard
	replayGuard, deps.Redis = setupReplayGuard(cfg, lgr)
	deps.PaymentService = appServices.NewPaymentService(
		deps.Guard,
		deps.Repos.PaymentRepository,
		gateway,
		replayGuard,
		cfg.Payment.WebhookSecret,
		deps.Metrics,
	)

	deps.Controllers = &appRoutes.Controllers{
		Enrollment: appControllers.NewEnrollmentController(deps.EnrollmentService),
		Academic:   appControllers.NewAcademicController(deps.AcademicService),
		Documents:  appControllers.NewDocumentController(deps.DocumentService),
		Financing:  appControllers.NewFinancingController(deps.FinancingService),
		Risk:       appControllers.NewRiskController(deps.RiskService),
		Payments:   appControllers.NewPaymentController(deps.PaymentService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.CORS(cfg.Server.AllowedOrigins))

	if deps.Metrics != nil {
		router.Use(appMiddleware.Metrics(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	if local, ok := deps.FileStorage.(*filestorage.LocalStorage); ok {
		router.Static("/uploads", local.BasePath())
		lgr.Info().Str("path", local.BasePath()).Msg("Static file serving configured for uploads directory")
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
