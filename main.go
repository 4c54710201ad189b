package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/campus-registry/registry-engine/pkg/audit"
	"github.com/campus-registry/registry-engine/pkg/auth"
	"github.com/campus-registry/registry-engine/pkg/config"
	"github.com/campus-registry/registry-engine/pkg/crypto"
	"github.com/campus-registry/registry-engine/pkg/database"
	"github.com/campus-registry/registry-engine/pkg/handlers"
	"github.com/campus-registry/registry-engine/pkg/llm"
	"github.com/campus-registry/registry-engine/pkg/logging"
	"github.com/campus-registry/registry-engine/pkg/middleware"
	"github.com/campus-registry/registry-engine/pkg/repositories"
	"github.com/campus-registry/registry-engine/pkg/retry"
	"github.com/campus-registry/registry-engine/pkg/services"
	sqlguard "github.com/campus-registry/registry-engine/pkg/sql"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	connString := cfg.Database.ConnectionString()
	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", logging.SanitizeConnectionString(connString)),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Bool("ai_enabled", cfg.AI.IsAvailable()))

	ctx := context.Background()
	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            connString,
			MaxConnections: cfg.Database.MaxConnections,
		})
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	migrationDB, err := sql.Open("pgx", connString)
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.String("error", logging.SanitizeError(err)))
	}
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.String("error", logging.SanitizeError(err)))
	}
	_ = migrationDB.Close()

	client, err := llm.NewFromConfig(&cfg.AI, logger)
	if err != nil {
		logger.Fatal("Failed to create AI client", zap.Error(err))
	}
	if client == nil {
		logger.Warn("AI assistant disabled, no API key configured")
	}

	// Repositories
	credentials := repositories.NewCredentialRepository(db)
	profiles := repositories.NewProfileRepository(db)
	students := repositories.NewStudentRepository(db)
	instructors := repositories.NewInstructorRepository(db)
	courses := repositories.NewCourseRepository(db)
	sections := repositories.NewSectionRepository(db)
	enrollments := repositories.NewEnrollmentRepository(db)
	reference := repositories.NewReferenceRepository(db)

	// Query pipeline
	rules := sqlguard.DefaultRuleSet()
	introspector := database.NewIntrospector(db, rules.SensitiveTables, logger)
	executor := database.NewReadOnlyExecutor(db)
	rowFilter := services.NewRowFilter(
		services.DefaultOwnershipRegistry(),
		services.NewStoreOwnerClassifier(instructors))
	auditor := audit.NewSecurityAuditor(logger)

	// Services
	askService := services.NewAskService(
		client, introspector, executor,
		sqlguard.NewGuard(), sqlguard.NewPolicyFilter(rules),
		rowFilter, auditor, logger)
	var piiEncryptor *crypto.PIIEncryptor
	if cfg.EncryptionKey != "" {
		piiEncryptor, err = crypto.NewPIIEncryptor(cfg.EncryptionKey)
		if err != nil {
			logger.Fatal("Failed to create PII encryptor", zap.Error(err))
		}
	} else {
		logger.Warn("ENCRYPTION_KEY not set, PII stored unencrypted")
	}

	authService := services.NewAuthService(credentials, logger)
	registrationService := services.NewRegistrationService(credentials, profiles, students, instructors, piiEncryptor, logger)
	enrollmentService := services.NewEnrollmentService(enrollments, sections, courses, logger)
	catalogService := services.NewCatalogService(courses, sections, students, instructors, reference, logger)

	sessions := auth.NewSessionStore(cfg.SessionKey)
	mw := auth.NewMiddleware(sessions, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAskHandler(askService, logger).RegisterRoutes(mux, mw)
	handlers.NewAuthHandler(authService, sessions, logger).RegisterRoutes(mux, mw)
	handlers.NewUsersHandler(registrationService, logger).RegisterRoutes(mux, mw)
	handlers.NewCatalogHandler(catalogService, logger).RegisterRoutes(mux, mw)
	handlers.NewEnrollmentHandler(enrollmentService, catalogService, logger).RegisterRoutes(mux, mw)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting registry-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
