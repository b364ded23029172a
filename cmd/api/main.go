package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/patient-api/internal/config"
	"github.com/jwalitptl/patient-api/internal/handler"
	audithandler "github.com/jwalitptl/patient-api/internal/handler/audit"
	authhandler "github.com/jwalitptl/patient-api/internal/handler/auth"
	exporthandler "github.com/jwalitptl/patient-api/internal/handler/export"
	patienthandler "github.com/jwalitptl/patient-api/internal/handler/patient"
	"github.com/jwalitptl/patient-api/internal/middleware"
	"github.com/jwalitptl/patient-api/internal/repository/postgres"
	"github.com/jwalitptl/patient-api/internal/router"
	accessservice "github.com/jwalitptl/patient-api/internal/service/access"
	auditservice "github.com/jwalitptl/patient-api/internal/service/audit"
	authservice "github.com/jwalitptl/patient-api/internal/service/auth"
	exportservice "github.com/jwalitptl/patient-api/internal/service/export"
	medicalservice "github.com/jwalitptl/patient-api/internal/service/medical"
	notifierservice "github.com/jwalitptl/patient-api/internal/service/notifier"
	patientservice "github.com/jwalitptl/patient-api/internal/service/patient"
	"github.com/jwalitptl/patient-api/pkg/auth"
	"github.com/jwalitptl/patient-api/pkg/logger"
	redismsg "github.com/jwalitptl/patient-api/pkg/messaging/redis"
	"github.com/jwalitptl/patient-api/pkg/metrics"
	"github.com/jwalitptl/patient-api/pkg/security"
	"github.com/jwalitptl/patient-api/pkg/validator"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:  logLevel(cfg.Logger.Level),
		Pretty: cfg.Logger.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database schema")
	}

	appMetrics := metrics.NewMetrics("patient_api")

	broker, err := redismsg.NewRedisBroker(redismsg.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.ZL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	// Repositories
	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	medicalRepo := postgres.NewMedicalRecordRepository(base)
	auditRepo := postgres.NewAuditRepository(base)

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	revocations := auth.NewRevocationStore(cfg.JWT.Expiry())
	hasher := security.NewBcryptHasher(0)
	v := validator.New()

	auditSvc := auditservice.NewService(auditRepo, appLogger, appMetrics)
	notifierSvc := notifierservice.NewService(broker, cfg.Notifier.Channel, cfg.Notifier.QueueSize, appLogger, appMetrics)
	authSvc := authservice.NewService(userRepo, hasher, jwtSvc, revocations, v, cfg.Auth.MinPasswordLength)
	accessSvc := accessservice.NewService(userRepo)
	patientSvc := patientservice.NewService(patientRepo, auditSvc, notifierSvc)
	medicalSvc := medicalservice.NewService(medicalRepo, patientRepo, auditSvc, notifierSvc)
	exportSvc := exportservice.NewService(patientRepo, medicalRepo)

	notifierCtx, stopNotifier := context.WithCancel(context.Background())
	defer stopNotifier()
	notifierSvc.Start(notifierCtx)

	// HTTP layer
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, revocations, accessSvc)

	h := handler.NewHandler(db)
	authHandler := authhandler.NewHandler(authSvc)
	patientHandler := patienthandler.NewHandler(patientSvc, medicalSvc)
	auditHandler := audithandler.NewHandler(auditSvc)
	exportHandler := exporthandler.NewHandler(exportSvc)

	r := router.NewRouter(
		authMiddleware,
		authHandler,
		patientHandler,
		auditHandler,
		exportHandler,
		h,
		router.RouterConfig{
			RateLimit:     rate.Limit(cfg.Server.RateLimit),
			RateBurst:     cfg.Server.RateBurst,
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "patient_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	// Drain queued notifications before exit.
	notifierSvc.Stop()

	log.Info().Msg("server exited properly")
}

func logLevel(level string) logger.Level {
	switch level {
	case "debug":
		return logger.DebugLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}
