package main

// @title           Union Voting Service API
// @version         1.0
// @description     Voting sessions with a tamper-evident audit ledger and pseudonymous vote verification
// @host            localhost:8080
// @BasePath        /api/v1
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "voting-service/docs"
	"voting-service/internal/api/routes"
	"voting-service/internal/config"
	"voting-service/internal/database"
	"voting-service/internal/ledger"
	"voting-service/internal/models"
	"voting-service/internal/repositories/postgres"
	"voting-service/internal/services"
)

func main() {
	cfg := config.Load()

	slog.Info("Starting voting service")

	// Redis is optional: without it rate limiting degrades to passthrough.
	var redisService *services.RedisService
	redisClient, err := database.NewRedisConnection(cfg.Redis.URI)
	if err != nil {
		slog.Warn("Redis unavailable, rate limiting disabled", "error", err)
	} else {
		defer redisClient.Close()
		redisService = services.NewRedisService(redisClient.GetClient())
	}

	alerts := services.NewKafkaAlertPublisher(cfg.Kafka.Brokers, cfg.Kafka.AlertTopic)
	defer alerts.Close()

	db, err := database.NewPostgresConnection(cfg.Database.URI, func(table, operation string) {
		alerts.PublishIntegrityAlert(context.Background(), models.IntegrityAlert{
			Kind:       models.AlertImmutableViolation,
			Detail:     fmt.Sprintf("rejected %s on %s", operation, table),
			DetectedAt: time.Now(),
		})
	})
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	var signer *ledger.Signer
	if cfg.Voting.SigningSeed != "" {
		signer, err = ledger.NewSigner(cfg.Voting.SigningSeed)
	} else {
		slog.Warn("No signing seed configured, using an ephemeral key")
		signer, err = ledger.NewEphemeralSigner()
	}
	if err != nil {
		slog.Error("Failed to initialize ledger signer", "error", err)
		os.Exit(1)
	}

	var archive *services.ArchiveService
	if cfg.Archive.Enabled {
		store, err := database.NewMinIOClient(cfg.Archive.Endpoint, cfg.Archive.AccessKey, cfg.Archive.SecretKey, cfg.Archive.Bucket)
		if err != nil {
			slog.Error("Failed to connect to the archive store", "error", err)
			os.Exit(1)
		}
		archive = services.NewArchiveService(store)
	}

	sessionRepo := postgres.NewSessionRepository(db)
	optionRepo := postgres.NewOptionRepository(db)
	eligibilityRepo := postgres.NewEligibilityRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	sessionService := services.NewSessionService(sessionRepo, optionRepo, eligibilityRepo, auditRepo, signer, archive)
	castingService := services.NewCastingService(sessionRepo, optionRepo, eligibilityRepo, voteRepo, signer)
	auditService := services.NewAuditService(sessionRepo, auditRepo, alerts)
	tabulationService := services.NewTabulationService(sessionRepo, optionRepo, voteRepo, auditService)
	verificationService := services.NewVerificationService(sessionRepo, optionRepo, voteRepo, auditRepo, auditService, signer, alerts)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Voting.SweepInterval > 0 {
		go sessionService.RunCloseSweep(sweepCtx, cfg.Voting.SweepInterval)
	}

	router := routes.NewRouter(
		sessionService,
		castingService,
		tabulationService,
		verificationService,
		auditService,
		redisService,
		cfg.JWT.Secret,
		cfg.Voting.VerifyRateLimit,
	)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopSweep()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
