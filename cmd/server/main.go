// Package main is the entry point for the Clinova API server.
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

	"clinova/internal/domain/activity"
	"clinova/internal/domain/auth"
	"clinova/internal/domain/catalogs/doctemplate"
	"clinova/internal/domain/documents/facture"
	"clinova/internal/domain/registers/stock"
	v1 "clinova/internal/infrastructure/http/v1"
	"clinova/internal/infrastructure/storage/postgres"
	"clinova/internal/infrastructure/storage/postgres/auth_repo"
	"clinova/internal/infrastructure/storage/postgres/catalog_repo"
	"clinova/internal/infrastructure/storage/postgres/document_repo"
	"clinova/internal/infrastructure/storage/postgres/register_repo"
	"clinova/pkg/logger"
	"clinova/pkg/numerator"
)

func main() {
	// Load .env if present; real deployments set env directly
	_ = godotenv.Load()

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting clinova server")

	// --- Database connection ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalw("failed to ping database", "error", err)
	}
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Numerator Service ---
	numeratorService := numerator.New(pool)

	// --- JWT Service ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtConfig := auth.DefaultJWTConfig(jwtSecret)
	jwtService := auth.NewJWTService(jwtConfig)

	// --- Auth Service ---
	userRepo := auth_repo.NewUserRepo(txManager)
	roleRepo := auth_repo.NewRoleRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)

	authConfig := auth.DefaultServiceConfig()
	authService := auth.NewService(
		userRepo,
		roleRepo,
		tokenRepo,
		txManager,
		jwtService,
		authConfig,
	)

	// --- Template Renderer ---
	renderer, err := doctemplate.NewRenderer()
	if err != nil {
		log.Fatalw("failed to initialize template renderer", "error", err)
	}

	// --- Audit Trail ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Activity Feed ---
	feed := activity.NewFeed(getEnvInt("ACTIVITY_FEED_CAPACITY", activity.DefaultCapacity))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:               pool,
		TxManager:          txManager,
		Logger:             log,
		JWTValidator:       jwtService,
		AuthService:        authService,
		Numerator:          numeratorService,
		Renderer:           renderer,
		Audit:              auditService,
		Feed:               feed,
		IdempotencyEnabled: getEnv("IDEMPOTENCY_ENABLED", "false") == "true",
	})

	// --- Overdue sweep ---
	// Sent invoices older than the grace period roll over to en_retard.
	startOverdueSweep(ctx, log, txManager, numeratorService, auditService)

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	cancel()

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// startOverdueSweep periodically marks sent invoices past the grace period
// as overdue. The sweep gets its own service wiring so that the HTTP layer
// stays independent of it.
func startOverdueSweep(
	ctx context.Context,
	log *logger.Logger,
	txManager *postgres.TxManager,
	num *numerator.Service,
	audit *postgres.AuditService,
) {
	gracePeriod := getEnvDuration("FACTURE_OVERDUE_AFTER", 30*24*time.Hour)
	interval := getEnvDuration("FACTURE_OVERDUE_SWEEP_INTERVAL", time.Hour)

	stockService := stock.NewService(
		register_repo.NewStockRepo(txManager),
		catalog_repo.NewProductRepo(txManager),
	)
	factureService := facture.NewService(
		document_repo.NewFactureRepo(txManager),
		stockService,
		num,
		txManager,
		audit,
	)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().UTC().Add(-gracePeriod)
				count, err := factureService.MarkOverdue(ctx, cutoff)
				if err != nil {
					log.Warnw("overdue sweep failed", "error", err)
					continue
				}
				if count > 0 {
					log.Infow("invoices marked overdue", "count", count)
				}
			}
		}
	}()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
