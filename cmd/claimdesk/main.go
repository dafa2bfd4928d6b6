package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpadapter "github.com/claimdesk/claimdesk/internal/adapter/http"
	"github.com/claimdesk/claimdesk/internal/adapter/persistence"
	"github.com/claimdesk/claimdesk/internal/adapter/storage"
	"github.com/claimdesk/claimdesk/internal/config"
	"github.com/claimdesk/claimdesk/internal/seed"
	"github.com/claimdesk/claimdesk/internal/service/password"
	"github.com/claimdesk/claimdesk/internal/service/ratelimit"
	"github.com/claimdesk/claimdesk/internal/service/token"
	"github.com/claimdesk/claimdesk/internal/usecase"
	"github.com/claimdesk/claimdesk/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	logger.WithField("env", cfg.Server.Environment).Info("application starting")

	db, err := sql.Open("postgres", cfg.GetDatabaseURL())
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxConnections / 2)
	db.SetConnMaxIdleTime(cfg.Database.MaxIdleTime)

	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.WithError(err).Fatal("failed to ping database")
	}
	logger.Info("database connection established")

	// Rate limiting degrades to a noop when disabled or Redis is down;
	// login still works, just without throttling.
	var limiter ratelimit.Service
	if cfg.Security.RateLimitEnabled {
		limiter, err = ratelimit.NewRedisService(cfg.GetRedisURL(), logger)
		if err != nil {
			logger.WithError(err).Warn("rate limiting unavailable, continuing without it")
			limiter = ratelimit.NewNoop()
		}
	} else {
		limiter = ratelimit.NewNoop()
	}

	claimRepo := persistence.NewPostgresClaimRepository(db)
	auditRepo := persistence.NewPostgresAuditRepository(db)
	userRepo := persistence.NewPostgresUserRepository(db)
	uow := persistence.NewPostgresUnitOfWork(db)

	receiptStore := storage.NewLocalReceiptStore(cfg.Uploads.Dir, logger)

	passwordService := password.NewBcryptService(cfg.Security.BcryptCost)
	tokenService, err := token.NewJWTService(cfg.Security.JWTSecret, cfg.Security.JWTExpiration)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize token service")
	}

	if cfg.Seed.Enabled {
		admin := seed.DefaultAdmin()
		if cfg.Seed.AdminEmail != "" {
			admin.Email = cfg.Seed.AdminEmail
		}
		if cfg.Seed.AdminPassword != "" {
			admin.Password = cfg.Seed.AdminPassword
		}
		seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := seed.NewSeeder(userRepo, passwordService, logger).Run(seedCtx, admin); err != nil {
			logger.WithError(err).Warn("startup seed failed, continuing")
		}
		cancel()
	}

	loginUseCase := usecase.NewLoginUseCase(userRepo, passwordService, tokenService, logger)
	claimUseCase := usecase.NewClaimUseCase(claimRepo, auditRepo, uow, receiptStore, logger)
	adminUseCase := usecase.NewAdminUseCase(claimRepo, auditRepo, userRepo, uow)
	dashboardUseCase := usecase.NewDashboardUseCase(claimRepo, userRepo, adminUseCase)
	employeeUseCase := usecase.NewEmployeeUseCase(userRepo, passwordService)

	server := httpadapter.NewServer(
		httpadapter.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		httpadapter.Handlers{
			Auth:      httpadapter.NewAuthHandler(loginUseCase, limiter, cfg.Security.LoginRateLimit, cfg.Security.LoginRateWindow, logger),
			Claims:    httpadapter.NewClaimHandler(claimUseCase, cfg.Security.MaxUploadBodySize),
			Admin:     httpadapter.NewAdminHandler(adminUseCase, employeeUseCase),
			Dashboard: httpadapter.NewDashboardHandler(dashboardUseCase),
		},
		tokenService,
		logger,
	)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	logger.Info("server exited")
}
