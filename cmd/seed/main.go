// Command seed provisions the role catalog and the default admin account.
// Unlike the startup seed, a failure here exits non-zero.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/claimdesk/claimdesk/internal/adapter/persistence"
	"github.com/claimdesk/claimdesk/internal/config"
	"github.com/claimdesk/claimdesk/internal/seed"
	"github.com/claimdesk/claimdesk/internal/service/password"
	"github.com/claimdesk/claimdesk/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseURL())
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.WithError(err).Fatal("failed to ping database")
	}

	admin := seed.DefaultAdmin()
	if cfg.Seed.AdminEmail != "" {
		admin.Email = cfg.Seed.AdminEmail
	}
	if cfg.Seed.AdminPassword != "" {
		admin.Password = cfg.Seed.AdminPassword
	}

	userRepo := persistence.NewPostgresUserRepository(db)
	passwordService := password.NewBcryptService(cfg.Security.BcryptCost)

	if err := seed.NewSeeder(userRepo, passwordService, logger).Run(ctx, admin); err != nil {
		logger.WithError(err).Fatal("seed failed")
	}

	logger.Info("seed completed")
}
