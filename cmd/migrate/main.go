package main

import (
	"log"
	"log/slog"

	"voting-service/internal/config"
	"voting-service/internal/database"
)

func main() {
	cfg := config.Load()

	slog.Info("Starting database migration...")

	// NewPostgresConnection runs the auto-migration, the index setup and
	// the immutability triggers.
	db, err := database.NewPostgresConnection(cfg.Database.URI, nil)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance:", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	slog.Info("Database migration completed successfully!")
}
