package main

import (
	"errors"
	"flag"

	"github.com/cozinhecomigo/recipes/backend/config"
	"github.com/cozinhecomigo/recipes/backend/internal/database"
	"github.com/cozinhecomigo/recipes/backend/internal/logger"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "", "Migrations directory (defaults to MIGRATIONS_DIR)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New(string(config.GetEnvironment()), "info").Fatalf("Failed to load config: %v", err)
	}
	log := logger.New(string(config.GetEnvironment()), cfg.LogLevel)

	migrationsDir := cfg.MigrationsDir
	if *dir != "" {
		migrationsDir = *dir
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if *rollback {
		name, err := database.RollbackLast(db, migrationsDir, log)
		if errors.Is(err, database.ErrNoMigrations) {
			log.Info("No migrations to rollback")
			return
		}
		if err != nil {
			log.Fatalf("failed to roll back: %v", err)
		}
		log.WithField("migration", name).Info("Successfully rolled back migration")
		return
	}

	if err := database.RunMigrations(db, migrationsDir, log); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}
	log.Info("All migrations applied successfully")
}
