package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cozinhecomigo/recipes/backend/internal/models"
)

// Models lists every table managed by the application
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Token{},
		&models.Recipe{},
		&models.Comment{},
	}
}

// RunMigrations creates the schema and, on Postgres, executes the SQL files in
// migrationsDir that have not been applied yet.
func RunMigrations(db *gorm.DB, migrationsDir string, log *logrus.Logger) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate schema: %w", err)
	}

	if db.Dialector.Name() != "postgres" || migrationsDir == "" {
		return nil
	}

	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField("dir", migrationsDir).Warn("migrations directory not found, skipping SQL migrations")
			return nil
		}
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	files := migrationFiles(entries)

	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	for _, name := range files {
		var count int64
		if err := db.Table("schema_migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.WithField("migration", name).Debug("skipping migration (already applied)")
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return err
			}
			return tx.Exec("INSERT INTO schema_migrations (name) VALUES (?)", name).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}

		log.WithField("migration", name).Info("applied migration")
	}

	return nil
}

// RollbackLast reverts the most recently applied SQL migration using its
// <name>_rollback.sql companion file and returns the migration name.
func RollbackLast(db *gorm.DB, migrationsDir string, log *logrus.Logger) (string, error) {
	if err := ensureMigrationsTable(db); err != nil {
		return "", err
	}

	var last struct{ Name string }
	res := db.Table("schema_migrations").Select("name").Order("applied_at DESC").Order("id DESC").Limit(1).Scan(&last)
	if res.Error != nil {
		return "", fmt.Errorf("failed to get last migration: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrNoMigrations
	}

	rollbackPath := filepath.Join(migrationsDir, strings.TrimSuffix(last.Name, ".sql")+rollbackSuffix)
	content, err := os.ReadFile(rollbackPath)
	if err != nil {
		return "", fmt.Errorf("failed to read rollback file: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(content)).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM schema_migrations WHERE name = ?", last.Name).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to roll back %s: %w", last.Name, err)
	}

	log.WithField("migration", last.Name).Info("rolled back migration")
	return last.Name, nil
}

// ErrNoMigrations is returned by RollbackLast when nothing has been applied
var ErrNoMigrations = errors.New("no migrations to roll back")

const rollbackSuffix = "_rollback.sql"

func migrationFiles(entries []os.DirEntry) []string {
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") || strings.HasSuffix(name, rollbackSuffix) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files
}

func ensureMigrationsTable(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}
