package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	internallog "github.com/cozinhecomigo/recipes/backend/internal/logger"
	"github.com/cozinhecomigo/recipes/backend/internal/models"
)

func TestRunMigrationsSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// The SQL directory is postgres-only and must be ignored here.
	require.NoError(t, RunMigrations(db, "does-not-exist", internallog.Discard()))

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}

	recipe := models.Recipe{
		UserID:       1,
		Title:        "Bolo de Cenoura",
		Ingredients:  models.StringArray{"cenoura", "farinha"},
		Instructions: "Bata tudo e asse.",
		Categories:   models.StringArray{"Sobremesa"},
	}
	require.NoError(t, db.Create(&recipe).Error)

	var loaded models.Recipe
	require.NoError(t, db.First(&loaded, recipe.ID).Error)
	assert.Equal(t, recipe.Ingredients, loaded.Ingredients)
	assert.Equal(t, recipe.Categories, loaded.Categories)
	assert.Nil(t, loaded.Portions)
}

func TestHealthCheck(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	assert.NoError(t, HealthCheck(context.Background(), db))
}

func TestMigrationFilesSkipsRollbacks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"0002_indexes.sql",
		"0001_constraints.sql",
		"0001_constraints_rollback.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.sql"), 0o700))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_constraints.sql", "0002_indexes.sql"}, migrationFiles(entries))
}
