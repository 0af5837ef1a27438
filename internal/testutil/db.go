package testutil

import (
	"strings"
	"testing"

	"cortex-analyst-be/internal/model"
	"cortex-analyst-be/pkg/database"

	"gorm.io/gorm"
)

// NewTestDB opens a migrated in-memory SQLite store
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGormDBFromDSN(database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SeedApp registers an active app with the given semantic model files, in registration order
func SeedApp(t *testing.T, db *gorm.DB, name string, yamlFiles ...string) *model.App {
	t.Helper()
	app := &model.App{
		Name:     name,
		LogoUrl:  "@CORTEX_DB.PUBLIC.LOGOS/" + name + ".png",
		Url:      "analyst_" + name,
		Active:   true,
		Database: "CORTEX_DB",
		Schema:   "PUBLIC",
		Stage:    "MODELS",
	}
	if err := db.Create(app).Error; err != nil {
		t.Fatalf("Failed to seed app: %v", err)
	}
	for _, file := range yamlFiles {
		m := &model.SemanticModel{AppId: app.Id, Name: trimYaml(file), File: file, Active: true}
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("Failed to seed semantic model: %v", err)
		}
	}
	return app
}

func trimYaml(file string) string {
	return strings.TrimSuffix(strings.TrimSuffix(file, ".yaml"), ".yml")
}
