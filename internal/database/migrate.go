// migrate.go applies the catalog schema using golang-migrate.
//
// Migrations are SQL files in the migrations/ directory, each with an "up"
// and a "down" file. Applied versions are tracked in schema_migrations.
package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // File source driver
)

// RunMigrations applies all pending migrations found under migrationsPath.
// Both the API server and ncert-sync call it before touching the catalog.
func (db *DB) RunMigrations(migrationsPath string) error {
	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Println("📦 Catalog schema up to date")
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	default:
		version, dirty, _ := m.Version()
		log.Printf("📦 Catalog schema migrated to version %d (dirty: %v)", version, dirty)
	}
	return nil
}
