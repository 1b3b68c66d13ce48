package repository

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// MigrationNames lists the embedded migration files.
func MigrationNames() ([]string, error) {
	return fs.Glob(migrationFiles, "migrations/*.sql")
}

// Migrate applies the embedded schema migrations in the given direction.
func Migrate(direction string, dbConnStr string) error {
	if direction != MigrateUp && direction != MigrateDown {
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	d, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migration files: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, dbConnStr)
	if err != nil {
		return fmt.Errorf("failed create new source instance: %w", err)
	}
	defer m.Close()

	migrateMethod := m.Up
	if direction == MigrateDown {
		migrateMethod = m.Down
	}
	if err := migrateMethod(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate %v: %w", direction, err)
	}
	return nil
}
