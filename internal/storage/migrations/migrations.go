// Package migrations embeds the schema migrations of every supported
// database driver and runs them with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tridentbot/internal/config"
	"github.com/cory-johannsen/tridentbot/internal/observability"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// New returns a migrator for the configured database.
//
// Precondition: cfg.Driver is "sqlite" or "postgres".
// Postcondition: The caller must Close the returned migrator.
func New(cfg config.DatabaseConfig, logger *zap.Logger) (*migrate.Migrate, error) {
	dir, url, err := target(cfg)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(files, dir)
	if err != nil {
		return nil, fmt.Errorf("loading %s migrations: %w", dir, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	m.Log = observability.NewMigrateLogger(logger)
	return m, nil
}

// Up applies all pending migrations.
//
// Postcondition: Returns the resulting schema version; an up-to-date schema
// is not an error.
func Up(cfg config.DatabaseConfig, logger *zap.Logger) (uint, error) {
	m, err := New(cfg, logger)
	if err != nil {
		return 0, err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("applying migrations: %w", err)
	}
	version, _, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func target(cfg config.DatabaseConfig) (dir, url string, err error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return "sqlite", "sqlite://" + cfg.Path, nil
	case config.DriverPostgres:
		return "postgres", "pgx5://" + strings.TrimPrefix(cfg.DSN(), "postgres://"), nil
	default:
		return "", "", fmt.Errorf("no migrations for database driver %q", cfg.Driver)
	}
}
