package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/synergo-api/pkg/config"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// Migrate applies every pending up migration for the given driver.
func Migrate(db *sqlx.DB, driver string, logger *zap.Logger) error {
	m, err := newMigrator(db, driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logVersion(m, driver, logger)
	return nil
}

// Rollback reverts the given number of migrations.
func Rollback(db *sqlx.DB, driver string, steps int, logger *zap.Logger) error {
	if steps <= 0 {
		steps = 1
	}
	m, err := newMigrator(db, driver)
	if err != nil {
		return err
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	logVersion(m, driver, logger)
	return nil
}

func newMigrator(db *sqlx.DB, driver string) (*migrate.Migrate, error) {
	var (
		instance migratedb.Driver
		dir      string
		err      error
	)
	switch driver {
	case config.DriverSQLite, "":
		driver = config.DriverSQLite
		dir = "migrations/sqlite"
		instance, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
	case config.DriverPostgres:
		dir = "migrations/postgres"
		instance, err = postgres.WithInstance(db.DB, &postgres.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s migration driver: %w", driver, err)
	}

	source, err := iofs.New(migrationFiles, dir)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, instance)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

func logVersion(m *migrate.Migrate, driver string, logger *zap.Logger) {
	if logger == nil {
		return
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		logger.Warn("read migration version", zap.Error(err))
		return
	}
	logger.Info("database migrated", zap.String("driver", driver), zap.Uint("version", version), zap.Bool("dirty", dirty))
}
