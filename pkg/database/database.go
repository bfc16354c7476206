package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/synergo-api/pkg/config"
)

// Open connects to the store selected by cfg.Driver.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return NewSQLite(cfg)
	case config.DriverPostgres:
		return NewPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
