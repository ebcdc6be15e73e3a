package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies the embedded migrations for driver ("postgres" or "sqlite")
// on a dedicated connection, since closing the migrator closes its database.
func Migrate(driver, dsn string) error {
	var (
		sqlDriver string
		dir       string
	)

	switch driver {
	case "postgres":
		sqlDriver, dir = "pgx", "migrations/postgres"
	case "sqlite":
		sqlDriver, dir = "sqlite", "migrations/sqlite"
	default:
		return fmt.Errorf("unsupported migration driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return fmt.Errorf("opening migration database: %w", err)
	}
	defer db.Close()

	var instance migratedb.Driver

	switch driver {
	case "postgres":
		instance, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	case "sqlite":
		instance, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	}

	if err != nil {
		return fmt.Errorf("creating %s migration driver: %w", driver, err)
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("creating iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, instance)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
