package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/utang/internal/config"
	"github.com/MrJamesThe3rd/utang/internal/database"
	"github.com/MrJamesThe3rd/utang/internal/ledger"
	"github.com/MrJamesThe3rd/utang/internal/ledger/memory"
)

// Open builds the Repository selected by cfg.DB.Driver, migrating the schema
// first when enabled. The returned func releases the connection pool.
func Open(cfg *config.Config) (ledger.Repository, func(), error) {
	if cfg.DB.Driver == "memory" {
		slog.Warn("using in-memory ledger storage; history starts empty")
		return memory.New(), func() {}, nil
	}

	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)

	switch cfg.DB.Driver {
	case "sqlite":
		db, err = database.NewSQLite(cfg.DSN())
		dialect = DialectSQLite
	default:
		db, err = database.New(cfg.DSN())
		dialect = DialectPostgres
	}

	if err != nil {
		return nil, nil, err
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(cfg.DB.Driver, cfg.DSN()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrating database: %w", err)
		}
	}

	return New(db, dialect), func() { db.Close() }, nil
}
