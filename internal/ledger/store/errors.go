package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/MrJamesThe3rd/utang/internal/ledger"
)

// classify maps a driver error onto the ledger error taxonomy. Connection
// failures become ErrStorageUnavailable, driver-reported errors become
// *ledger.StorageError and everything else is only wrapped.
func classify(op string, err error) error {
	if unavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, ledger.ErrStorageUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &ledger.StorageError{Op: op, Err: pgErr}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return &ledger.StorageError{Op: op, Err: liteErr}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func unavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN:
			return true
		}
	}

	return false
}
