package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/utang/internal/database"
	"github.com/MrJamesThe3rd/utang/internal/ledger"
	"github.com/MrJamesThe3rd/utang/internal/ledger/store"
)

func newSQLiteStore(t *testing.T) (*store.Store, *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")
	require.NoError(t, database.Migrate("sqlite", path))

	db, err := database.NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(db, store.DialectSQLite), db
}

func insertUser(t *testing.T, db *sql.DB, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(`INSERT INTO users (id, name, email, phone) VALUES (?, ?, ?, ?)`,
		id, name, name+"@example.com", "+62 812 0000")
	require.NoError(t, err)

	return id
}

func insertTransfer(t *testing.T, db *sql.DB, payer, payee uuid.UUID, amount int64, desc string, date time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(`INSERT INTO transfers (id, payer_id, payee_id, amount, description, date) VALUES (?, ?, ?, ?, ?, ?)`,
		id, payer, payee, amount, desc, date)
	require.NoError(t, err)

	return id
}

func TestStore_FetchPairHistory(t *testing.T) {
	s, db := newSQLiteStore(t)

	var (
		ani   = insertUser(t, db, "ani")
		budi  = insertUser(t, db, "budi")
		citra = insertUser(t, db, "citra")
	)

	d1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	loan := insertTransfer(t, db, ani, budi, 100, "loan", d1)
	repay := insertTransfer(t, db, budi, ani, 40, ledger.RepaymentMarker, d2)
	sameDay := insertTransfer(t, db, budi, ani, 5, "coffee", d1)
	insertTransfer(t, db, ani, citra, 999, "unrelated", d2)

	got, err := s.FetchPairHistory(context.Background(), ani, budi)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, repay, got[0].ID)
	assert.Equal(t, loan, got[1].ID)
	assert.Equal(t, sameDay, got[2].ID)

	assert.Equal(t, budi, got[0].PayerID)
	assert.Equal(t, "budi", got[0].Payer.Name)
	assert.Equal(t, budi, got[0].Payer.ID)
	assert.Equal(t, "ani@example.com", got[0].Payee.Email)
	assert.Empty(t, got[0].Payee.Image)
	assert.Equal(t, int64(40), got[0].Amount)
	assert.True(t, got[0].Date.Equal(d2))

	_, total := ledger.Reconcile(got, ani, budi)
	assert.Equal(t, int64(100-40-5), total)
}

func TestStore_FetchPairHistory_MixedOffsets(t *testing.T) {
	s, db := newSQLiteStore(t)

	var (
		ani  = insertUser(t, db, "ani")
		budi = insertUser(t, db, "budi")
	)

	wib := time.FixedZone("WIB", 7*60*60)

	// 10:00 WIB is 03:00 UTC, two hours before the second transfer.
	older := insertTransfer(t, db, ani, budi, 100, "older", time.Date(2024, 5, 1, 10, 0, 0, 0, wib))
	newer := insertTransfer(t, db, budi, ani, 30, "newer", time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC))

	got, err := s.FetchPairHistory(context.Background(), ani, budi)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, newer, got[0].ID)
	assert.Equal(t, older, got[1].ID)
	assert.True(t, got[1].Date.Equal(time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)))
}

func TestStore_FetchPairHistory_NoRows(t *testing.T) {
	s, db := newSQLiteStore(t)
	ani := insertUser(t, db, "ani")

	got, err := s.FetchPairHistory(context.Background(), ani, ani)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_FetchPairHistory_RecognizedError(t *testing.T) {
	s, db := newSQLiteStore(t)

	_, err := db.Exec(`DROP TABLE transfers`)
	require.NoError(t, err)

	_, err = s.FetchPairHistory(context.Background(), uuid.New(), uuid.New())

	var storageErr *ledger.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Contains(t, storageErr.Error(), "transfers")
}

func TestStore_FetchPairHistory_UnrecognizedError(t *testing.T) {
	s, db := newSQLiteStore(t)
	require.NoError(t, db.Close())

	_, err := s.FetchPairHistory(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)

	var storageErr *ledger.StorageError
	assert.False(t, errors.As(err, &storageErr))
	assert.NotErrorIs(t, err, ledger.ErrStorageUnavailable)
}

func TestStore_Unavailable(t *testing.T) {
	// The parent directory is never created, so SQLite cannot open the file.
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "missing", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := store.New(db, store.DialectSQLite)

	_, err = s.FetchPairHistory(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, ledger.ErrStorageUnavailable)

	var storageErr *ledger.StorageError
	assert.False(t, errors.As(err, &storageErr))

	assert.ErrorIs(t, s.Ping(context.Background()), ledger.ErrStorageUnavailable)
}

func TestStore_Ping(t *testing.T) {
	s, _ := newSQLiteStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
