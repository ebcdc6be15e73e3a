package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/utang/internal/ledger"
)

// Dialect selects the placeholder syntax of the underlying SQL engine.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads a transfer row joined with both user snapshots.
// Expected column order: id, payer_id, payee_id, amount, description, date,
// payer name/email/phone/image, payee name/email/phone/image.
func scanRecord(s scanner) (ledger.Record, error) {
	var rec ledger.Record

	if err := s.Scan(
		&rec.ID, &rec.PayerID, &rec.PayeeID, &rec.Amount, &rec.Description, &rec.Date,
		&rec.Payer.Name, &rec.Payer.Email, &rec.Payer.Phone, &rec.Payer.Image,
		&rec.Payee.Name, &rec.Payee.Email, &rec.Payee.Phone, &rec.Payee.Image,
	); err != nil {
		return ledger.Record{}, err
	}

	rec.Payer.ID = rec.PayerID
	rec.Payee.ID = rec.PayeeID

	return rec, nil
}

const selectRecordColumns = `
	t.id, t.payer_id, t.payee_id, t.amount, t.description, t.date,
	COALESCE(p.name, ''), COALESCE(p.email, ''), COALESCE(p.phone, ''), COALESCE(p.image, ''),
	COALESCE(q.name, ''), COALESCE(q.email, ''), COALESCE(q.phone, ''), COALESCE(q.image, '')
`

// seq is the insertion order and breaks ties between equal dates.
const pairHistoryTail = `
	FROM transfers t
	LEFT JOIN users p ON p.id = t.payer_id
	LEFT JOIN users q ON q.id = t.payee_id
	WHERE (t.payer_id = %s AND t.payee_id = %s)
	   OR (t.payer_id = %s AND t.payee_id = %s)
	ORDER BY %s DESC, t.seq ASC`

func (s *Store) pairHistoryQuery() string {
	if s.dialect == DialectSQLite {
		// SQLite keeps dates as text; julianday compares the instants across offsets.
		return `SELECT ` + selectRecordColumns + fmt.Sprintf(pairHistoryTail, "?", "?", "?", "?", "julianday(t.date)")
	}

	return `SELECT ` + selectRecordColumns + fmt.Sprintf(pairHistoryTail, "$1", "$2", "$3", "$4", "t.date")
}

func (s *Store) FetchPairHistory(ctx context.Context, a, b ledger.UserID) ([]ledger.Record, error) {
	rows, err := s.db.QueryContext(ctx, s.pairHistoryQuery(), a, b, b, a)
	if err != nil {
		return nil, classify("querying pair history", err)
	}
	defer rows.Close()

	records := make([]ledger.Record, 0)

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, classify("scanning transfer", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, classify("iterating transfer rows", err)
	}

	return records, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return classify("pinging database", err)
	}

	return nil
}
