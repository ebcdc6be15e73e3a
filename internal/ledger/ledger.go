package ledger

import (
	"time"

	"github.com/google/uuid"
)

// UserID identifies a user in the external user directory.
type UserID = uuid.UUID

// RepaymentMarker is the description that marks a record as settling an
// existing balance instead of creating new debt.
const RepaymentMarker = "Pelunasan"

// Kind is the classification of a record relative to a viewpoint user.
type Kind string

const (
	KindPayment    Kind = "payment"
	KindReceivable Kind = "receivable"
	KindPayable    Kind = "payable"
)

// User is a display snapshot of a user owned by the user directory.
type User struct {
	ID    UserID
	Name  string
	Email string
	Phone string
	Image string
}

// Record is a money transfer from Payer to Payee. Records are never mutated.
type Record struct {
	ID          uuid.UUID
	PayerID     UserID
	PayeeID     UserID
	Amount      int64 // Amount in minor units
	Description string
	Date        time.Time
	Payer       User // Loaded via JOIN
	Payee       User // Loaded via JOIN
}

// IsRepayment reports whether the record settles balance.
func (r Record) IsRepayment() bool {
	return r.Description == RepaymentMarker
}

// ClassifiedRecord is a Record tagged with its Kind for one viewpoint.
type ClassifiedRecord struct {
	Record
	Kind Kind
}

// History is the reconciled view of a user pair.
type History struct {
	Transactions []ClassifiedRecord
	// Total is positive when the counterpart owes the viewpoint user.
	Total int64
}
