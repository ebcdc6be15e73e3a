package ledger

// Classify tags a record relative to viewpointID. A repayment is a payment no
// matter which side stored it; otherwise the payer side is owed the amount.
func Classify(rec Record, viewpointID UserID) Kind {
	switch {
	case rec.IsRepayment():
		return KindPayment
	case rec.PayerID == viewpointID:
		return KindReceivable
	default:
		return KindPayable
	}
}

// Reconcile classifies records for the (viewpointID, counterpartID) pair and
// sums them into a signed balance. The input order is preserved.
//
// A receivable adds its amount. A payment adds its amount when the counterpart
// is its recipient and subtracts it otherwise. A payable subtracts its amount.
func Reconcile(records []Record, viewpointID, counterpartID UserID) ([]ClassifiedRecord, int64) {
	classified := make([]ClassifiedRecord, 0, len(records))

	var total int64

	for _, rec := range records {
		kind := Classify(rec, viewpointID)
		classified = append(classified, ClassifiedRecord{Record: rec, Kind: kind})

		switch {
		case kind == KindReceivable:
			total += rec.Amount
		case kind == KindPayment && rec.PayeeID == counterpartID:
			total += rec.Amount
		default:
			total -= rec.Amount
		}
	}

	return classified, total
}
