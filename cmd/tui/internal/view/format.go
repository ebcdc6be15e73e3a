package view

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/utang/internal/ledger"
)

const dbTimeout = 5 * time.Second

// AmountFormatter renders minor-unit amounts with locale grouping.
type AmountFormatter struct {
	printer *message.Printer
	// decimalSep is the locale's decimal separator, e.g. "." or ",".
	decimalSep string
}

func NewAmountFormatter(tag language.Tag) AmountFormatter {
	p := message.NewPrinter(tag)
	sep := strings.TrimSuffix(strings.TrimPrefix(p.Sprintf("%.1f", 1.5), "1"), "5")

	return AmountFormatter{printer: p, decimalSep: sep}
}

// Format renders minor units as major units with two decimals, e.g. 1234567 -> "12,345.67".
// Only the whole part goes through the printer, so no digits are lost to float rounding.
func (f AmountFormatter) Format(minor int64) string {
	major := decimal.New(minor, -2)

	sign := ""
	if major.IsNegative() {
		sign = "-"
		major = major.Neg()
	}

	whole, frac, _ := strings.Cut(major.StringFixed(2), ".")

	grouped := whole
	if n, err := strconv.ParseUint(whole, 10, 64); err == nil {
		grouped = f.printer.Sprintf("%d", n)
	}

	return sign + grouped + f.decimalSep + frac
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// BalanceLabel describes a pair balance from the viewpoint user's side.
func BalanceLabel(f AmountFormatter, total int64) string {
	switch {
	case total > 0:
		return "Owes you " + f.Format(total)
	case total < 0:
		return "You owe " + f.Format(-total)
	default:
		return "Settled"
	}
}

// KindLabel is the short column label for a classification.
func KindLabel(k ledger.Kind) string {
	switch k {
	case ledger.KindPayment:
		return "Repayment"
	case ledger.KindReceivable:
		return "Lent"
	case ledger.KindPayable:
		return "Borrowed"
	}

	return string(k)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
