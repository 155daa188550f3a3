package billing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Default bill prefixes (overridable via SALES_BILL_PREFIX / PURCHASE_BILL_PREFIX)
const (
	DefaultSalePrefix     = "KOM"
	DefaultPurchasePrefix = "PUR"
)

// FinancialYearLabel returns the "YY-YY+1" label for the FY containing t.
// The financial year runs April 1 to March 31, so January-March dates
// belong to the previous label (e.g. 2026-02-15 -> "25-26").
func FinancialYearLabel(t time.Time) string {
	year := t.Year()
	if t.Month() < time.April {
		year--
	}
	return fmt.Sprintf("%02d-%02d", year%100, (year+1)%100)
}

// BillPrefix composes the document prefix for a date, e.g. "KOM/25-26/".
func BillPrefix(docPrefix string, t time.Time) string {
	return docPrefix + "/" + FinancialYearLabel(t) + "/"
}

// BillSuffix parses the trailing numeric segment of a bill number
// ("KOM/25-26/0042" -> 42). Returns false when the last token is not a number.
func BillSuffix(billNo string) (int, bool) {
	parts := strings.Split(billNo, "/")
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatBillNumber appends the zero-padded sequence to the prefix,
// e.g. ("KOM/25-26/", 7) -> "KOM/25-26/0007".
func FormatBillNumber(prefix string, n int) string {
	return fmt.Sprintf("%s%04d", prefix, n)
}

// NextAfter derives the next bill number under prefix given the most recent
// bill number found for it. An empty or unparsable last number starts at 1.
func NextAfter(prefix, lastBillNo string) string {
	next := 1
	if lastBillNo != "" {
		if n, ok := BillSuffix(lastBillNo); ok {
			next = n + 1
		}
	}
	return FormatBillNumber(prefix, next)
}

// LineInput is the raw quantity/rate pair submitted for one bill line.
type LineInput struct {
	Quantity float64
	Rate     float64
}

// Round2 rounds to 2 decimal places (money).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LineAmount is the stored per-line amount: quantity * rate, rounded to 2 decimals.
func LineAmount(quantity, rate float64) float64 {
	return Round2(quantity * rate)
}

// ComputeTotals recomputes the invoice figures from raw lines. This is the
// single source of truth: whatever the browser showed the operator, the stored
// subtotal and grand total always come from here. NaN inputs count as 0.
// No floor is applied, so a discount above the subtotal goes negative.
func ComputeTotals(items []LineInput, discount float64) (subtotal, grandTotal float64) {
	for _, it := range items {
		qty, rate := it.Quantity, it.Rate
		if math.IsNaN(qty) {
			qty = 0
		}
		if math.IsNaN(rate) {
			rate = 0
		}
		subtotal += qty * rate
	}
	if math.IsNaN(discount) {
		discount = 0
	}
	subtotal = Round2(subtotal)
	grandTotal = Round2(subtotal - discount)
	return subtotal, grandTotal
}
