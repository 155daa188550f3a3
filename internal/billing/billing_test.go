package billing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestFinancialYearLabel(t *testing.T) {
	// On or after April 1 the label is the current year
	assert.Equal(t, "25-26", FinancialYearLabel(date(2025, time.April, 1)))
	assert.Equal(t, "25-26", FinancialYearLabel(date(2025, time.December, 31)))
	assert.Equal(t, "25-26", FinancialYearLabel(date(2026, time.March, 31)))

	// Before April 1 it rolls back to the previous year
	assert.Equal(t, "24-25", FinancialYearLabel(date(2025, time.March, 31)))
	assert.Equal(t, "24-25", FinancialYearLabel(date(2025, time.January, 1)))

	// Century wrap keeps two digits
	assert.Equal(t, "99-00", FinancialYearLabel(date(1999, time.June, 15)))
}

func TestBillPrefix(t *testing.T) {
	assert.Equal(t, "KOM/25-26/", BillPrefix("KOM", date(2025, time.July, 10)))
	assert.Equal(t, "PUR/24-25/", BillPrefix("PUR", date(2025, time.February, 2)))
}

func TestBillSuffix(t *testing.T) {
	n, ok := BillSuffix("KOM/25-26/0042")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = BillSuffix("KOM/25-26/draft")
	assert.False(t, ok)

	// A bare number still parses (split produces one token)
	n, ok = BillSuffix("7")
	assert.True(t, ok)
	assert.Equal(t, 7, n)
}

func TestNextAfter(t *testing.T) {
	// First bill of a fresh financial year
	assert.Equal(t, "KOM/25-26/0001", NextAfter("KOM/25-26/", ""))

	// Increments from the highest existing suffix
	assert.Equal(t, "KOM/25-26/0008", NextAfter("KOM/25-26/", "KOM/25-26/0007"))

	// Unparsable last number restarts at 1
	assert.Equal(t, "KOM/25-26/0001", NextAfter("KOM/25-26/", "KOM/25-26/old"))

	// Padding grows past 4 digits instead of wrapping
	assert.Equal(t, "KOM/25-26/10000", NextAfter("KOM/25-26/", "KOM/25-26/9999"))
}

func TestComputeTotals(t *testing.T) {
	items := []LineInput{
		{Quantity: 2, Rate: 100},
		{Quantity: 1, Rate: 50},
	}
	subtotal, grandTotal := ComputeTotals(items, 10)
	assert.Equal(t, 250.0, subtotal)
	assert.Equal(t, 240.0, grandTotal)
}

func TestComputeTotalsZeroDiscount(t *testing.T) {
	subtotal, grandTotal := ComputeTotals([]LineInput{{Quantity: 3, Rate: 33.33}}, 0)
	assert.Equal(t, 99.99, subtotal)
	assert.Equal(t, 99.99, grandTotal)
}

func TestComputeTotalsDiscountExceedsSubtotal(t *testing.T) {
	// No floor: over-discounting goes negative
	subtotal, grandTotal := ComputeTotals([]LineInput{{Quantity: 1, Rate: 100}}, 150)
	assert.Equal(t, 100.0, subtotal)
	assert.Equal(t, -50.0, grandTotal)
}

func TestComputeTotalsNaNTreatedAsZero(t *testing.T) {
	items := []LineInput{
		{Quantity: math.NaN(), Rate: 100},
		{Quantity: 2, Rate: 25},
	}
	subtotal, grandTotal := ComputeTotals(items, math.NaN())
	assert.Equal(t, 50.0, subtotal)
	assert.Equal(t, 50.0, grandTotal)
}

func TestComputeTotalsRounding(t *testing.T) {
	// 0.1 + 0.2 style float dust gets rounded away
	subtotal, grandTotal := ComputeTotals([]LineInput{
		{Quantity: 3, Rate: 0.1},
		{Quantity: 1, Rate: 0.2},
	}, 0.05)
	assert.Equal(t, 0.5, subtotal)
	assert.Equal(t, 0.45, grandTotal)
}

func TestComputeTotalsEmpty(t *testing.T) {
	subtotal, grandTotal := ComputeTotals(nil, 0)
	assert.Equal(t, 0.0, subtotal)
	assert.Equal(t, 0.0, grandTotal)
}

func TestLineAmount(t *testing.T) {
	assert.Equal(t, 250.0, LineAmount(2.5, 100))
	assert.Equal(t, 33.33, LineAmount(1, 33.333))
}

func TestFormatBillNumber(t *testing.T) {
	assert.Equal(t, "KOM/25-26/0001", FormatBillNumber("KOM/25-26/", 1))
	assert.Equal(t, "KOM/25-26/0123", FormatBillNumber("KOM/25-26/", 123))
}
