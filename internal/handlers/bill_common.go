package handlers

import (
	"errors"
	"os"
	"strings"

	"go-oilmill/internal/billing"
)

// billItemRequest is one raw line as submitted by the bill form. The browser
// shows a live total while typing, but that figure never reaches us; totals
// are always recomputed here from these raw lines.
type billItemRequest struct {
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	Rate      float64 `json:"rate"`
	Packing   string  `json:"packing"`
}

func validateBillLines(items []billItemRequest) error {
	if len(items) == 0 {
		return errors.New("At least one item is required")
	}
	for _, it := range items {
		if it.ProductID == 0 {
			return errors.New("Each item needs a selected product")
		}
		if it.Quantity <= 0 {
			return errors.New("Item quantity must be positive")
		}
	}
	return nil
}

func toLineInputs(items []billItemRequest) []billing.LineInput {
	lines := make([]billing.LineInput, len(items))
	for i, it := range items {
		lines[i] = billing.LineInput{Quantity: it.Quantity, Rate: it.Rate}
	}
	return lines
}

// normalizePaymentType defaults blank to 'credit' and rejects anything
// other than 'credit' or 'cash'.
func normalizePaymentType(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return "credit", true
	case "credit", "cash":
		return s, true
	}
	return "", false
}

func salePrefix() string {
	if v := os.Getenv("SALES_BILL_PREFIX"); v != "" {
		return v
	}
	return billing.DefaultSalePrefix
}

func purchasePrefix() string {
	if v := os.Getenv("PURCHASE_BILL_PREFIX"); v != "" {
		return v
	}
	return billing.DefaultPurchasePrefix
}
