package database

import (
	"errors"
	"strings"
	"time"

	"go-oilmill/internal/billing"
	"go-oilmill/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document types for the bill counter rows
const (
	DocTypeSale     = "sale"
	DocTypePurchase = "purchase"
)

var ErrBillNumberTaken = errors.New("bill number already exists")

// NextBillNumber is the advisory preview shown in the bill form: the highest
// existing number under the current financial-year prefix, plus one. It is
// read-only and reserves nothing; the authoritative number is taken by
// ReserveBillNumber inside the create transaction.
func NextBillNumber(model any, docPrefix string, now time.Time) (string, error) {
	prefix := billing.BillPrefix(docPrefix, now)

	// Soft-deleted bills keep their numbers, so they still count here
	var last []string
	err := DB.Unscoped().Model(model).
		Where("bill_no LIKE ?", prefix+"%").
		Order("id DESC").
		Limit(1).
		Pluck("bill_no", &last).Error
	if err != nil {
		return "", err
	}

	lastNo := ""
	if len(last) > 0 {
		lastNo = last[0]
	}
	return billing.NextAfter(prefix, lastNo), nil
}

// ReserveBillNumber hands out the bill number for a new invoice inside tx.
// The per-(doc type, FY) counter row is locked so two concurrent submissions
// cannot both take the same number. An operator-supplied number is kept as-is
// after a uniqueness check, and the counter is bumped past its suffix so the
// sequence never re-issues it.
func ReserveBillNumber(tx *gorm.DB, model any, docType, docPrefix, submitted string, now time.Time) (string, error) {
	fy := billing.FinancialYearLabel(now)
	prefix := billing.BillPrefix(docPrefix, now)

	var counter models.BillCounter
	if err := tx.Where(models.BillCounter{DocType: docType, FinancialYear: fy}).
		FirstOrCreate(&counter).Error; err != nil {
		return "", err
	}

	// Re-read under a row lock. sqlite (used by the tests) has no FOR UPDATE;
	// it serializes writers on its own.
	locked := tx
	if tx.Dialector.Name() == "mysql" {
		locked = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := locked.First(&counter, counter.ID).Error; err != nil {
		return "", err
	}

	billNo := submitted
	if billNo == "" {
		counter.LastNumber++
		billNo = billing.FormatBillNumber(prefix, counter.LastNumber)
	} else {
		// Unique per document type, soft-deleted bills included
		var count int64
		if err := tx.Unscoped().Model(model).Where("bill_no = ?", billNo).Count(&count).Error; err != nil {
			return "", err
		}
		if count > 0 {
			return "", ErrBillNumberTaken
		}
		if n, ok := billing.BillSuffix(billNo); ok && strings.HasPrefix(billNo, prefix) && n > counter.LastNumber {
			counter.LastNumber = n
		}
	}

	if err := tx.Save(&counter).Error; err != nil {
		return "", err
	}
	return billNo, nil
}
