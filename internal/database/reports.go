package database

import (
	"go-oilmill/internal/models"
)

// SalesSummary holds the figures the admin assistant reports on
type SalesSummary struct {
	TotalAmount float64
	TotalBills  int64
}

// GetSalesSummary totals active sales invoices within a date range
// (dates are stored as YYYY-MM-DD strings, so BETWEEN compares correctly).
func GetSalesSummary(start, end string) (*SalesSummary, error) {
	var result SalesSummary

	// COALESCE ensures we get 0 instead of NULL if no bills exist
	err := DB.Model(&models.Sale{}).
		Where("sale_date BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&result.TotalAmount).Error

	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Sale{}).
		Where("sale_date BETWEEN ? AND ?", start, end).
		Count(&result.TotalBills).Error

	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetPurchaseSummary totals active purchase bills within a date range.
func GetPurchaseSummary(start, end string) (*SalesSummary, error) {
	var result SalesSummary

	err := DB.Model(&models.Purchase{}).
		Where("purchase_date BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&result.TotalAmount).Error

	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Purchase{}).
		Where("purchase_date BETWEEN ? AND ?", start, end).
		Count(&result.TotalBills).Error

	if err != nil {
		return nil, err
	}

	return &result, nil
}
