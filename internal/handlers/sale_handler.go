package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-oilmill/internal/billing"
	"go-oilmill/internal/database"
	"go-oilmill/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type saleRequest struct {
	PartyName    string            `json:"party_name"`
	PartyMobile  string            `json:"party_mobile"`
	PartyAddress string            `json:"party_address"`
	SaleDate     string            `json:"sale_date"`
	BillNo       string            `json:"bill_no"`
	VoucherNo    string            `json:"voucher_no"`
	PaymentType  string            `json:"payment_type"`
	Discount     float64           `json:"discount"`
	Remarks      string            `json:"remarks"`
	Items        []billItemRequest `json:"items"`
}

func saleSearchFields(s models.Sale) []string {
	return []string{s.PartyName, s.BillNo, s.PartyMobile}
}

// --- GET: List active sales invoices, newest first ---
func GetSales(c *gin.Context) {
	var sales []models.Sale
	if err := database.DB.Order("id DESC").Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, filterAndPage(c, sales, saleSearchFields))
}

// --- GET: Advisory next bill number for the sale form ---
// Read-only preview; the real number is reserved inside the create transaction.
func NextSaleBillNumber(c *gin.Context) {
	billNo, err := database.NextBillNumber(&models.Sale{}, salePrefix(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"billNo": billNo})
}

// --- POST: Create a sales invoice with its items ---
func CreateSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if strings.TrimSpace(req.PartyName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Party name is required"})
		return
	}
	if err := validateBillLines(req.Items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	paymentType, ok := normalizePaymentType(req.PaymentType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment type must be 'credit' or 'cash'"})
		return
	}

	// The stored figures always come from the raw lines, never from the browser
	subtotal, grandTotal := billing.ComputeTotals(toLineInputs(req.Items), req.Discount)

	tx := database.DB.Begin()

	billNo, err := database.ReserveBillNumber(tx, &models.Sale{}, database.DocTypeSale, salePrefix(), req.BillNo, time.Now())
	if err != nil {
		tx.Rollback()
		if errors.Is(err, database.ErrBillNumberTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bill number already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sale := models.Sale{
		PartyName:    strings.TrimSpace(req.PartyName),
		PartyMobile:  req.PartyMobile,
		PartyAddress: req.PartyAddress,
		SaleDate:     req.SaleDate,
		BillNo:       billNo,
		VoucherNo:    req.VoucherNo,
		PaymentType:  paymentType,
		Subtotal:     subtotal,
		Discount:     req.Discount,
		GrandTotal:   grandTotal,
		Remarks:      req.Remarks,
	}
	for _, it := range req.Items {
		sale.Items = append(sale.Items, models.SaleItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Rate:      it.Rate,
			Packing:   it.Packing,
			Amount:    billing.LineAmount(it.Quantity, it.Rate),
		})
	}

	// Header and items go in together; a failure rolls back both
	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": sale.ID, "bill_no": billNo})
}

// --- GET: Single sale with its active items ---
func GetSale(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale ID"})
		return
	}

	var sale models.Sale
	if err := database.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&sale, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}

	c.JSON(http.StatusOK, sale)
}

// --- PUT: Update a sale (items are fully replaced, not diffed) ---
func UpdateSale(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale ID"})
		return
	}

	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := validateBillLines(req.Items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	paymentType, ok := normalizePaymentType(req.PaymentType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment type must be 'credit' or 'cash'"})
		return
	}

	var sale models.Sale
	if err := database.DB.First(&sale, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}

	subtotal, grandTotal := billing.ComputeTotals(toLineInputs(req.Items), req.Discount)

	tx := database.DB.Begin()

	sale.PartyName = req.PartyName
	sale.PartyMobile = req.PartyMobile
	sale.PartyAddress = req.PartyAddress
	sale.SaleDate = req.SaleDate
	if req.BillNo != "" {
		sale.BillNo = req.BillNo
	}
	sale.VoucherNo = req.VoucherNo
	sale.PaymentType = paymentType
	sale.Subtotal = subtotal
	sale.Discount = req.Discount
	sale.GrandTotal = grandTotal
	sale.Remarks = req.Remarks

	if err := tx.Save(&sale).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Retire the old lines and insert the submitted set as-is
	if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, it := range req.Items {
		item := models.SaleItem{
			SaleID:    sale.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Rate:      it.Rate,
			Packing:   it.Packing,
			Amount:    billing.LineAmount(it.Quantity, it.Rate),
		}
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- DELETE: Soft-delete a sale and its items ---
func DeleteSale(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale ID"})
		return
	}

	var sale models.Sale
	if err := database.DB.First(&sale, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}

	tx := database.DB.Begin()
	if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Delete(&sale).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
