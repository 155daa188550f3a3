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

type purchaseRequest struct {
	PartyName    string            `json:"party_name"`
	PurchaseDate string            `json:"purchase_date"`
	BillNo       string            `json:"bill_no"`
	VoucherNo    string            `json:"voucher_no"`
	PaymentType  string            `json:"payment_type"`
	Discount     float64           `json:"discount"`
	Remarks      string            `json:"remarks"`
	Items        []billItemRequest `json:"items"`
}

func purchaseSearchFields(p models.Purchase) []string {
	return []string{p.PartyName, p.BillNo}
}

// --- GET: List active purchase bills, newest first ---
func GetPurchases(c *gin.Context) {
	var purchases []models.Purchase
	if err := database.DB.Order("id DESC").Find(&purchases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, filterAndPage(c, purchases, purchaseSearchFields))
}

// --- GET: Advisory next bill number for the purchase form ---
func NextPurchaseBillNumber(c *gin.Context) {
	billNo, err := database.NextBillNumber(&models.Purchase{}, purchasePrefix(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"billNo": billNo})
}

// --- POST: Create a purchase bill with its items ---
func CreatePurchase(c *gin.Context) {
	var req purchaseRequest
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

	subtotal, grandTotal := billing.ComputeTotals(toLineInputs(req.Items), req.Discount)

	tx := database.DB.Begin()

	billNo, err := database.ReserveBillNumber(tx, &models.Purchase{}, database.DocTypePurchase, purchasePrefix(), req.BillNo, time.Now())
	if err != nil {
		tx.Rollback()
		if errors.Is(err, database.ErrBillNumberTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bill number already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	purchase := models.Purchase{
		PartyName:    strings.TrimSpace(req.PartyName),
		PurchaseDate: req.PurchaseDate,
		BillNo:       billNo,
		VoucherNo:    req.VoucherNo,
		PaymentType:  paymentType,
		Subtotal:     subtotal,
		Discount:     req.Discount,
		GrandTotal:   grandTotal,
		Remarks:      req.Remarks,
	}
	for _, it := range req.Items {
		purchase.Items = append(purchase.Items, models.PurchaseItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Rate:      it.Rate,
			Packing:   it.Packing,
			Amount:    billing.LineAmount(it.Quantity, it.Rate),
		})
	}

	if err := tx.Create(&purchase).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": purchase.ID, "bill_no": billNo})
}

// --- GET: Single purchase with its active items ---
func GetPurchase(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase ID"})
		return
	}

	var purchase models.Purchase
	if err := database.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&purchase, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		return
	}

	c.JSON(http.StatusOK, purchase)
}

// --- PUT: Update a purchase (items are fully replaced, not diffed) ---
func UpdatePurchase(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase ID"})
		return
	}

	var req purchaseRequest
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

	var purchase models.Purchase
	if err := database.DB.First(&purchase, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		return
	}

	subtotal, grandTotal := billing.ComputeTotals(toLineInputs(req.Items), req.Discount)

	tx := database.DB.Begin()

	purchase.PartyName = req.PartyName
	purchase.PurchaseDate = req.PurchaseDate
	if req.BillNo != "" {
		purchase.BillNo = req.BillNo
	}
	purchase.VoucherNo = req.VoucherNo
	purchase.PaymentType = paymentType
	purchase.Subtotal = subtotal
	purchase.Discount = req.Discount
	purchase.GrandTotal = grandTotal
	purchase.Remarks = req.Remarks

	if err := tx.Save(&purchase).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&models.PurchaseItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, it := range req.Items {
		item := models.PurchaseItem{
			PurchaseID: purchase.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			Rate:       it.Rate,
			Packing:    it.Packing,
			Amount:     billing.LineAmount(it.Quantity, it.Rate),
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

// --- DELETE: Soft-delete a purchase and its items ---
func DeletePurchase(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase ID"})
		return
	}

	var purchase models.Purchase
	if err := database.DB.First(&purchase, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		return
	}

	tx := database.DB.Begin()
	if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&models.PurchaseItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Delete(&purchase).Error; err != nil {
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
