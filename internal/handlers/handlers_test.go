package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go-oilmill/internal/billing"
	"go-oilmill/internal/database"
	"go-oilmill/internal/middleware"
	"go-oilmill/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

// setupRouter gives each test a fresh in-memory DB and the full route table.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Use(db))

	r := gin.New()
	r.POST("/api/admin/login", Login)

	api := r.Group("/api")
	{
		api.GET("/products", GetProducts)
		api.POST("/products", AddProduct)
		api.PUT("/products", UpdateProduct)
		api.DELETE("/products", DeleteProduct)

		api.GET("/purchases", GetPurchases)
		api.POST("/purchases", CreatePurchase)
		api.GET("/purchases/next-bill-number", NextPurchaseBillNumber)
		api.GET("/purchases/:id", GetPurchase)
		api.PUT("/purchases/:id", UpdatePurchase)
		api.DELETE("/purchases/:id", DeletePurchase)

		api.GET("/sales", GetSales)
		api.POST("/sales", CreateSale)
		api.GET("/sales/next-bill-number", NextSaleBillNumber)
		api.GET("/sales/:id", GetSale)
		api.PUT("/sales/:id", UpdateSale)
		api.DELETE("/sales/:id", DeleteSale)

		api.GET("/reviews", GetReviews)
		api.POST("/reviews", AddReview)
		api.GET("/reviews/:id", GetReview)
		api.PUT("/reviews/:id", UpdateReview)
		api.DELETE("/reviews/:id", DeleteReview)

		api.GET("/messages", GetMessages)
		api.POST("/messages", AddMessage)
		api.GET("/messages/:id", GetMessage)
		api.PUT("/messages/:id", UpdateMessage)
		api.DELETE("/messages/:id", DeleteMessage)

		api.GET("/contact", GetContactMessages)
		api.POST("/contact", SubmitContactForm)

		admin := api.Group("/")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", AskAI)
		}
	}
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func seedProduct(t *testing.T, r http.Handler, name string) uint {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/products", gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		ID uint `json:"id"`
	}
	decode(t, w, &resp)
	return resp.ID
}

// --- Products ---

func TestProductCRUD(t *testing.T) {
	r := setupRouter(t)

	id := seedProduct(t, r, "Groundnut Oil")

	var list []models.Product
	w := doJSON(r, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Groundnut Oil", list[0].Name)

	w = doJSON(r, http.MethodPut, "/api/products", gin.H{"id": id, "name": "Filtered Groundnut Oil"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/products", gin.H{"id": id})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/products", nil)
	decode(t, w, &list)
	assert.Empty(t, list)
}

func TestProductValidation(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/products", gin.H{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/api/products", gin.H{"name": "No ID"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/api/products", gin.H{"id": 999, "name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/products", gin.H{"id": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductListFilterAndPage(t *testing.T) {
	r := setupRouter(t)
	for _, name := range []string{"Groundnut Oil", "Sesame Oil", "Castor Oil", "Coconut Oil"} {
		seedProduct(t, r, name)
	}

	var list []models.Product
	w := doJSON(r, http.MethodGet, "/api/products?search=coconut", nil)
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Coconut Oil", list[0].Name)

	// No matches comes back as an empty list, not an error
	w = doJSON(r, http.MethodGet, "/api/products?search=sunflower", nil)
	decode(t, w, &list)
	assert.Empty(t, list)

	w = doJSON(r, http.MethodGet, "/api/products?page=2&per_page=3", nil)
	decode(t, w, &list)
	assert.Len(t, list, 1)
}

// --- Sales ---

func saleBody(productID uint, overrides gin.H) gin.H {
	body := gin.H{
		"party_name": "Patel Traders",
		"sale_date":  "2025-07-10",
		"discount":   10,
		"items": []gin.H{
			{"product_id": productID, "quantity": 2, "rate": 100, "packing": "15kg tin"},
			{"product_id": productID, "quantity": 1, "rate": 50, "packing": "5kg tin"},
		},
	}
	for k, v := range overrides {
		body[k] = v
	}
	return body
}

func TestCreateSaleValidation(t *testing.T) {
	r := setupRouter(t)
	pid := seedProduct(t, r, "Groundnut Oil")

	// Empty item list
	w := doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, gin.H{"items": []gin.H{}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing party name
	w = doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, gin.H{"party_name": " "}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Item without a selected product
	w = doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, gin.H{
		"items": []gin.H{{"product_id": 0, "quantity": 1, "rate": 10}},
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-positive quantity
	w = doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, gin.H{
		"items": []gin.H{{"product_id": pid, "quantity": 0, "rate": 10}},
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown payment type
	w = doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, gin.H{"payment_type": "cheque"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// None of the rejects left a row behind
	var count int64
	database.DB.Model(&models.Sale{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateSaleComputesTotalsServerSide(t *testing.T) {
	r := setupRouter(t)
	pid := seedProduct(t, r, "Groundnut Oil")

	// Client-side figures in the payload must be ignored
	body := saleBody(pid, gin.H{"subtotal": 1.0, "grand_total": 2.0})
	w := doJSON(r, http.MethodPost, "/api/sales", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID uint `json:"id"`
	}
	decode(t, w, &created)

	var sale models.Sale
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/sales/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &sale)

	assert.Equal(t, 250.0, sale.Subtotal)
	assert.Equal(t, 10.0, sale.Discount)
	assert.Equal(t, 240.0, sale.GrandTotal)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, 200.0, sale.Items[0].Amount)
	assert.Equal(t, 50.0, sale.Items[1].Amount)
}

func TestSaleBillNumberSequence(t *testing.T) {
	r := setupRouter(t)
	pid := seedProduct(t, r, "Groundnut Oil")
	prefix := billing.BillPrefix(billing.DefaultSalePrefix, time.Now())

	var created struct {
		BillNo string `json:"bill_no"`
	}

	w := doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, nil))
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &created)
	assert.Equal(t, prefix+"0001", created.BillNo)

	w = doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, nil))
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &created)
	assert.Equal(t, prefix+"0002", created.BillNo)

	// The advisory preview agrees with the reserved sequence
	var next struct {
		BillNo string `json:"billNo"`
	}
	w = doJSON(r, http.MethodGet, "/api/sales/next-bill-number", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &next)
	assert.Equal(t, prefix+"0003", next.BillNo)
}

func TestSaleSubmittedBillNumberAdvancesCounter(t *testing.T) {
	r := setupRouter(t)
	pid := seedProduct(t, r, "Groundnut Oil")
	prefix := billing.BillPrefix(billing.DefaultSalePrefix, time.Now())

	w := doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, gin.H{"bill_no": prefix + "0005"}))
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate of an operator-supplied number is rejected
	w = doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, gin.H{"bill_no": prefix + "0005"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The counter moved past the supplied suffix
	var created struct {
		BillNo string `json:"bill_no"`
	}
	w = doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, nil))
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &created)
	assert.Equal(t, prefix+"0006", created.BillNo)
}

func TestUpdateSaleReplacesItems(t *testing.T) {
	r := setupRouter(t)
	pid := seedProduct(t, r, "Groundnut Oil")

	w := doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID uint `json:"id"`
	}
	decode(t, w, &created)

	update := saleBody(pid, gin.H{
		"party_name": "Shah & Sons",
		"discount":   0,
		"items": []gin.H{
			{"product_id": pid, "quantity": 4, "rate": 75, "packing": "1L pouch"},
		},
	})
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/sales/%d", created.ID), update)
	require.Equal(t, http.StatusOK, w.Code)

	var sale models.Sale
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/sales/%d", created.ID), nil)
	decode(t, w, &sale)

	assert.Equal(t, "Shah & Sons", sale.PartyName)
	assert.Equal(t, 300.0, sale.Subtotal)
	assert.Equal(t, 300.0, sale.GrandTotal)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 4.0, sale.Items[0].Quantity)

	// The old lines are retired, not erased
	var total int64
	database.DB.Unscoped().Model(&models.SaleItem{}).Where("sale_id = ?", created.ID).Count(&total)
	assert.Equal(t, int64(3), total)
}

func TestUpdateSaleRejectsEmptyItems(t *testing.T) {
	r := setupRouter(t)
	pid := seedProduct(t, r, "Groundnut Oil")

	w := doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID uint `json:"id"`
	}
	decode(t, w, &created)

	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/sales/%d", created.ID),
		saleBody(pid, gin.H{"items": []gin.H{}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSoftDeleteSale(t *testing.T) {
	r := setupRouter(t)
	pid := seedProduct(t, r, "Groundnut Oil")

	w := doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID uint `json:"id"`
	}
	decode(t, w, &created)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/sales/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Gone from the list and the detail read
	var list []models.Sale
	w = doJSON(r, http.MethodGet, "/api/sales", nil)
	decode(t, w, &list)
	assert.Empty(t, list)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/sales/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Deleting twice is a 404, not a second delete
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/sales/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Still present in the underlying storage
	var count int64
	database.DB.Unscoped().Model(&models.Sale{}).Count(&count)
	assert.Equal(t, int64(1), count)
	database.DB.Unscoped().Model(&models.SaleItem{}).Where("sale_id = ? AND deleted_at IS NOT NULL", created.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

// --- Purchases ---

func TestPurchaseLifecycle(t *testing.T) {
	r := setupRouter(t)
	pid := seedProduct(t, r, "Groundnut Seed")
	prefix := billing.BillPrefix(billing.DefaultPurchasePrefix, time.Now())

	body := gin.H{
		"party_name":    "Mehta Agro",
		"purchase_date": "2025-07-01",
		"discount":      5,
		"items": []gin.H{
			{"product_id": pid, "quantity": 10, "rate": 45.5, "packing": "50kg bag"},
		},
	}
	w := doJSON(r, http.MethodPost, "/api/purchases", body)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID     uint   `json:"id"`
		BillNo string `json:"bill_no"`
	}
	decode(t, w, &created)
	assert.Equal(t, prefix+"0001", created.BillNo)

	var purchase models.Purchase
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/purchases/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &purchase)
	assert.Equal(t, 455.0, purchase.Subtotal)
	assert.Equal(t, 450.0, purchase.GrandTotal)
	require.Len(t, purchase.Items, 1)

	body["items"] = []gin.H{
		{"product_id": pid, "quantity": 20, "rate": 44, "packing": "50kg bag"},
	}
	body["discount"] = 0
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/purchases/%d", created.ID), body)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/purchases/%d", created.ID), nil)
	decode(t, w, &purchase)
	assert.Equal(t, 880.0, purchase.GrandTotal)
	require.Len(t, purchase.Items, 1)
	assert.Equal(t, 20.0, purchase.Items[0].Quantity)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/purchases/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/purchases/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaleAndPurchaseCountersAreIndependent(t *testing.T) {
	r := setupRouter(t)
	pid := seedProduct(t, r, "Groundnut Oil")

	w := doJSON(r, http.MethodPost, "/api/sales", saleBody(pid, nil))
	require.Equal(t, http.StatusCreated, w.Code)

	var next struct {
		BillNo string `json:"billNo"`
	}
	w = doJSON(r, http.MethodGet, "/api/purchases/next-bill-number", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &next)
	assert.Equal(t, billing.BillPrefix(billing.DefaultPurchasePrefix, time.Now())+"0001", next.BillNo)
}

// --- Reviews ---

func TestReviewValidationAndCRUD(t *testing.T) {
	r := setupRouter(t)

	valid := gin.H{
		"reviewer_name": "Ramesh",
		"rating":        5,
		"review_text":   "Best groundnut oil in the district.",
		"review_date":   "2025-06-20",
	}

	for _, rating := range []int{0, 6, -1} {
		bad := gin.H{}
		for k, v := range valid {
			bad[k] = v
		}
		bad["rating"] = rating
		w := doJSON(r, http.MethodPost, "/api/reviews", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d should be rejected", rating)
	}

	w := doJSON(r, http.MethodPost, "/api/reviews", valid)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID uint `json:"id"`
	}
	decode(t, w, &created)

	valid["rating"] = 4
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/reviews/%d", created.ID), valid)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Review
	decode(t, w, &updated)
	assert.Equal(t, 4, updated.Rating)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/reviews/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/reviews/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Contact form & messages ---

func TestContactFormAndMessageStatus(t *testing.T) {
	r := setupRouter(t)

	// Public form requires name, email, contact and subject
	w := doJSON(r, http.MethodPost, "/api/contact", gin.H{
		"name": "Suresh", "email": "suresh@example.com", "contact": "9876543210",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/contact", gin.H{
		"name": "Suresh", "email": "suresh@example.com", "contact": "9876543210",
		"subject": "Bulk order", "reason": "Need 200L of sesame oil.",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		ID uint `json:"id"`
	}
	decode(t, w, &created)

	// New messages start unread
	var msg models.ContactMessage
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/messages/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &msg)
	assert.Equal(t, 0, msg.Status)
	assert.Equal(t, "Need 200L of sesame oil.", msg.MessageText)

	// Partial update: mark read without touching anything else
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/messages/%d", created.ID), gin.H{"status": 1})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &msg)
	assert.Equal(t, 1, msg.Status)
	assert.Equal(t, "Suresh", msg.Name)

	// An empty update body is a validation error
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/messages/%d", created.ID), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/messages/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/messages/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Admin auth ---

func TestAdminLoginAndGuard(t *testing.T) {
	r := setupRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("mill@123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, database.DB.Create(&models.AdminUser{
		Email: "owner@oilmill.example", PasswordHash: string(hash), Role: "admin",
	}).Error)

	w := doJSON(r, http.MethodPost, "/api/admin/login", gin.H{
		"email": "owner@oilmill.example", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/admin/login", gin.H{
		"email": "owner@oilmill.example", "password": "mill@123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	decode(t, w, &login)
	assert.Equal(t, "admin", login.Role)
	assert.NotEmpty(t, login.Token)

	// The assistant route is closed without a token
	w = doJSON(r, http.MethodPost, "/api/ask", gin.H{"message": "How were sales last month?"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// With a valid token the guard lets the request through; without a
	// Gemini key configured the handler reports a server error.
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(gin.H{"message": "How were sales last month?"})
	req := httptest.NewRequest(http.MethodPost, "/api/ask", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
	assert.NotEqual(t, http.StatusForbidden, rec.Code)
}
