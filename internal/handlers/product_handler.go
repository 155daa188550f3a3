package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go-oilmill/internal/cache"
	"go-oilmill/internal/database"
	"go-oilmill/internal/models"

	"github.com/gin-gonic/gin"
)

func productSearchFields(p models.Product) []string {
	return []string{p.Name}
}

// --- GET: List all products ---
func GetProducts(c *gin.Context) {
	ctx := c.Request.Context()
	var products []models.Product

	// 1. Try the cache first (every bill form loads this list)
	if cache.RedisClient != nil {
		raw, err := cache.RedisClient.Get(ctx, cache.ProductListKey).Result()
		if err == nil && json.Unmarshal([]byte(raw), &products) == nil {
			c.JSON(http.StatusOK, filterAndPage(c, products, productSearchFields))
			return
		}
	}

	// 2. Cache miss, hit the DB
	if err := database.DB.Order("id DESC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 3. Refill the cache in the background
	if cache.RedisClient != nil {
		if raw, err := json.Marshal(products); err == nil {
			go cache.RedisClient.Set(context.Background(), cache.ProductListKey, raw, cache.ProductListTTL)
		}
	}

	c.JSON(http.StatusOK, filterAndPage(c, products, productSearchFields))
}

type productRequest struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// --- POST: Add a new product ---
func AddProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name required"})
		return
	}

	product := models.Product{Name: strings.TrimSpace(req.Name)}
	if err := database.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cache.InvalidateProducts()
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": product.ID})
}

// --- PUT: Rename a product ---
// The admin table sends {id, name} in the body rather than the id in the URL.
func UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.ID == 0 || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID & Name required"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, req.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	product.Name = strings.TrimSpace(req.Name)
	if err := database.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cache.InvalidateProducts()
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// --- DELETE: Remove a product (hard delete, id in the body) ---
func DeleteProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID required"})
		return
	}

	result := database.DB.Delete(&models.Product{}, req.ID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	cache.InvalidateProducts()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
