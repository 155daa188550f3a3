package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"go-oilmill/internal/database"
	"go-oilmill/internal/models"

	"github.com/gin-gonic/gin"
)

type reviewRequest struct {
	ReviewerName string `json:"reviewer_name"`
	Rating       int    `json:"rating"`
	ReviewText   string `json:"review_text"`
	ReviewDate   string `json:"review_date"`
}

func (r reviewRequest) validate() (string, bool) {
	if strings.TrimSpace(r.ReviewerName) == "" || strings.TrimSpace(r.ReviewText) == "" || r.ReviewDate == "" {
		return "Missing required fields", false
	}
	if r.Rating < 1 || r.Rating > 5 {
		return "Rating must be an integer between 1 and 5", false
	}
	return "", true
}

func reviewSearchFields(r models.Review) []string {
	return []string{r.ReviewerName, r.ReviewText}
}

// --- GET: List reviews, newest first ---
func GetReviews(c *gin.Context) {
	var reviews []models.Review
	if err := database.DB.Order("id DESC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, filterAndPage(c, reviews, reviewSearchFields))
}

// --- POST: Add a review ---
func AddReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if msg, ok := req.validate(); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	review := models.Review{
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		ReviewText:   req.ReviewText,
		ReviewDate:   req.ReviewDate,
	}
	if err := database.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": review.ID})
}

// --- GET: Single review ---
func GetReview(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var review models.Review
	if err := database.DB.First(&review, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	c.JSON(http.StatusOK, review)
}

// --- PUT: Full-row update, returns the updated record ---
func UpdateReview(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if msg, ok := req.validate(); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var review models.Review
	if err := database.DB.First(&review, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	review.ReviewerName = req.ReviewerName
	review.Rating = req.Rating
	review.ReviewText = req.ReviewText
	review.ReviewDate = req.ReviewDate

	if err := database.DB.Save(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, review)
}

// --- DELETE: Remove a review (hard delete) ---
func DeleteReview(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	result := database.DB.Delete(&models.Review{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
