package handlers

import (
	"net/http"

	"go-oilmill/internal/database"
	"go-oilmill/internal/models"

	"github.com/gin-gonic/gin"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Subject string `json:"subject"`
	Reason  string `json:"reason"` // the message body, as the public form names it
}

// --- GET: Contact messages for the enquiries table ---
func GetContactMessages(c *gin.Context) {
	var messages []models.ContactMessage
	if err := database.DB.Order("id DESC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// --- POST: Public contact form submission ---
func SubmitContactForm(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.Name == "" || req.Email == "" || req.Contact == "" || req.Subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields."})
		return
	}

	msg := models.ContactMessage{
		Name:        req.Name,
		Email:       req.Email,
		Contact:     req.Contact,
		Subject:     req.Subject,
		MessageText: req.Reason,
	}
	if err := database.DB.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": msg.ID})
}
