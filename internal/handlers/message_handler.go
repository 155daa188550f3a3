package handlers

import (
	"net/http"
	"strconv"

	"go-oilmill/internal/database"
	"go-oilmill/internal/models"

	"github.com/gin-gonic/gin"
)

func messageSearchFields(m models.ContactMessage) []string {
	return []string{m.Name, m.Email, m.Subject}
}

// --- GET: List contact messages, newest first ---
func GetMessages(c *gin.Context) {
	var messages []models.ContactMessage
	if err := database.DB.Order("id DESC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, filterAndPage(c, messages, messageSearchFields))
}

type messageRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Contact     string `json:"contact"`
	Subject     string `json:"subject"`
	MessageText string `json:"message_text"`
}

// --- POST: Store a message directly (admin-side entry) ---
func AddMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.Name == "" || req.Email == "" || req.MessageText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	msg := models.ContactMessage{
		Name:        req.Name,
		Email:       req.Email,
		Contact:     req.Contact,
		Subject:     req.Subject,
		MessageText: req.MessageText,
	}
	if err := database.DB.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": msg.ID})
}

// --- GET: Single message ---
func GetMessage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	var msg models.ContactMessage
	if err := database.DB.First(&msg, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}
	c.JSON(http.StatusOK, msg)
}

// --- PUT: Partial update (mark read/unread, fix a typo in the subject, ...) ---
// At least one field must be present; only the sent fields change.
func UpdateMessage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Email       *string `json:"email"`
		Contact     *string `json:"contact"`
		Subject     *string `json:"subject"`
		MessageText *string `json:"message_text"`
		Status      *int    `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Contact != nil {
		updates["contact"] = *req.Contact
	}
	if req.Subject != nil {
		updates["subject"] = *req.Subject
	}
	if req.MessageText != nil {
		updates["message_text"] = *req.MessageText
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields provided to update"})
		return
	}

	var msg models.ContactMessage
	if err := database.DB.First(&msg, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	if err := database.DB.Model(&msg).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, msg)
}

// --- DELETE: Remove a message (hard delete) ---
func DeleteMessage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	result := database.DB.Delete(&models.ContactMessage{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
