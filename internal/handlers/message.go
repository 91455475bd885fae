package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/M-Alradhi/gradproject-api/internal/database"
	"github.com/M-Alradhi/gradproject-api/internal/middleware"
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/gin-gonic/gin"
)

type MessageHandler struct{}

func NewMessageHandler() *MessageHandler {
	return &MessageHandler{}
}

// SendMessage creates a direct message to another user
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type SendMessageRequest struct {
		RecipientID uint64 `json:"recipient_id" binding:"required"`
		Content     string `json:"content" binding:"required"`
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var recipient models.User
	if err := database.GetDB().First(&recipient, req.RecipientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		return
	}

	message := models.Message{
		SenderID:    userID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
	}

	if err := database.GetDB().Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	var sender models.User
	if err := database.GetDB().First(&sender, userID).Error; err == nil {
		database.GetDB().Create(&models.Notification{
			UserID:  req.RecipientID,
			Type:    models.NotificationTypeMessageReceived,
			Title:   "New message",
			Message: "You have a new message from " + sender.Name + ".",
		})
	}

	c.JSON(http.StatusCreated, message)
}

// ListConversation returns the messages between the user and one peer,
// oldest first, and marks the received ones as read.
func (h *MessageHandler) ListConversation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	peerID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var messages []models.Message
	if err := database.GetDB().
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, peerID, peerID, userID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	now := time.Now()
	database.GetDB().Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read_at IS NULL", peerID, userID).
		Update("read_at", now)

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
	})
}

// ListInbox returns the latest message of each conversation the user is in
func (h *MessageHandler) ListInbox(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var messages []models.Message
	if err := database.GetDB().
		Preload("Sender").
		Preload("Recipient").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(200).
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	// Keep only the newest message per peer.
	seen := make(map[uint64]bool)
	var latest []models.Message
	for _, m := range messages {
		peer := m.SenderID
		if peer == userID {
			peer = m.RecipientID
		}
		if seen[peer] {
			continue
		}
		seen[peer] = true
		latest = append(latest, m)
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": latest,
	})
}
