package handlers

import (
	"net/http"
	"strconv"

	"github.com/M-Alradhi/gradproject-api/internal/database"
	"github.com/M-Alradhi/gradproject-api/internal/middleware"
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type DiscussionHandler struct{}

func NewDiscussionHandler() *DiscussionHandler {
	return &DiscussionHandler{}
}

// CreateDiscussion creates a new discussion post
func (h *DiscussionHandler) CreateDiscussion(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type CreateDiscussionRequest struct {
		ProjectID *uint64 `json:"project_id"`
		Title     string  `json:"title" binding:"required"`
		Content   string  `json:"content"`
	}

	var req CreateDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	discussion := models.Discussion{
		ProjectID: req.ProjectID,
		AuthorID:  userID,
		Title:     req.Title,
		Content:   req.Content,
	}

	if err := database.GetDB().Create(&discussion).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create discussion"})
		return
	}

	c.JSON(http.StatusCreated, discussion)
}

// ListDiscussions returns discussions, optionally scoped to one project.
// Pinned posts sort first.
func (h *DiscussionHandler) ListDiscussions(c *gin.Context) {
	pagination := utils.GetPaginationParams(c)

	query := database.GetDB().Model(&models.Discussion{}).Preload("Author")
	if projectID, err := strconv.ParseUint(c.Query("project_id"), 10, 64); err == nil {
		query = query.Where("project_id = ?", projectID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch discussions"})
		return
	}

	var discussions []models.Discussion
	if err := query.
		Order("pinned DESC, created_at DESC").
		Scopes(database.Paginate(pagination)).
		Find(&discussions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch discussions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"discussions": discussions,
		"pagination": utils.PaginationResponse{
			Page:  pagination.Page,
			Limit: pagination.Limit,
			Total: total,
		},
	})
}

// GetDiscussion returns one discussion with its replies
func (h *DiscussionHandler) GetDiscussion(c *gin.Context) {
	discussionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discussion ID"})
		return
	}

	var discussion models.Discussion
	if err := database.GetDB().
		Preload("Author").
		Preload("Replies").
		Preload("Replies.Author").
		First(&discussion, discussionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Discussion not found"})
		return
	}

	c.JSON(http.StatusOK, discussion)
}

// ReplyToDiscussion adds a reply to an open discussion
func (h *DiscussionHandler) ReplyToDiscussion(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	discussionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discussion ID"})
		return
	}

	var discussion models.Discussion
	if err := database.GetDB().First(&discussion, discussionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Discussion not found"})
		return
	}
	if discussion.Closed {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Discussion is closed"})
		return
	}

	type ReplyRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reply := models.DiscussionReply{
		DiscussionID: discussionID,
		AuthorID:     userID,
		Content:      req.Content,
	}

	if err := database.GetDB().Create(&reply).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reply"})
		return
	}

	if discussion.AuthorID != userID {
		database.GetDB().Create(&models.Notification{
			UserID:  discussion.AuthorID,
			Type:    models.NotificationTypeDiscussionActivity,
			Title:   "New reply",
			Message: "Someone replied to your discussion \"" + discussion.Title + "\".",
		})
	}

	c.JSON(http.StatusCreated, reply)
}

// UpdateDiscussion toggles the closed or pinned flags of a discussion
func (h *DiscussionHandler) UpdateDiscussion(c *gin.Context) {
	discussionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discussion ID"})
		return
	}

	var discussion models.Discussion
	if err := database.GetDB().First(&discussion, discussionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Discussion not found"})
		return
	}

	type UpdateRequest struct {
		Closed *bool `json:"closed"`
		Pinned *bool `json:"pinned"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updates := map[string]interface{}{}
	if req.Closed != nil {
		updates["closed"] = *req.Closed
	}
	if req.Pinned != nil {
		updates["pinned"] = *req.Pinned
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := database.GetDB().Model(&discussion).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update discussion"})
		return
	}

	c.JSON(http.StatusOK, discussion)
}
