package handlers

import (
	"errors"
	"net/http"
	"strconv"

	apierrors "github.com/M-Alradhi/gradproject-api/internal/errors"
	"github.com/M-Alradhi/gradproject-api/internal/middleware"
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/services"
	"github.com/gin-gonic/gin"
)

// MeetingHandler coordinates meeting requests and scheduled meetings.
type MeetingHandler struct {
	meetingService *services.MeetingService
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(meetingService *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		meetingService: meetingService,
	}
}

// RequestMeeting creates a pending meeting request from the authenticated
// student to a supervisor.
func (h *MeetingHandler) RequestMeeting(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type RequestMeetingRequest struct {
		SupervisorID uint64 `json:"supervisor_id" binding:"required"`
		Title        string `json:"title" binding:"required"`
		Date         string `json:"date" binding:"required"`
		Time         string `json:"time" binding:"required"`
		Notes        string `json:"notes"`
	}

	var req RequestMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.meetingService.Request(services.RequestInput{
		StudentID:    userID,
		SupervisorID: req.SupervisorID,
		Title:        req.Title,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
	})
	if err != nil {
		respondMeetingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ListRequests returns meeting requests involving the authenticated user.
func (h *MeetingHandler) ListRequests(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var (
		requests []models.MeetingRequest
		err      error
	)
	if role, ok := middleware.GetRole(c); ok && role == models.RoleSupervisor {
		requests, err = h.meetingService.ListRequestsForSupervisor(userID)
	} else {
		requests, err = h.meetingService.ListRequestsForStudent(userID)
	}
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch meeting requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
	})
}

// ApproveRequest turns a meeting request into a scheduled meeting.
func (h *MeetingHandler) ApproveRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request ID")
		return
	}

	type ApproveRequest struct {
		Location string `json:"location"`
		Link     string `json:"link"`
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	meeting, err := h.meetingService.Approve(requestID, userID, req.Location, req.Link)
	if err != nil {
		respondMeetingError(c, err)
		return
	}

	c.JSON(http.StatusOK, meeting)
}

// RejectRequest declines a meeting request with a mandatory reason.
func (h *MeetingHandler) RejectRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request ID")
		return
	}

	type RejectRequest struct {
		Reason string `json:"reason"`
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.meetingService.Reject(requestID, userID, req.Reason)
	if err != nil {
		respondMeetingError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// ListMeetings returns scheduled meetings involving the authenticated user.
func (h *MeetingHandler) ListMeetings(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	meetings, err := h.meetingService.ListMeetingsForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch meetings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meetings": meetings,
	})
}

func respondMeetingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMeetingFieldsRequired),
		errors.Is(err, services.ErrReasonRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrMeetingRequestNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotRequestRecipient):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeInvalidOperation, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
