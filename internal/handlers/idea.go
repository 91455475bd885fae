package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/M-Alradhi/gradproject-api/internal/dto"
	apierrors "github.com/M-Alradhi/gradproject-api/internal/errors"
	"github.com/M-Alradhi/gradproject-api/internal/middleware"
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"github.com/M-Alradhi/gradproject-api/internal/services"
	"github.com/M-Alradhi/gradproject-api/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// IdeaHandler coordinates idea submission, claiming and team formation.
type IdeaHandler struct {
	ideaRepo      repository.IdeaRepository
	teamService   *services.TeamService
	claimService  *services.ClaimService
	notifications *services.NotificationService
}

// NewIdeaHandler creates a new IdeaHandler.
func NewIdeaHandler(ideaRepo repository.IdeaRepository, teamService *services.TeamService, claimService *services.ClaimService, notifications *services.NotificationService) *IdeaHandler {
	return &IdeaHandler{
		ideaRepo:      ideaRepo,
		teamService:   teamService,
		claimService:  claimService,
		notifications: notifications,
	}
}

// MemberRequest identifies a candidate team member in request bodies.
type MemberRequest struct {
	UserID        *uint64 `json:"user_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	StudentNumber string  `json:"student_number"`
}

func toMemberInputs(reqs []MemberRequest) []services.MemberInput {
	inputs := make([]services.MemberInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, services.MemberInput{
			UserID:        r.UserID,
			Name:          r.Name,
			Email:         r.Email,
			StudentNumber: r.StudentNumber,
		})
	}
	return inputs
}

// ListIdeas returns ideas matching the query filters.
func (h *IdeaHandler) ListIdeas(c *gin.Context) {
	pagination := utils.GetPaginationParams(c)

	filter := repository.IdeaFilter{
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	}
	if status := c.Query("status"); status != "" {
		s := models.IdeaStatus(status)
		filter.Status = &s
	}
	if supervisorID, err := strconv.ParseUint(c.Query("supervisor_id"), 10, 64); err == nil {
		filter.SupervisorID = &supervisorID
	}
	if studentID, err := strconv.ParseUint(c.Query("student_id"), 10, 64); err == nil {
		filter.StudentID = &studentID
	}

	ideas, total, err := h.ideaRepo.List(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch ideas")
		return
	}

	ideaDTOs := make([]dto.IdeaDTO, len(ideas))
	for i, idea := range ideas {
		ideaDTOs[i] = dto.ToIdeaDTO(idea)
	}

	c.JSON(http.StatusOK, gin.H{
		"ideas": ideaDTOs,
		"pagination": utils.PaginationResponse{
			Page:  pagination.Page,
			Limit: pagination.Limit,
			Total: total,
		},
	})
}

// GetIdea returns one idea with its roster.
func (h *IdeaHandler) GetIdea(c *gin.Context) {
	ideaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid idea ID")
		return
	}

	idea, err := h.ideaRepo.FindByID(ideaID, "TeamMembers")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Idea not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch idea")
		return
	}

	c.JSON(http.StatusOK, dto.ToIdeaDTO(*idea))
}

// SubmitIdea creates a student-authored idea, optionally with a team roster.
func (h *IdeaHandler) SubmitIdea(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SubmitIdeaRequest struct {
		Title       string          `json:"title" binding:"required"`
		Description string          `json:"description"`
		Department  string          `json:"department"`
		Members     []MemberRequest `json:"members"`
	}

	var req SubmitIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	idea, err := h.teamService.SubmitIdea(services.SubmitIdeaInput{
		Title:       req.Title,
		Description: req.Description,
		Department:  req.Department,
		StudentID:   userID,
		Members:     toMemberInputs(req.Members),
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToIdeaDTO(*idea))
}

// ProposeIdea creates a supervisor-proposed idea open for claiming.
func (h *IdeaHandler) ProposeIdea(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type ProposeIdeaRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Department  string `json:"department"`
	}

	var req ProposeIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	idea, err := h.teamService.ProposeIdea(services.ProposeIdeaInput{
		Title:        req.Title,
		Description:  req.Description,
		Department:   req.Department,
		SupervisorID: userID,
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToIdeaDTO(*idea))
}

// ClaimIdea takes an available idea for the authenticated student.
func (h *IdeaHandler) ClaimIdea(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	ideaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid idea ID")
		return
	}

	idea, err := h.claimService.Claim(userID, ideaID)
	if err != nil {
		respondClaimError(c, err)
		return
	}

	if idea.SupervisorID != nil {
		h.notifications.Notify(*idea.SupervisorID, models.NotificationTypeIdeaClaimed,
			"Idea claimed",
			fmt.Sprintf("Your idea %q has been claimed by %s.", idea.Title, idea.SelectedByName))
	}

	c.JSON(http.StatusOK, dto.ToIdeaDTO(*idea))
}

// ReleaseIdea withdraws the authenticated student's current claim.
func (h *IdeaHandler) ReleaseIdea(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	idea, err := h.claimService.Release(userID)
	if err != nil {
		respondClaimError(c, err)
		return
	}

	// The claim can point at an idea that no longer exists; the release
	// still clears the user's side.
	if idea == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Claim released",
		})
		return
	}

	if idea.SupervisorID != nil {
		h.notifications.Notify(*idea.SupervisorID, models.NotificationTypeIdeaReleased,
			"Idea released",
			fmt.Sprintf("The claim on your idea %q has been withdrawn.", idea.Title))
	}

	c.JSON(http.StatusOK, dto.ToIdeaDTO(*idea))
}

// FormTeam replaces the roster of an idea with a coordinator-chosen one.
func (h *IdeaHandler) FormTeam(c *gin.Context) {
	ideaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid idea ID")
		return
	}

	type FormTeamRequest struct {
		Members []MemberRequest `json:"members" binding:"required"`
	}

	var req FormTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	idea, err := h.teamService.FormTeam(ideaID, toMemberInputs(req.Members))
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIdeaDTO(*idea))
}

// AddTeamMember appends a candidate to the roster of a forming team.
func (h *IdeaHandler) AddTeamMember(c *gin.Context) {
	ideaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid idea ID")
		return
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.teamService.AddTeamMember(ideaID, services.MemberInput{
		UserID:        req.UserID,
		Name:          req.Name,
		Email:         req.Email,
		StudentNumber: req.StudentNumber,
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamMemberDTO(*member))
}

// RemoveTeamMember removes a non-leader roster entry.
func (h *IdeaHandler) RemoveTeamMember(c *gin.Context) {
	ideaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid idea ID")
		return
	}
	memberID, err := strconv.ParseUint(c.Param("memberId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid member ID")
		return
	}

	if err := h.teamService.RemoveTeamMember(ideaID, memberID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

// ApproveMembership records the authenticated member's acceptance of the team.
func (h *IdeaHandler) ApproveMembership(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	ideaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid idea ID")
		return
	}

	idea, err := h.teamService.ApproveMembership(ideaID, userID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIdeaDTO(*idea))
}

func respondClaimError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAlreadyHaveIdea):
		apierrors.Conflict(c, apierrors.ErrCodeAlreadyHaveIdea, err.Error())
	case errors.Is(err, services.ErrIdeaNotAvailable):
		apierrors.Conflict(c, apierrors.ErrCodeNotAvailable, err.Error())
	case errors.Is(err, services.ErrIdeaNotFound):
		apierrors.RespondWithError(c, http.StatusNotFound,
			apierrors.NewAPIError(apierrors.ErrCodeIdeaNotFound, err.Error()))
	case errors.Is(err, services.ErrNoActiveClaim):
		apierrors.Conflict(c, apierrors.ErrCodeInvalidOperation, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrIdeaTitleRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrIdeaNotFound):
		apierrors.RespondWithError(c, http.StatusNotFound,
			apierrors.NewAPIError(apierrors.ErrCodeIdeaNotFound, err.Error()))
	case errors.Is(err, services.ErrMemberNotFound), errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrLeaderImmutable):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeLeaderImmutable, err.Error())
	case errors.Is(err, services.ErrDuplicateMember):
		apierrors.Conflict(c, apierrors.ErrCodeDuplicateMember, err.Error())
	case errors.Is(err, services.ErrStudentBusy):
		apierrors.Conflict(c, apierrors.ErrCodeStudentBusy, err.Error())
	case errors.Is(err, services.ErrMemberUnresolvable):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeUnresolvedReference, err.Error())
	case errors.Is(err, services.ErrTeamFull), errors.Is(err, services.ErrIdeaNotEditable):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeInvalidOperation, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
