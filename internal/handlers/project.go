package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

// ProjectHandler coordinates idea promotion, supervisor reassignment and the
// project lifecycle.
type ProjectHandler struct {
	projectRepo    repository.ProjectRepository
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectRepo repository.ProjectRepository, projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectRepo:    projectRepo,
		projectService: projectService,
	}
}

// ListProjects returns projects matching the query filters.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	pagination := utils.GetPaginationParams(c)

	filter := repository.ProjectFilter{
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	}
	if status := c.Query("status"); status != "" {
		s := models.ProjectStatus(status)
		filter.Status = &s
	}
	if supervisorID, err := strconv.ParseUint(c.Query("supervisor_id"), 10, 64); err == nil {
		filter.SupervisorID = &supervisorID
	}
	if studentID, err := strconv.ParseUint(c.Query("student_id"), 10, 64); err == nil {
		filter.StudentID = &studentID
	}

	projects, total, err := h.projectRepo.List(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	projectDTOs := make([]dto.ProjectDTO, len(projects))
	for i, project := range projects {
		projectDTOs[i] = dto.ToProjectDTO(project)
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projectDTOs,
		"pagination": utils.PaginationResponse{
			Page:  pagination.Page,
			Limit: pagination.Limit,
			Total: total,
		},
	})
}

// GetProject returns one project with its roster and supervisors.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectRepo.FindByID(projectID, "Members", "Supervisors")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch project")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// CreateProject creates a project directly, without a backing idea.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Title         string          `json:"title" binding:"required"`
		Description   string          `json:"description"`
		Department    string          `json:"department"`
		SupervisorIDs []uint64        `json:"supervisor_ids" binding:"required"`
		Members       []MemberRequest `json:"members"`
		StartDate     *time.Time      `json:"start_date"`
		EndDate       *time.Time      `json:"end_date"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Title:         req.Title,
		Description:   req.Description,
		Department:    req.Department,
		SupervisorIDs: req.SupervisorIDs,
		Members:       toMemberInputs(req.Members),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ApproveIdea promotes an approved team idea into a project.
func (h *ProjectHandler) ApproveIdea(c *gin.Context) {
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

	type ApproveRequest struct {
		SupervisorIDs []uint64   `json:"supervisor_ids" binding:"required"`
		StartDate     *time.Time `json:"start_date"`
		EndDate       *time.Time `json:"end_date"`
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.PromoteToProject(services.PromoteInput{
		IdeaID:        ideaID,
		ApproverID:    userID,
		SupervisorIDs: req.SupervisorIDs,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// RejectIdea declines an idea with a mandatory reason.
func (h *ProjectHandler) RejectIdea(c *gin.Context) {
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

	type RejectRequest struct {
		Reason string `json:"reason"`
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	idea, err := h.projectService.RejectIdea(ideaID, userID, req.Reason)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIdeaDTO(*idea))
}

// ReassignSupervisor changes a student's supervisor and cascades the change
// to the linked project and team.
func (h *ProjectHandler) ReassignSupervisor(c *gin.Context) {
	studentID, err := strconv.ParseUint(c.Param("studentId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid student ID")
		return
	}

	type ReassignRequest struct {
		SupervisorID uint64 `json:"supervisor_id" binding:"required"`
		Confirmed    bool   `json:"confirmed"`
	}

	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	err = h.projectService.ReassignSupervisor(services.ReassignInput{
		StudentID:       studentID,
		NewSupervisorID: req.SupervisorID,
		Confirmed:       req.Confirmed,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Supervisor reassigned successfully",
	})
}

// UpdateStatus applies a lifecycle transition to a project.
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	type StatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateStatus(projectID, models.ProjectStatus(req.Status))
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProgress sets the progress percentage of a project.
func (h *ProjectHandler) UpdateProgress(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	type ProgressRequest struct {
		Progress *int `json:"progress" binding:"required"`
	}

	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProgress(projectID, *req.Progress)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrIdeaNotFound):
		apierrors.RespondWithError(c, http.StatusNotFound,
			apierrors.NewAPIError(apierrors.ErrCodeIdeaNotFound, err.Error()))
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrSupervisorNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTeamNotFormed):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeTeamNotFormed, err.Error())
	case errors.Is(err, services.ErrMembersNotApproved):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeMembersNotApproved, err.Error())
	case errors.Is(err, services.ErrIdeaNotPromotable),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrNotAStudent):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeInvalidOperation, err.Error())
	case errors.Is(err, services.ErrConfirmationRequired):
		apierrors.Conflict(c, apierrors.ErrCodeConfirmationRequired, err.Error())
	case errors.Is(err, services.ErrSupervisorRequired),
		errors.Is(err, services.ErrProjectTitleRequired),
		errors.Is(err, services.ErrReasonRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
