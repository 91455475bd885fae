package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	apierrors "github.com/M-Alradhi/gradproject-api/internal/errors"
	"github.com/M-Alradhi/gradproject-api/internal/middleware"
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"github.com/M-Alradhi/gradproject-api/internal/services"
	"github.com/M-Alradhi/gradproject-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// TaskHandler coordinates task assignment, submission and grading.
type TaskHandler struct {
	taskService    *services.TaskService
	suggestService *services.SuggestService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, suggestService *services.SuggestService) *TaskHandler {
	return &TaskHandler{
		taskService:    taskService,
		suggestService: suggestService,
	}
}

// CreateTask assigns a task to every member of a project's team.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		ProjectID   uint64     `json:"project_id" binding:"required"`
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		MaxGrade    float64    `json:"max_grade"`
		Weight      float64    `json:"weight"`
		DueDate     *time.Time `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tasks, err := h.taskService.CreateTeamTask(services.CreateTaskInput{
		ProjectID:    req.ProjectID,
		SupervisorID: userID,
		Title:        req.Title,
		Description:  req.Description,
		MaxGrade:     req.MaxGrade,
		Weight:       req.Weight,
		DueDate:      req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"tasks": tasks,
	})
}

// ListTasks returns task rows matching the query filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	pagination := utils.GetPaginationParams(c)

	filter := repository.TaskFilter{
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	}
	if projectID, err := strconv.ParseUint(c.Query("project_id"), 10, 64); err == nil {
		filter.ProjectID = &projectID
	}
	if studentID, err := strconv.ParseUint(c.Query("student_id"), 10, 64); err == nil {
		filter.StudentID = &studentID
	}
	if supervisorID, err := strconv.ParseUint(c.Query("supervisor_id"), 10, 64); err == nil {
		filter.SupervisorID = &supervisorID
	}
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		filter.Status = &s
	}

	tasks, total, err := h.taskService.ListTasks(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"pagination": utils.PaginationResponse{
			Page:  pagination.Page,
			Limit: pagination.Limit,
			Total: total,
		},
	})
}

// GetTask returns a single task row with its files.
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// SubmitTask submits the authenticated student's task with optional files.
func (h *TaskHandler) SubmitTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type FileRequest struct {
		Name        string `json:"name" binding:"required"`
		URL         string `json:"url" binding:"required"`
		Size        int64  `json:"size"`
		ContentType string `json:"content_type"`
	}
	type SubmitRequest struct {
		Files []FileRequest `json:"files"`
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	files := make([]models.TaskFile, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, models.TaskFile{
			Name:        f.Name,
			URL:         f.URL,
			Size:        f.Size,
			ContentType: f.ContentType,
		})
	}

	task, err := h.taskService.Submit(services.SubmitInput{
		TaskID:    taskID,
		StudentID: userID,
		Files:     files,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// GradeTask records a grade and feedback on a submitted task.
func (h *TaskHandler) GradeTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type GradeRequest struct {
		Grade    *float64 `json:"grade" binding:"required"`
		Feedback string   `json:"feedback"`
	}

	var req GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Grade(services.GradeInput{
		TaskID:       taskID,
		SupervisorID: userID,
		Grade:        *req.Grade,
		Feedback:     req.Feedback,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// SuggestTasks proposes a task breakdown for a project description.
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	if h.suggestService == nil {
		apierrors.ServiceUnavailable(c, "Task suggestions are not configured")
		return
	}

	type SuggestRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tasks, err := h.suggestService.SuggestTasks(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		apierrors.ServiceUnavailable(c, "Failed to generate task suggestions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskTitleRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound), errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskNotOwned), errors.Is(err, services.ErrTaskNotSupervised):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrGradeOutOfRange):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrNoAssignableMember):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeInvalidOperation, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
