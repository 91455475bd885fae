package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskTitleRequired  = errors.New("task title is required")
	ErrTaskNotOwned       = errors.New("task does not belong to this student")
	ErrTaskNotSupervised  = errors.New("task does not belong to this supervisor")
	ErrGradeOutOfRange    = errors.New("grade exceeds the task's maximum")
	ErrNoAssignableMember = errors.New("project has no members with resolvable user ids")
)

// TaskService manages per-student task rows. A task assigned to a team is one
// row per member sharing the same (project, title) pair; submit and grade
// keep every sibling row in the same status.
type TaskService struct {
	taskRepo      repository.TaskRepository
	projectRepo   repository.ProjectRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, notifications *NotificationService) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		projectRepo:   projectRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// CreateTaskInput represents a logical task assigned to a project's team.
type CreateTaskInput struct {
	ProjectID    uint64
	SupervisorID uint64
	Title        string
	Description  string
	MaxGrade     float64
	Weight       float64
	DueDate      *time.Time
}

// CreateTeamTask materializes one task row per project member with a
// resolvable user id, so each student is individually gradable.
func (s *TaskService) CreateTeamTask(input CreateTaskInput) ([]models.Task, error) {
	if input.Title == "" {
		return nil, ErrTaskTitleRequired
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	members, err := s.projectRepo.ListMembers(input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}

	if input.MaxGrade <= 0 {
		input.MaxGrade = 100
	}
	if input.Weight <= 0 {
		input.Weight = 1
	}

	seen := make(map[uint64]struct{}, len(members))
	var tasks []models.Task
	for _, m := range members {
		user, err := resolveMember(s.userRepo, memberRef{UserID: m.UserID, Email: m.Email, StudentNumber: m.StudentNumber})
		if err != nil || user == nil {
			continue
		}
		if _, dup := seen[user.ID]; dup {
			continue
		}
		seen[user.ID] = struct{}{}
		tasks = append(tasks, models.Task{
			ProjectID:    input.ProjectID,
			StudentID:    user.ID,
			SupervisorID: &input.SupervisorID,
			Title:        input.Title,
			Description:  input.Description,
			MaxGrade:     input.MaxGrade,
			Weight:       input.Weight,
			Status:       models.TaskStatusPending,
			DueDate:      input.DueDate,
		})
	}

	if len(tasks) == 0 {
		return nil, ErrNoAssignableMember
	}

	if err := s.taskRepo.CreateBatch(tasks); err != nil {
		return nil, fmt.Errorf("failed to create tasks: %w", err)
	}

	recipients := make([]uint64, 0, len(tasks))
	for _, t := range tasks {
		recipients = append(recipients, t.StudentID)
	}
	s.notifications.NotifyAll(recipients, models.NotificationTypeTaskAssigned,
		"New task assigned",
		fmt.Sprintf("A new task %q has been assigned to your project.", input.Title))

	return tasks, nil
}

// SubmitInput represents a student's submission of a task.
type SubmitInput struct {
	TaskID    uint64
	StudentID uint64
	Files     []models.TaskFile
}

// Submit moves a task to submitted. The status change fans out to every
// sibling row of the logical task; uploaded files attach only to the acting
// student's own row.
func (s *TaskService) Submit(input SubmitInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(input.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	if task.StudentID != input.StudentID {
		return nil, ErrTaskNotOwned
	}
	if !models.CanTransitionTask(task.Status, models.TaskStatusSubmitted) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	if err := s.taskRepo.UpdateSiblings(task.ProjectID, task.Title, map[string]interface{}{
		"status":       models.TaskStatusSubmitted,
		"submitted_at": now,
	}); err != nil {
		return nil, fmt.Errorf("failed to submit task: %w", err)
	}

	for i := range input.Files {
		input.Files[i].TaskID = task.ID
		input.Files[i].Origin = models.FileOriginStudent
		if err := s.taskRepo.AddFile(&input.Files[i]); err != nil {
			return nil, fmt.Errorf("failed to attach file: %w", err)
		}
	}

	if task.SupervisorID != nil {
		s.notifications.Notify(*task.SupervisorID, models.NotificationTypeTaskSubmitted,
			"Task submitted",
			fmt.Sprintf("Task %q has been submitted.", task.Title))
	}

	return s.taskRepo.FindByID(task.ID, "Files")
}

// GradeInput represents a supervisor grading a task.
type GradeInput struct {
	TaskID       uint64
	SupervisorID uint64
	Grade        float64
	Feedback     string
}

// Grade moves a task to graded and records the grade on every sibling row,
// so no row of the logical task is left in a different state.
func (s *TaskService) Grade(input GradeInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(input.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	if task.SupervisorID == nil || *task.SupervisorID != input.SupervisorID {
		return nil, ErrTaskNotSupervised
	}
	if !models.CanTransitionTask(task.Status, models.TaskStatusGraded) {
		return nil, ErrInvalidTransition
	}
	if input.Grade < 0 || input.Grade > task.MaxGrade {
		return nil, ErrGradeOutOfRange
	}

	now := time.Now()
	if err := s.taskRepo.UpdateSiblings(task.ProjectID, task.Title, map[string]interface{}{
		"status":    models.TaskStatusGraded,
		"grade":     input.Grade,
		"feedback":  input.Feedback,
		"graded_at": now,
	}); err != nil {
		return nil, fmt.Errorf("failed to grade task: %w", err)
	}

	siblings, err := s.taskRepo.ListSiblings(task.ProjectID, task.Title)
	if err == nil {
		recipients := make([]uint64, 0, len(siblings))
		for _, t := range siblings {
			recipients = append(recipients, t.StudentID)
		}
		s.notifications.NotifyAll(recipients, models.NotificationTypeTaskGraded,
			"Task graded",
			fmt.Sprintf("Task %q has been graded.", task.Title))
	}

	return s.taskRepo.FindByID(task.ID, "Files")
}

// ListTasks returns task rows matching the filter.
func (s *TaskService) ListTasks(filter repository.TaskFilter) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a single task row with its files.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Student", "Files")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	return task, nil
}
