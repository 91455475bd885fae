package repository

import (
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateBatch creates the per-student rows of one logical task
func (r *GormTaskRepository) CreateBatch(tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.Create(&tasks).Error
}

// FindByID finds a task row by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves task rows with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.SupervisorID != nil {
		query = query.Where("supervisor_id = ?", *filter.SupervisorID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Student").Preload("Files").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListSiblings lists every row sharing the (projectID, title) pair
func (r *GormTaskRepository) ListSiblings(projectID uint64, title string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("project_id = ? AND title = ?", projectID, title).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateSiblings applies one partial update to every sibling row. A single
// statement keeps all rows of the logical task in the same state.
func (r *GormTaskRepository) UpdateSiblings(projectID uint64, title string, fields map[string]interface{}) error {
	return r.db.Model(&models.Task{}).
		Where("project_id = ? AND title = ?", projectID, title).
		Updates(fields).Error
}

// AddFile attaches an upload descriptor to a task row
func (r *GormTaskRepository) AddFile(file *models.TaskFile) error {
	return r.db.Create(file).Error
}
