package repository

import (
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project together with its roster and supervisors
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIdeaID finds the project created from a given idea, if any
func (r *GormProjectRepository) FindByIdeaID(ideaID uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("idea_id = ?", ideaID).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves projects with filtering and pagination
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SupervisorID != nil {
		supervisorSubQuery := r.db.Model(&models.ProjectSupervisor{}).
			Select("1").
			Where("project_supervisors.project_id = projects.id").
			Where("project_supervisors.user_id = ?", *filter.SupervisorID)
		query = query.Where("projects.supervisor_id = ? OR EXISTS (?)", *filter.SupervisorID, supervisorSubQuery)
	}
	if filter.StudentID != nil {
		memberSubQuery := r.db.Model(&models.ProjectMember{}).
			Select("1").
			Where("project_members.project_id = projects.id").
			Where("project_members.user_id = ?", *filter.StudentID).
			Where("project_members.deleted_at IS NULL")
		query = query.Where("projects.student_id = ? OR EXISTS (?)", *filter.StudentID, memberSubQuery)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("projects.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Members").Preload("Supervisors").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// UpdateFields applies a partial update to a project row
func (r *GormProjectRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).Updates(fields).Error
}

// ListMembers lists the roster of a project
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Where("project_id = ?", projectID).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// SetPrimarySupervisor points the project and its supervisor roster at a new
// primary supervisor.
func (r *GormProjectRepository) SetPrimarySupervisor(projectID, userID uint64) error {
	if err := r.db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("supervisor_id", userID).Error; err != nil {
		return err
	}

	entry := models.ProjectSupervisor{
		ProjectID: projectID,
		UserID:    userID,
		Role:      models.SupervisorRolePrimary,
	}
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"role": models.SupervisorRolePrimary}),
		}).
		Create(&entry).Error
}
