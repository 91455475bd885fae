package repository

import (
	"strings"

	"github.com/M-Alradhi/gradproject-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByStudentNumber finds a user by the university-issued student number
func (r *GormUserRepository) FindByStudentNumber(studentNumber string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("student_number = ?", studentNumber).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateFields applies a partial update to a user row
func (r *GormUserRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// ListByRole lists users with the given role
func (r *GormUserRepository) ListByRole(role models.UserRole) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role = ?", role).Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListBySupervisor lists students assigned to a supervisor
func (r *GormUserRepository) ListBySupervisor(supervisorID uint64) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("supervisor_id = ?", supervisorID).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ClearProjectLinks nulls project_id on every user linked to the project
func (r *GormUserRepository) ClearProjectLinks(projectID uint64) error {
	return r.db.Model(&models.User{}).
		Where("project_id = ?", projectID).
		Update("project_id", nil).Error
}
