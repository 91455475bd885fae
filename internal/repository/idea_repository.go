package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/M-Alradhi/gradproject-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrClaimUserMissing is returned when the claiming user does not exist.
	ErrClaimUserMissing = errors.New("idea repository: claiming user not found")
	// ErrClaimCapExceeded is returned when the user already holds an active idea.
	ErrClaimCapExceeded = errors.New("idea repository: user already holds an idea")
	// ErrClaimIdeaMissing is returned when the target idea does not exist.
	ErrClaimIdeaMissing = errors.New("idea repository: idea not found")
	// ErrClaimIdeaUnavailable is returned when the target idea is not available.
	ErrClaimIdeaUnavailable = errors.New("idea repository: idea not available")
	// ErrReleaseNoClaim is returned when the user holds no claim to release.
	ErrReleaseNoClaim = errors.New("idea repository: user holds no claim")
)

// GormIdeaRepository is a GORM implementation of IdeaRepository
type GormIdeaRepository struct {
	db *gorm.DB
}

// NewIdeaRepository creates a new IdeaRepository
func NewIdeaRepository(db *gorm.DB) IdeaRepository {
	return &GormIdeaRepository{db: db}
}

// Create creates a new idea together with its roster
func (r *GormIdeaRepository) Create(idea *models.ProjectIdea) error {
	return r.db.Create(idea).Error
}

// FindByID finds an idea by ID with optional preloading
func (r *GormIdeaRepository) FindByID(id uint64, preload ...string) (*models.ProjectIdea, error) {
	var idea models.ProjectIdea
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&idea, id).Error; err != nil {
		return nil, err
	}
	return &idea, nil
}

// List retrieves ideas with filtering and pagination
func (r *GormIdeaRepository) List(filter IdeaFilter) ([]models.ProjectIdea, int64, error) {
	var ideas []models.ProjectIdea

	query := r.db.Model(&models.ProjectIdea{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.SupervisorID != nil {
		query = query.Where("supervisor_id = ?", *filter.SupervisorID)
	}
	if filter.SelectedByID != nil {
		query = query.Where("selected_by_id = ?", *filter.SelectedByID)
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

	if err := listQuery.Preload("TeamMembers").Find(&ideas).Error; err != nil {
		return nil, 0, err
	}

	return ideas, total, nil
}

// Update saves an idea
func (r *GormIdeaRepository) Update(idea *models.ProjectIdea) error {
	return r.db.Save(idea).Error
}

// UpdateFields applies a partial update to an idea row
func (r *GormIdeaRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&models.ProjectIdea{}).Where("id = ?", id).Updates(fields).Error
}

// ClaimForStudent atomically claims an available idea for a student. The
// precondition reads and both guarded writes share one transaction, so
// concurrent claims on the same idea serialize and exactly one wins. The
// writes are compare-and-set updates keyed on the precondition columns;
// zero affected rows means a concurrent transaction got there first.
func (r *GormIdeaRepository) ClaimForStudent(studentID, ideaID uint64, now time.Time) (*models.ProjectIdea, error) {
	var claimed models.ProjectIdea

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// User cap is checked before idea availability, consistently.
		var user models.User
		if err := tx.First(&user, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClaimUserMissing
			}
			return fmt.Errorf("failed to load user: %w", err)
		}
		if user.SelectedIdeaID != nil {
			return ErrClaimCapExceeded
		}

		var idea models.ProjectIdea
		if err := tx.First(&idea, ideaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClaimIdeaMissing
			}
			return fmt.Errorf("failed to load idea: %w", err)
		}
		if idea.Status != models.IdeaStatusAvailable {
			return ErrClaimIdeaUnavailable
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND selected_idea_id IS NULL", studentID).
			Updates(map[string]interface{}{
				"selected_idea_id":    idea.ID,
				"selected_idea_title": idea.Title,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrClaimCapExceeded
		}

		res = tx.Model(&models.ProjectIdea{}).
			Where("id = ? AND status = ?", ideaID, models.IdeaStatusAvailable).
			Updates(map[string]interface{}{
				"status":            models.IdeaStatusTaken,
				"selected_by_id":    user.ID,
				"selected_by_name":  user.Name,
				"selected_by_email": user.Email,
				"selected_at":       now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update idea: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrClaimIdeaUnavailable
		}

		return tx.First(&claimed, ideaID).Error
	})
	if err != nil {
		return nil, err
	}

	return &claimed, nil
}

// ReleaseForStudent atomically releases the student's current claim, putting
// the idea back to available.
func (r *GormIdeaRepository) ReleaseForStudent(studentID uint64) (*models.ProjectIdea, error) {
	var released models.ProjectIdea

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClaimUserMissing
			}
			return fmt.Errorf("failed to load user: %w", err)
		}
		if user.SelectedIdeaID == nil {
			return ErrReleaseNoClaim
		}

		res := tx.Model(&models.ProjectIdea{}).
			Where("id = ? AND selected_by_id = ?", *user.SelectedIdeaID, studentID).
			Updates(map[string]interface{}{
				"status":            models.IdeaStatusAvailable,
				"selected_by_id":    nil,
				"selected_by_name":  "",
				"selected_by_email": "",
				"selected_at":       nil,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update idea: %w", res.Error)
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", studentID).
			Updates(map[string]interface{}{
				"selected_idea_id":    nil,
				"selected_idea_title": "",
			}).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		if res.RowsAffected > 0 {
			return tx.First(&released, *user.SelectedIdeaID).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if released.ID == 0 {
		return nil, nil
	}
	return &released, nil
}

// AddMember appends a roster entry
func (r *GormIdeaRepository) AddMember(member *models.IdeaTeamMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a roster entry
func (r *GormIdeaRepository) RemoveMember(memberID uint64) error {
	return r.db.Delete(&models.IdeaTeamMember{}, memberID).Error
}

// FindMemberByID finds a roster entry by its row id
func (r *GormIdeaRepository) FindMemberByID(memberID uint64) (*models.IdeaTeamMember, error) {
	var member models.IdeaTeamMember
	if err := r.db.First(&member, memberID).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindMemberByUser finds the roster entry of a user on an idea
func (r *GormIdeaRepository) FindMemberByUser(ideaID, userID uint64) (*models.IdeaTeamMember, error) {
	var member models.IdeaTeamMember
	if err := r.db.Where("idea_id = ? AND user_id = ?", ideaID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists the roster of an idea
func (r *GormIdeaRepository) ListMembers(ideaID uint64) ([]models.IdeaTeamMember, error) {
	var members []models.IdeaTeamMember
	if err := r.db.Where("idea_id = ?", ideaID).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateMemberFields applies a partial update to a roster entry
func (r *GormIdeaRepository) UpdateMemberFields(memberID uint64, fields map[string]interface{}) error {
	return r.db.Model(&models.IdeaTeamMember{}).Where("id = ?", memberID).Updates(fields).Error
}
