package repository

import (
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMeetingRepository is a GORM implementation of MeetingRepository
type GormMeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new MeetingRepository
func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &GormMeetingRepository{db: db}
}

// CreateRequest creates a meeting request
func (r *GormMeetingRepository) CreateRequest(request *models.MeetingRequest) error {
	return r.db.Create(request).Error
}

// FindRequestByID finds a meeting request by ID
func (r *GormMeetingRepository) FindRequestByID(id uint64) (*models.MeetingRequest, error) {
	var request models.MeetingRequest
	if err := r.db.First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// UpdateRequestFields applies a partial update to a meeting request
func (r *GormMeetingRepository) UpdateRequestFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&models.MeetingRequest{}).Where("id = ?", id).Updates(fields).Error
}

// ListRequestsForSupervisor lists requests addressed to a supervisor
func (r *GormMeetingRepository) ListRequestsForSupervisor(supervisorID uint64) ([]models.MeetingRequest, error) {
	var requests []models.MeetingRequest
	if err := r.db.Preload("Student").
		Where("supervisor_id = ?", supervisorID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListRequestsForStudent lists requests created by a student
func (r *GormMeetingRepository) ListRequestsForStudent(studentID uint64) ([]models.MeetingRequest, error) {
	var requests []models.MeetingRequest
	if err := r.db.Preload("Supervisor").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// CreateMeeting inserts a meeting; a duplicate meeting key is a no-op, which
// makes a retried approval idempotent.
func (r *GormMeetingRepository) CreateMeeting(meeting *models.Meeting) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meeting_key"}},
			DoNothing: true,
		}).
		Create(meeting).Error
}

// FindMeetingByKey finds a meeting by its deterministic key
func (r *GormMeetingRepository) FindMeetingByKey(key string) (*models.Meeting, error) {
	var meeting models.Meeting
	if err := r.db.Where("meeting_key = ?", key).First(&meeting).Error; err != nil {
		return nil, err
	}
	return &meeting, nil
}

// ListMeetingsForUser lists meetings where the user is either party
func (r *GormMeetingRepository) ListMeetingsForUser(userID uint64) ([]models.Meeting, error) {
	var meetings []models.Meeting
	if err := r.db.Where("supervisor_id = ? OR student_id = ?", userID, userID).
		Order("date ASC, time ASC").
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}
