package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"github.com/M-Alradhi/gradproject-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrMeetingRequestNotFound = errors.New("meeting request not found")
	ErrMeetingFieldsRequired  = errors.New("title, date and time are required")
	ErrNotRequestRecipient    = errors.New("only the addressed supervisor can act on this request")
)

// MeetingService manages meeting requests and their approval into meetings.
// Approval derives a deterministic key from the request so a retried approval
// cannot create a second meeting.
type MeetingService struct {
	meetingRepo   repository.MeetingRepository
	notifications *NotificationService
}

// NewMeetingService creates a new MeetingService
func NewMeetingService(meetingRepo repository.MeetingRepository, notifications *NotificationService) *MeetingService {
	return &MeetingService{
		meetingRepo:   meetingRepo,
		notifications: notifications,
	}
}

// RequestInput represents a student's meeting request.
type RequestInput struct {
	StudentID    uint64
	SupervisorID uint64
	Title        string
	Date         string
	Time         string
	Notes        string
}

// Request creates a pending meeting request.
func (s *MeetingService) Request(input RequestInput) (*models.MeetingRequest, error) {
	if strings.TrimSpace(input.Title) == "" || input.Date == "" || input.Time == "" {
		return nil, ErrMeetingFieldsRequired
	}

	request := &models.MeetingRequest{
		StudentID:    input.StudentID,
		SupervisorID: input.SupervisorID,
		Title:        input.Title,
		Date:         input.Date,
		Time:         input.Time,
		Notes:        input.Notes,
		Status:       models.MeetingRequestStatusPending,
	}

	if err := s.meetingRepo.CreateRequest(request); err != nil {
		return nil, fmt.Errorf("failed to create meeting request: %w", err)
	}

	return request, nil
}

// Approve turns a request into a scheduled meeting. The meeting row is keyed
// by a hash of (supervisor, student, title, date, time), so approving the
// same request twice yields exactly one meeting.
func (s *MeetingService) Approve(requestID, actorID uint64, location, link string) (*models.Meeting, error) {
	request, err := s.meetingRepo.FindRequestByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingRequestNotFound
		}
		return nil, fmt.Errorf("failed to load meeting request: %w", err)
	}
	if request.SupervisorID != actorID {
		return nil, ErrNotRequestRecipient
	}

	alreadyApproved := request.Status == models.MeetingRequestStatusApproved
	if !alreadyApproved && !models.CanTransitionMeetingRequest(request.Status, models.MeetingRequestStatusApproved) {
		return nil, ErrInvalidTransition
	}

	if !alreadyApproved {
		if err := s.meetingRepo.UpdateRequestFields(requestID, map[string]interface{}{
			"status": models.MeetingRequestStatusApproved,
		}); err != nil {
			return nil, fmt.Errorf("failed to update meeting request: %w", err)
		}
	}

	key := utils.MeetingKey(request.SupervisorID, request.StudentID, request.Title, request.Date, request.Time)
	meeting := &models.Meeting{
		MeetingKey:   key,
		SupervisorID: request.SupervisorID,
		StudentID:    request.StudentID,
		Title:        request.Title,
		Date:         request.Date,
		Time:         request.Time,
		Location:     location,
		Link:         link,
	}
	if err := s.meetingRepo.CreateMeeting(meeting); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	s.notifications.Notify(request.StudentID, models.NotificationTypeMeetingScheduled,
		"Meeting scheduled",
		fmt.Sprintf("Your meeting %q on %s at %s has been approved.", request.Title, request.Date, request.Time))

	return s.meetingRepo.FindMeetingByKey(key)
}

// Reject declines a meeting request. A non-empty reason is mandatory.
func (s *MeetingService) Reject(requestID, actorID uint64, reason string) (*models.MeetingRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	request, err := s.meetingRepo.FindRequestByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingRequestNotFound
		}
		return nil, fmt.Errorf("failed to load meeting request: %w", err)
	}
	if request.SupervisorID != actorID {
		return nil, ErrNotRequestRecipient
	}
	if !models.CanTransitionMeetingRequest(request.Status, models.MeetingRequestStatusRejected) {
		return nil, ErrInvalidTransition
	}

	if err := s.meetingRepo.UpdateRequestFields(requestID, map[string]interface{}{
		"status":           models.MeetingRequestStatusRejected,
		"rejection_reason": reason,
	}); err != nil {
		return nil, fmt.Errorf("failed to update meeting request: %w", err)
	}

	s.notifications.Notify(request.StudentID, models.NotificationTypeMeetingRejected,
		"Meeting request declined",
		fmt.Sprintf("Your meeting request %q was declined: %s", request.Title, reason))

	return s.meetingRepo.FindRequestByID(requestID)
}

// ListRequestsForSupervisor lists requests addressed to a supervisor.
func (s *MeetingService) ListRequestsForSupervisor(supervisorID uint64) ([]models.MeetingRequest, error) {
	return s.meetingRepo.ListRequestsForSupervisor(supervisorID)
}

// ListRequestsForStudent lists requests created by a student.
func (s *MeetingService) ListRequestsForStudent(studentID uint64) ([]models.MeetingRequest, error) {
	return s.meetingRepo.ListRequestsForStudent(studentID)
}

// ListMeetingsForUser lists meetings where the user is either party.
func (s *MeetingService) ListMeetingsForUser(userID uint64) ([]models.Meeting, error) {
	return s.meetingRepo.ListMeetingsForUser(userID)
}
