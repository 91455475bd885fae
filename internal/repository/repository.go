package repository

import (
	"time"

	"github.com/M-Alradhi/gradproject-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email, case-insensitively
	FindByEmail(email string) (*models.User, error)

	// FindByStudentNumber finds a user by the university-issued student number
	FindByStudentNumber(studentNumber string) (*models.User, error)

	// UpdateFields applies a partial update to a user row
	UpdateFields(id uint64, fields map[string]interface{}) error

	// ListByRole lists users with the given role
	ListByRole(role models.UserRole) ([]models.User, error)

	// ListBySupervisor lists students assigned to a supervisor
	ListBySupervisor(supervisorID uint64) ([]models.User, error)

	// ClearProjectLinks nulls project_id on every user linked to the project
	ClearProjectLinks(projectID uint64) error
}

// IdeaFilter holds filtering options for listing project ideas
type IdeaFilter struct {
	Status       *models.IdeaStatus
	StudentID    *uint64
	SupervisorID *uint64
	SelectedByID *uint64
	Page         int
	PageSize     int
}

// IdeaRepository defines the interface for project idea data access
type IdeaRepository interface {
	// Create creates a new idea together with its roster
	Create(idea *models.ProjectIdea) error

	// FindByID finds an idea by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.ProjectIdea, error)

	// List retrieves ideas with filtering and pagination
	List(filter IdeaFilter) ([]models.ProjectIdea, int64, error)

	// Update saves an idea
	Update(idea *models.ProjectIdea) error

	// UpdateFields applies a partial update to an idea row
	UpdateFields(id uint64, fields map[string]interface{}) error

	// ClaimForStudent atomically claims an available idea for a student.
	// Both precondition checks and both writes happen in one transaction.
	ClaimForStudent(studentID, ideaID uint64, now time.Time) (*models.ProjectIdea, error)

	// ReleaseForStudent atomically releases the student's current claim.
	ReleaseForStudent(studentID uint64) (*models.ProjectIdea, error)

	// AddMember appends a roster entry
	AddMember(member *models.IdeaTeamMember) error

	// RemoveMember removes a roster entry
	RemoveMember(memberID uint64) error

	// FindMemberByID finds a roster entry by its row id
	FindMemberByID(memberID uint64) (*models.IdeaTeamMember, error)

	// FindMemberByUser finds the roster entry of a user on an idea
	FindMemberByUser(ideaID, userID uint64) (*models.IdeaTeamMember, error)

	// ListMembers lists the roster of an idea
	ListMembers(ideaID uint64) ([]models.IdeaTeamMember, error)

	// UpdateMemberFields applies a partial update to a roster entry
	UpdateMemberFields(memberID uint64, fields map[string]interface{}) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Status       *models.ProjectStatus
	SupervisorID *uint64
	StudentID    *uint64
	Page         int
	PageSize     int
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project together with its roster and supervisors
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// FindByIdeaID finds the project created from a given idea, if any
	FindByIdeaID(ideaID uint64) (*models.Project, error)

	// List retrieves projects with filtering and pagination
	List(filter ProjectFilter) ([]models.Project, int64, error)

	// UpdateFields applies a partial update to a project row
	UpdateFields(id uint64, fields map[string]interface{}) error

	// ListMembers lists the roster of a project
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// SetPrimarySupervisor points the project and its supervisor roster at
	// a new primary supervisor
	SetPrimarySupervisor(projectID, userID uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID    *uint64
	StudentID    *uint64
	SupervisorID *uint64
	Status       *models.TaskStatus
	Page         int
	PageSize     int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// CreateBatch creates the per-student rows of one logical task
	CreateBatch(tasks []models.Task) error

	// FindByID finds a task row by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves task rows with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListSiblings lists every row sharing the (projectID, title) pair
	ListSiblings(projectID uint64, title string) ([]models.Task, error)

	// UpdateSiblings applies one partial update to every sibling row
	UpdateSiblings(projectID uint64, title string, fields map[string]interface{}) error

	// AddFile attaches an upload descriptor to a task row
	AddFile(file *models.TaskFile) error
}

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// CreateRequest creates a meeting request
	CreateRequest(request *models.MeetingRequest) error

	// FindRequestByID finds a meeting request by ID
	FindRequestByID(id uint64) (*models.MeetingRequest, error)

	// UpdateRequestFields applies a partial update to a meeting request
	UpdateRequestFields(id uint64, fields map[string]interface{}) error

	// ListRequestsForSupervisor lists requests addressed to a supervisor
	ListRequestsForSupervisor(supervisorID uint64) ([]models.MeetingRequest, error)

	// ListRequestsForStudent lists requests created by a student
	ListRequestsForStudent(studentID uint64) ([]models.MeetingRequest, error)

	// CreateMeeting inserts a meeting; a duplicate meeting key is a no-op
	CreateMeeting(meeting *models.Meeting) error

	// FindMeetingByKey finds a meeting by its deterministic key
	FindMeetingByKey(key string) (*models.Meeting, error)

	// ListMeetingsForUser lists meetings where the user is either party
	ListMeetingsForUser(userID uint64) ([]models.Meeting, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates a notification
	Create(notification *models.Notification) error

	// ListByUser lists a user's notifications, newest first
	ListByUser(userID uint64, unreadOnly bool) ([]models.Notification, error)

	// MarkRead marks one notification as read
	MarkRead(id, userID uint64) error

	// MarkAllRead marks every notification of a user as read
	MarkAllRead(userID uint64) error

	// CountUnread counts a user's unread notifications
	CountUnread(userID uint64) (int64, error)
}
