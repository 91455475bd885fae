package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusPending   ProjectStatus = "pending"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusRejected  ProjectStatus = "rejected"
	ProjectStatusSuspended ProjectStatus = "suspended"
	ProjectStatusArchived  ProjectStatus = "archived"
	// Soft delete: a status flag, not row removal. Linked users get their
	// project_id cleared when a project enters this state.
	ProjectStatusDeleted ProjectStatus = "deleted"
)

type Project struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Department  string `gorm:"type:varchar(255)" json:"department,omitempty"`

	// Originating idea. The unique index makes idea promotion idempotent:
	// a retried promotion finds this row instead of creating a second one.
	IdeaID *uint64 `gorm:"uniqueIndex" json:"idea_id,omitempty"`

	// Primary supervisor; secondary supervisors live in Supervisors.
	SupervisorID *uint64 `gorm:"index" json:"supervisor_id,omitempty"`
	// Team leader.
	StudentID *uint64 `gorm:"index" json:"student_id,omitempty"`

	Status   ProjectStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Progress int           `gorm:"not null;default:0" json:"progress"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members     []ProjectMember     `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Supervisors []ProjectSupervisor `gorm:"foreignKey:ProjectID" json:"supervisors,omitempty"`
}

type SupervisorRole string

const (
	SupervisorRolePrimary   SupervisorRole = "primary"
	SupervisorRoleSecondary SupervisorRole = "secondary"
)

type ProjectSupervisor struct {
	ProjectID uint64         `gorm:"primarykey" json:"project_id"`
	UserID    uint64         `gorm:"primarykey" json:"user_id"`
	Role      SupervisorRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time      `json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// ProjectMember mirrors IdeaTeamMember: canonical UserID reference plus the
// denormalized snapshot copied at promotion time. Legacy rows may carry only
// the snapshot.
type ProjectMember struct {
	ID            uint64   `gorm:"primarykey" json:"id"`
	ProjectID     uint64   `gorm:"not null;index" json:"project_id"`
	UserID        *uint64  `gorm:"index" json:"user_id,omitempty"`
	Name          string   `gorm:"type:varchar(255)" json:"name"`
	Email         string   `gorm:"type:varchar(255)" json:"email"`
	StudentNumber string   `gorm:"type:varchar(50)" json:"student_number,omitempty"`
	Role          TeamRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	Approved      bool     `gorm:"not null;default:true" json:"approved"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
