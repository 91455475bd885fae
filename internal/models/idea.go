package models

import (
	"time"

	"gorm.io/gorm"
)

type IdeaStatus string

const (
	// Supervisor-proposed ideas start available and are claimed by a single student.
	IdeaStatusAvailable IdeaStatus = "available"
	IdeaStatusTaken     IdeaStatus = "taken"
	// Legacy single-author submissions go straight to pending.
	IdeaStatusPending             IdeaStatus = "pending"
	IdeaStatusPendingTeamApproval IdeaStatus = "pending_team_approval"
	IdeaStatusApproved            IdeaStatus = "approved"
	IdeaStatusRejected            IdeaStatus = "rejected"
)

type TeamStatus string

const (
	TeamStatusPendingFormation TeamStatus = "pending_formation"
	TeamStatusPendingApproval  TeamStatus = "pending_approval"
	TeamStatusFormed           TeamStatus = "formed"
)

type ProjectIdea struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Department  string     `gorm:"type:varchar(255)" json:"department,omitempty"`
	Status      IdeaStatus `gorm:"type:varchar(30);not null;default:'pending'" json:"status"`
	TeamStatus  TeamStatus `gorm:"type:varchar(30)" json:"team_status,omitempty"`

	// Author: set for student submissions, nil for supervisor proposals.
	StudentID *uint64 `gorm:"index" json:"student_id,omitempty"`
	// Proposing or assigned supervisor.
	SupervisorID *uint64 `gorm:"index" json:"supervisor_id,omitempty"`

	// Claim snapshot, written atomically by the claim transaction. An
	// available idea has none of these set; a taken idea has all of them.
	SelectedByID    *uint64    `gorm:"index" json:"selected_by_id,omitempty"`
	SelectedByName  string     `gorm:"type:varchar(255)" json:"selected_by_name,omitempty"`
	SelectedByEmail string     `gorm:"type:varchar(255)" json:"selected_by_email,omitempty"`
	SelectedAt      *time.Time `json:"selected_at,omitempty"`

	// Set when the idea is promoted into a real project.
	ProjectID *uint64 `gorm:"index" json:"project_id,omitempty"`

	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	ApprovedByID    *uint64    `json:"approved_by_id,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	TeamMembers []IdeaTeamMember `gorm:"foreignKey:IdeaID" json:"team_members,omitempty"`
}

type TeamRole string

const (
	TeamRoleLeader TeamRole = "leader"
	TeamRoleMember TeamRole = "member"
)

// IdeaTeamMember is a roster entry on a project idea. UserID is the canonical
// reference; legacy rows imported from older flows carry only the name/email/
// student-number snapshot with a nil UserID and are resolved lazily.
type IdeaTeamMember struct {
	ID            uint64     `gorm:"primarykey" json:"id"`
	IdeaID        uint64     `gorm:"not null;index" json:"idea_id"`
	UserID        *uint64    `gorm:"index" json:"user_id,omitempty"`
	Name          string     `gorm:"type:varchar(255)" json:"name"`
	Email         string     `gorm:"type:varchar(255)" json:"email"`
	StudentNumber string     `gorm:"type:varchar(50)" json:"student_number,omitempty"`
	Role          TeamRole   `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	Approved      bool       `gorm:"not null;default:false" json:"approved"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Idea ProjectIdea `gorm:"foreignKey:IdeaID" json:"-"`
	User *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
