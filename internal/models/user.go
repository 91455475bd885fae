package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent     UserRole = "student"
	RoleSupervisor  UserRole = "supervisor"
	RoleCoordinator UserRole = "coordinator"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(20);not null" json:"role"`
	// University-issued student number, distinct from the primary key.
	StudentNumber string `gorm:"type:varchar(50);index" json:"student_number,omitempty"`
	Department    string `gorm:"type:varchar(255)" json:"department,omitempty"`

	// Relationship fields are cleared (set to NULL) when links dissolve;
	// user rows are never hard-deleted.
	SupervisorID      *uint64 `gorm:"index" json:"supervisor_id,omitempty"`
	ProjectID         *uint64 `gorm:"index" json:"project_id,omitempty"`
	SelectedIdeaID    *uint64 `gorm:"index" json:"selected_idea_id,omitempty"`
	SelectedIdeaTitle string  `gorm:"type:varchar(255)" json:"selected_idea_title,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Supervisor *User    `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	Project    *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
