package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusSubmitted TaskStatus = "submitted"
	TaskStatusGraded    TaskStatus = "graded"
)

// Task is one student's row of a logical team task. A task assigned to a team
// is materialized as one row per student sharing the same (project_id, title)
// pair so each student is individually gradable; submit and grade mutate all
// sibling rows together.
type Task struct {
	ID           uint64  `gorm:"primarykey" json:"id"`
	ProjectID    uint64  `gorm:"not null;index:idx_tasks_project_title" json:"project_id"`
	StudentID    uint64  `gorm:"not null;index" json:"student_id"`
	SupervisorID *uint64 `gorm:"index" json:"supervisor_id,omitempty"`

	Title       string     `gorm:"type:varchar(255);not null;index:idx_tasks_project_title" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	MaxGrade    float64    `gorm:"not null;default:100" json:"max_grade"`
	Weight      float64    `gorm:"not null;default:1" json:"weight"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Grade       *float64   `json:"grade,omitempty"`
	Feedback    string     `gorm:"type:text" json:"feedback,omitempty"`

	DueDate     *time.Time `json:"due_date,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	GradedAt    *time.Time `json:"graded_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Student *User      `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Project *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Files   []TaskFile `gorm:"foreignKey:TaskID" json:"files,omitempty"`
}

type FileOrigin string

const (
	FileOriginStudent    FileOrigin = "student"
	FileOriginSupervisor FileOrigin = "supervisor"
)

// TaskFile is an opaque upload descriptor; storage itself is external.
type TaskFile struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	TaskID      uint64     `gorm:"not null;index" json:"task_id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	URL         string     `gorm:"type:varchar(1024);not null" json:"url"`
	Size        int64      `json:"size"`
	ContentType string     `gorm:"type:varchar(255)" json:"content_type,omitempty"`
	Origin      FileOrigin `gorm:"type:varchar(20);not null" json:"origin"`
	CreatedAt   time.Time  `json:"created_at"`
}
