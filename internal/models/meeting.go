package models

import (
	"time"

	"gorm.io/gorm"
)

type MeetingRequestStatus string

const (
	MeetingRequestStatusPending  MeetingRequestStatus = "pending"
	MeetingRequestStatusApproved MeetingRequestStatus = "approved"
	MeetingRequestStatusRejected MeetingRequestStatus = "rejected"
)

type MeetingRequest struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	StudentID    uint64 `gorm:"not null;index" json:"student_id"`
	SupervisorID uint64 `gorm:"not null;index" json:"supervisor_id"`

	Title string `gorm:"type:varchar(255);not null" json:"title"`
	// Date and Time are kept as the caller-provided strings ("2006-01-02",
	// "15:04") since they also feed the deterministic meeting key.
	Date  string `gorm:"type:varchar(10);not null" json:"date"`
	Time  string `gorm:"type:varchar(5);not null" json:"time"`
	Notes string `gorm:"type:text" json:"notes,omitempty"`

	Status          MeetingRequestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	RejectionReason string               `gorm:"type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Student    *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Supervisor *User `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
}

// Meeting is created from an approved request. MeetingKey is derived from
// (supervisor, student, title, date, time) so a retried approval cannot
// create a second meeting.
type Meeting struct {
	ID         uint64 `gorm:"primarykey" json:"id"`
	MeetingKey string `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`

	SupervisorID uint64 `gorm:"not null;index" json:"supervisor_id"`
	StudentID    uint64 `gorm:"not null;index" json:"student_id"`

	Title    string `gorm:"type:varchar(255);not null" json:"title"`
	Date     string `gorm:"type:varchar(10);not null" json:"date"`
	Time     string `gorm:"type:varchar(5);not null" json:"time"`
	Location string `gorm:"type:varchar(255)" json:"location,omitempty"`
	Link     string `gorm:"type:varchar(1024)" json:"link,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
