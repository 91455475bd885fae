package models

import (
	"time"

	"gorm.io/gorm"
)

// Discussion is a board post scoped to a project (or global when ProjectID is
// nil). Closed and Pinned are independent flags with no ordering constraint.
type Discussion struct {
	ID        uint64  `gorm:"primarykey" json:"id"`
	ProjectID *uint64 `gorm:"index" json:"project_id,omitempty"`
	AuthorID  uint64  `gorm:"not null;index" json:"author_id"`

	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Content string `gorm:"type:text" json:"content"`
	Closed  bool   `gorm:"not null;default:false" json:"closed"`
	Pinned  bool   `gorm:"not null;default:false" json:"pinned"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Author  *User             `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Replies []DiscussionReply `gorm:"foreignKey:DiscussionID" json:"replies,omitempty"`
}

type DiscussionReply struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	DiscussionID uint64 `gorm:"not null;index" json:"discussion_id"`
	AuthorID     uint64 `gorm:"not null;index" json:"author_id"`
	Content      string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
