package models

import (
	"time"

	"gorm.io/gorm"
)

type Message struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	SenderID    uint64 `gorm:"not null;index" json:"sender_id"`
	RecipientID uint64 `gorm:"not null;index" json:"recipient_id"`

	Content string     `gorm:"type:text;not null" json:"content"`
	ReadAt  *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Sender    *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}
