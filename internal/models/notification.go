package models

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeIdeaClaimed        NotificationType = "idea_claimed"
	NotificationTypeIdeaReleased       NotificationType = "idea_released"
	NotificationTypeTeamInvite         NotificationType = "team_invite"
	NotificationTypeTeamApproved       NotificationType = "team_approved"
	NotificationTypeIdeaApproved       NotificationType = "idea_approved"
	NotificationTypeIdeaRejected       NotificationType = "idea_rejected"
	NotificationTypeSupervisorChanged  NotificationType = "supervisor_changed"
	NotificationTypeProjectStatus      NotificationType = "project_status"
	NotificationTypeTaskAssigned       NotificationType = "task_assigned"
	NotificationTypeTaskSubmitted      NotificationType = "task_submitted"
	NotificationTypeTaskGraded         NotificationType = "task_graded"
	NotificationTypeMeetingScheduled   NotificationType = "meeting_scheduled"
	NotificationTypeMeetingRejected    NotificationType = "meeting_rejected"
	NotificationTypeMessageReceived    NotificationType = "message_received"
	NotificationTypeDiscussionActivity NotificationType = "discussion_activity"
)

type Notification struct {
	ID     uint64           `gorm:"primarykey" json:"id"`
	UserID uint64           `gorm:"not null;index" json:"user_id"`
	Type   NotificationType `gorm:"type:varchar(50);not null" json:"type"`

	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	IsRead  bool   `gorm:"column:is_read;not null;default:false" json:"read"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
