package services

import (
	"fmt"
	"log"
	"sync"

	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
)

// NotificationService creates notification records after state-owning
// operations commit. Delivery is best effort: failures are logged and
// swallowed, never propagated to the triggering operation.
type NotificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify creates a single notification. Errors are logged, not returned.
func (s *NotificationService) Notify(userID uint64, kind models.NotificationType, title, message string) {
	n := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if err := s.repo.Create(n); err != nil {
		log.Printf("notification to user %d dropped: %v", userID, err)
	}
}

// NotifyAll fans out one notification per recipient. Writes are issued
// concurrently with no ordering or atomicity across the batch; one failed
// recipient does not affect the others.
func (s *NotificationService) NotifyAll(userIDs []uint64, kind models.NotificationType, title, message string) {
	var wg sync.WaitGroup
	for _, id := range userIDs {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			s.Notify(userID, kind, title, message)
		}(id)
	}
	wg.Wait()
}

// ListForUser returns a user's notifications.
func (s *NotificationService) ListForUser(userID uint64, unreadOnly bool) ([]models.Notification, error) {
	notifications, err := s.repo.ListByUser(userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one notification as read.
func (s *NotificationService) MarkRead(id, userID uint64) error {
	if err := s.repo.MarkRead(id, userID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks all of a user's notifications as read.
func (s *NotificationService) MarkAllRead(userID uint64) error {
	if err := s.repo.MarkAllRead(userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// CountUnread counts a user's unread notifications.
func (s *NotificationService) CountUnread(userID uint64) (int64, error) {
	count, err := s.repo.CountUnread(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}
