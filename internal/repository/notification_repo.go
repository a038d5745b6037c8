package repository

import (
	"fmt"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
)

// AddNotification stores a notification for its target user
func (r *MemoryRepo) AddNotification(notification model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications[notification.UserID] = append(r.notifications[notification.UserID], notification)
	return nil
}

// ListNotificationsByUser returns a user's notifications, newest first
func (r *MemoryRepo) ListNotificationsByUser(userID string) ([]model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.notifications[userID]
	notifications := make([]model.Notification, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		notifications = append(notifications, stored[i])
	}
	return notifications, nil
}

// CountUnread returns how many of a user's notifications are unread
func (r *MemoryRepo) CountUnread(userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.notifications[userID] {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkRead marks one of a user's notifications as read
func (r *MemoryRepo) MarkRead(userID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.notifications[userID] {
		if n.NotificationID == notificationID {
			r.notifications[userID][i].IsRead = true
			return nil
		}
	}
	return fmt.Errorf("mark notification %s read: %w", notificationID, auctionerrors.ErrNotificationNotFound)
}

// MarkAllRead marks all of a user's notifications as read
func (r *MemoryRepo) MarkAllRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications[userID] {
		r.notifications[userID][i].IsRead = true
	}
	return nil
}
