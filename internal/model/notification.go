package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationLessonScheduled     NotificationType = "LESSON_SCHEDULED"
	NotificationLessonUpdated       NotificationType = "LESSON_UPDATED"
	NotificationResourceAdded       NotificationType = "RESOURCE_ADDED"
	NotificationExtraClassRequested NotificationType = "EXTRA_CLASS_REQUESTED"
	NotificationExtraClassApproved  NotificationType = "EXTRA_CLASS_APPROVED"
	NotificationExtraClassRejected  NotificationType = "EXTRA_CLASS_REJECTED"
)

// Notification is append-only apart from the Read flag.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"userId"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Link      string           `json:"link"`
	Read      bool             `json:"read"`
	BatchID   uuid.UUID        `json:"batchId"`
	CreatedAt time.Time        `json:"createdAt"`
}
