package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType classifies what triggered a notification.
type NotificationType string

const (
	NotificationChecklist NotificationType = "checklist"
	NotificationDamage    NotificationType = "damage"
	NotificationFuel      NotificationType = "fuel"
	NotificationSystem    NotificationType = "system"
)

// Notification represents an in-app notification. UserID nil means the
// notification is a broadcast to every supervisor.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	Type      NotificationType    `bson:"type" json:"type"`
	Read      bool                `bson:"read" json:"read"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

// NotificationList is the bell dropdown payload.
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}
