package models

import "time"

// Notification types.
const (
	NotificationTypeChat      = "chat"
	NotificationTypeBroadcast = "broadcast"
)

// Notification is an inbox record. A nil RecipientID marks a broadcast
// visible to every user. Message bodies are truncated at write time.
type Notification struct {
	ID          string         `bson:"id" json:"id"`
	Type        string         `bson:"type" json:"type"`
	RecipientID *string        `bson:"recipientId,omitempty" json:"recipientId,omitempty"`
	Message     string         `bson:"message" json:"message"`
	Extra       map[string]any `bson:"extra,omitempty" json:"extra,omitempty"`
	Read        bool           `bson:"read" json:"read"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
}
