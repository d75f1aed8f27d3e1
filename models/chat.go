package models

import "time"

// ChatRoom links the two participants of a conversation. Both sides are
// account ids: ProviderUserID is the provider's user account, never the
// provider profile id, so participant checks are plain identity comparisons.
// ServiceRequestID is nil for direct user-to-provider chats.
type ChatRoom struct {
	ID               string    `bson:"id" json:"id"`
	ServiceRequestID *string   `bson:"serviceRequestId,omitempty" json:"serviceRequestId,omitempty"`
	UserID           string    `bson:"userId" json:"userId"`
	ProviderUserID   string    `bson:"providerUserId" json:"providerUserId"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

// IsParticipant reports whether the given account id belongs to the room.
func (r *ChatRoom) IsParticipant(userID string) bool {
	return userID == r.UserID || userID == r.ProviderUserID
}

// OtherParticipant returns the account id of the counterpart.
func (r *ChatRoom) OtherParticipant(userID string) string {
	if userID == r.UserID {
		return r.ProviderUserID
	}
	return r.UserID
}

// Message is immutable once created and ordered by timestamp within a room.
type Message struct {
	ID         string    `bson:"id" json:"id"`
	ChatRoomID string    `bson:"chatRoomId" json:"chatRoomId"`
	SenderID   string    `bson:"senderId" json:"senderId"`
	SenderName string    `bson:"senderName" json:"senderName"`
	Content    string    `bson:"content" json:"content"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}
