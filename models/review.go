package models

import "time"

// Review rates a provider, optionally tied to a completed service request.
// ServiceRequestID is nil for direct provider reviews.
type Review struct {
	ID               string    `bson:"id" json:"id"`
	ServiceRequestID *string   `bson:"serviceRequestId,omitempty" json:"serviceRequestId,omitempty"`
	UserID           string    `bson:"userId" json:"userId"`
	ProviderID       string    `bson:"providerId" json:"providerId"`
	Rating           int       `bson:"rating" json:"rating"`
	Comment          string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
