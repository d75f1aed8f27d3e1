package models

import "time"

// Service request statuses. pending is initial; accepted may move to
// completed; rejected, cancelled and completed are terminal.
const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusRejected  = "rejected"
	RequestStatusCancelled = "cancelled"
	RequestStatusCompleted = "completed"
)

// ServiceRequest is a requester's call for a nearby provider. ProviderID is
// non-nil exactly while the request is accepted (or completed afterwards).
type ServiceRequest struct {
	ID         string    `bson:"id" json:"id"`
	UserID     string    `bson:"userId" json:"userId"`
	ProviderID *string   `bson:"providerId,omitempty" json:"providerId,omitempty"`
	CategoryID string    `bson:"categoryId" json:"categoryId"`
	Address    string    `bson:"address,omitempty" json:"address,omitempty"`
	Lat        *float64  `bson:"lat,omitempty" json:"lat,omitempty"`
	Lon        *float64  `bson:"lon,omitempty" json:"lon,omitempty"`
	Status     string    `bson:"status" json:"status"`
	Notes      string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// HasCoordinates reports whether the request carries a usable location.
func (r *ServiceRequest) HasCoordinates() bool {
	return r.Lat != nil && r.Lon != nil
}
