package models

import "time"

// Provider is a service provider profile. Coordinates are pointers: nil means
// the provider is not currently tracked and must be excluded from matching.
type Provider struct {
	ID              string     `bson:"id" json:"id"`
	UserID          string     `bson:"userId" json:"userId"`
	Username        string     `bson:"username" json:"username"`
	Email           string     `bson:"email" json:"email"`
	Phone           string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Location        string     `bson:"location,omitempty" json:"location,omitempty"`
	LocationLat     *float64   `bson:"locationLat,omitempty" json:"locationLat,omitempty"`
	LocationLon     *float64   `bson:"locationLon,omitempty" json:"locationLon,omitempty"`
	IsOnline        bool       `bson:"isOnline" json:"isOnline"`
	Verified        bool       `bson:"verified" json:"verified"`
	CategoryID      string     `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	Bio             string     `bson:"bio,omitempty" json:"bio,omitempty"`
	Experience      int        `bson:"experience" json:"experience"`
	RejectionReason string     `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
}

// HasCoordinates reports whether the provider is currently tracked.
func (p *Provider) HasCoordinates() bool {
	return p.LocationLat != nil && p.LocationLon != nil
}
