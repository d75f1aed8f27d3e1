package models

import "time"

// User is the account record every principal resolves to. Providers hold a
// separate Provider profile that references their user id.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	TokenHash    string    `bson:"tokenHash,omitempty" json:"-"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string    `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Principal is the authenticated identity resolved from a credential.
// ProviderID is set only when the account owns a provider profile.
type Principal struct {
	UserID     string
	Username   string
	ProviderID string
}

// IsProvider reports whether the principal owns a provider profile.
func (p *Principal) IsProvider() bool {
	return p != nil && p.ProviderID != ""
}
