package models

// Category types distinguish on-demand work from scheduled lifestyle services.
const (
	CategoryTypeImmediate = "immediate"
	CategoryTypeScheduled = "scheduled"
)

type ServiceCategory struct {
	ID           string `bson:"id" json:"id"`
	Name         string `bson:"name" json:"name"`
	CategoryType string `bson:"categoryType" json:"categoryType"`
}
