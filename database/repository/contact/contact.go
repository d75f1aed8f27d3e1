package contactRepo

import (
	"context"
	"fmt"
	"time"

	"doerhub/database"
	"doerhub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ContactRepository stores contact form submissions.
type ContactRepository interface {
	Create(msg *models.ContactMessage) error
}

// MongoContactRepo implements ContactRepository using MongoDB.
type MongoContactRepo struct {
	coll *mongo.Collection
}

// NewMongoContactRepo creates a new instance of ContactRepository using MongoDB.
func NewMongoContactRepo() ContactRepository {
	return &MongoContactRepo{coll: database.Collection("contact_messages")}
}

func (r *MongoContactRepo) Create(msg *models.ContactMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to store contact message: %w", err)
	}
	return nil
}
