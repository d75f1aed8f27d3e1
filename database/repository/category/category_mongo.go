package categoryRepo

import (
	"context"
	"fmt"
	"time"

	"doerhub/database"
	"doerhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCategoryRepo implements CategoryRepository using MongoDB.
type MongoCategoryRepo struct {
	coll *mongo.Collection
}

// NewMongoCategoryRepo creates a new instance of CategoryRepository using MongoDB.
func NewMongoCategoryRepo() CategoryRepository {
	return &MongoCategoryRepo{coll: database.Collection("service_categories")}
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoCategoryRepo) GetByID(id string) (*models.ServiceCategory, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var category models.ServiceCategory
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&category); err != nil {
		return nil, fmt.Errorf("failed to fetch category with id %s: %w", id, err)
	}
	return &category, nil
}

func (r *MongoCategoryRepo) List(categoryType string) ([]models.ServiceCategory, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{}
	if categoryType != "" {
		filter["categoryType"] = categoryType
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []models.ServiceCategory
	for cursor.Next(ctx) {
		var c models.ServiceCategory
		if err := cursor.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *MongoCategoryRepo) Create(category *models.ServiceCategory) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, category); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}
