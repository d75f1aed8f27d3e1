package providerRepo

import (
	"context"
	"fmt"
	"time"

	"doerhub/database"
	"doerhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a new instance of ProviderRepository using MongoDB.
func NewMongoProviderRepo() ProviderRepository {
	return &MongoProviderRepo{coll: database.Collection("providers")}
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoProviderRepo) GetByID(id string) (*models.Provider, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var provider models.Provider
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&provider); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("provider with id %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch provider with id %s: %w", id, err)
	}
	return &provider, nil
}

func (r *MongoProviderRepo) GetByUserID(userID string) (*models.Provider, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var provider models.Provider
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&provider); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("provider for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch provider for user %s: %w", userID, err)
	}
	return &provider, nil
}

func (r *MongoProviderRepo) GetByCategory(categoryID string, verifiedOnly bool) ([]models.Provider, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"categoryId": categoryID}
	if verifiedOnly {
		filter["verified"] = true
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve providers for category %s: %w", categoryID, err)
	}
	defer cursor.Close(ctx)

	var providers []models.Provider
	for cursor.Next(ctx) {
		var p models.Provider
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode provider: %w", err)
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func (r *MongoProviderRepo) Create(provider *models.Provider) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, provider); err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *MongoProviderRepo) Update(provider *models.Provider) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": provider.ID}, bson.M{"$set": provider})
	if err != nil {
		return fmt.Errorf("failed to update provider with id %s: %w", provider.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("provider with id %s not found", provider.ID)
	}
	return nil
}

func (r *MongoProviderRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete provider with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("provider with id %s not found", id)
	}
	return nil
}

func (r *MongoProviderRepo) SetOnline(id string, online bool) error {
	return r.set(id, bson.M{"isOnline": online})
}

func (r *MongoProviderRepo) UpdateLocation(id string, lat, lon float64) error {
	return r.set(id, bson.M{"locationLat": lat, "locationLon": lon, "isOnline": true})
}

func (r *MongoProviderRepo) ClearLocation(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	update := bson.M{
		"$unset": bson.M{"locationLat": "", "locationLon": ""},
		"$set":   bson.M{"isOnline": false},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to clear location for provider %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("provider with id %s not found", id)
	}
	return nil
}

func (r *MongoProviderRepo) SetCategory(id, categoryID string) error {
	return r.set(id, bson.M{"categoryId": categoryID})
}

func (r *MongoProviderRepo) set(id string, fields bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update provider with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("provider with id %s not found", id)
	}
	return nil
}
