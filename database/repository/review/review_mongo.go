package reviewRepo

import (
	"context"
	"fmt"
	"time"

	"doerhub/database"
	"doerhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo creates a new instance of ReviewRepository using MongoDB.
func NewMongoReviewRepo() ReviewRepository {
	return &MongoReviewRepo{coll: database.Collection("reviews")}
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoReviewRepo) Create(review *models.Review) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *MongoReviewRepo) exists(filter bson.M) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to look up reviews: %w", err)
	}
	return n > 0, nil
}

func (r *MongoReviewRepo) ExistsForRequest(serviceRequestID, userID string) (bool, error) {
	return r.exists(bson.M{"serviceRequestId": serviceRequestID, "userId": userID})
}

func (r *MongoReviewRepo) ExistsDirect(userID, providerID string) (bool, error) {
	return r.exists(bson.M{"userId": userID, "providerId": providerID, "serviceRequestId": nil})
}

func (r *MongoReviewRepo) find(filter bson.M, limit int64) ([]models.Review, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	for cursor.Next(ctx) {
		var review models.Review
		if err := cursor.Decode(&review); err != nil {
			return nil, fmt.Errorf("failed to decode review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func (r *MongoReviewRepo) ListByProvider(providerID string) ([]models.Review, error) {
	return r.find(bson.M{"providerId": providerID}, 0)
}

func (r *MongoReviewRepo) ListLatest(limit int64) ([]models.Review, error) {
	return r.find(bson.M{}, limit)
}
