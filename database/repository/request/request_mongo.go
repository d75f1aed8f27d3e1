package requestRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doerhub/database"
	"doerhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRequestRepo implements RequestRepository using MongoDB.
type MongoRequestRepo struct {
	coll *mongo.Collection
}

// NewMongoRequestRepo creates a new instance of RequestRepository using MongoDB.
func NewMongoRequestRepo() RequestRepository {
	return &MongoRequestRepo{coll: database.Collection("service_requests")}
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoRequestRepo) GetByID(id string) (*models.ServiceRequest, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var req models.ServiceRequest
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to fetch request with id %s: %w", id, err)
	}
	return &req, nil
}

func (r *MongoRequestRepo) Create(req *models.ServiceRequest) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

func (r *MongoRequestRepo) list(filter bson.M) ([]models.ServiceRequest, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.ServiceRequest
	for cursor.Next(ctx) {
		var req models.ServiceRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, fmt.Errorf("failed to decode request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func (r *MongoRequestRepo) ListByUser(userID string) ([]models.ServiceRequest, error) {
	return r.list(bson.M{"userId": userID})
}

func (r *MongoRequestRepo) ListByProvider(providerID, status string) ([]models.ServiceRequest, error) {
	filter := bson.M{"providerId": providerID}
	if status != "" {
		filter["status"] = status
	}
	return r.list(filter)
}

func (r *MongoRequestRepo) ListOpenByCategory(categoryID string) ([]models.ServiceRequest, error) {
	return r.list(bson.M{
		"categoryId": categoryID,
		"status":     models.RequestStatusPending,
		"providerId": nil,
		"lat":        bson.M{"$ne": nil},
		"lon":        bson.M{"$ne": nil},
	})
}

func (r *MongoRequestRepo) CountAcceptedByProvider(providerID string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"providerId": providerID,
		"status":     models.RequestStatusAccepted,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count accepted requests for provider %s: %w", providerID, err)
	}
	return n, nil
}

// Claim is the select-for-update equivalent: the filter and the write execute
// as one atomic document update, so two racing providers can never both win.
func (r *MongoRequestRepo) Claim(requestID, providerID string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":         requestID,
		"status":     models.RequestStatusPending,
		"providerId": nil,
	}
	update := bson.M{"$set": bson.M{
		"providerId": providerID,
		"status":     models.RequestStatusAccepted,
	}}

	err := r.coll.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim request %s: %w", requestID, err)
	}
	return true, nil
}

func (r *MongoRequestRepo) UpdateStatusFrom(id, from, to string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to move request %s from %s to %s: %w", id, from, to, err)
	}
	return result.MatchedCount > 0, nil
}
