package chatRepo

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

// MongoChatRepo implements ChatRepository using MongoDB.
type MongoChatRepo struct {
	rooms    *mongo.Collection
	messages *mongo.Collection
}

// NewMongoChatRepo creates a new instance of ChatRepository using MongoDB.
func NewMongoChatRepo() ChatRepository {
	return &MongoChatRepo{
		rooms:    database.Collection("chat_rooms"),
		messages: database.Collection("messages"),
	}
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoChatRepo) findRoom(filter bson.M) (*models.ChatRoom, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var room models.ChatRoom
	if err := r.rooms.FindOne(ctx, filter).Decode(&room); err != nil {
		return nil, fmt.Errorf("failed to fetch chat room: %w", err)
	}
	return &room, nil
}

func (r *MongoChatRepo) GetRoomByID(id string) (*models.ChatRoom, error) {
	return r.findRoom(bson.M{"id": id})
}

func (r *MongoChatRepo) GetRoomByRequest(serviceRequestID string) (*models.ChatRoom, error) {
	return r.findRoom(bson.M{"serviceRequestId": serviceRequestID})
}

func (r *MongoChatRepo) GetDirectRoom(userID, providerUserID string) (*models.ChatRoom, error) {
	return r.findRoom(bson.M{
		"userId":           userID,
		"providerUserId":   providerUserID,
		"serviceRequestId": nil,
	})
}

func (r *MongoChatRepo) CreateRoom(room *models.ChatRoom) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	if _, err := r.rooms.InsertOne(ctx, room); err != nil {
		return fmt.Errorf("failed to create chat room: %w", err)
	}
	return nil
}

func (r *MongoChatRepo) InsertMessage(msg *models.Message) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	if _, err := r.messages.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *MongoChatRepo) ListMessages(roomID string, limit int64) ([]models.Message, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.messages.Find(ctx, bson.M{"chatRoomId": roomID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve messages for room %s: %w", roomID, err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	for cursor.Next(ctx) {
		var msg models.Message
		if err := cursor.Decode(&msg); err != nil {
			return nil, fmt.Errorf("failed to decode message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
