package db

import (
	"context"
	"time"

	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationCollection defines the interface for notification operations.
type NotificationCollection interface {
	InsertNotification(ctx context.Context, notification models.Notification) error
	FindNotificationsForUser(ctx context.Context, userID string, includeBroadcast bool, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string, includeBroadcast bool) error
}

// MongoNotificationCollection implements NotificationCollection for MongoDB.
type MongoNotificationCollection struct {
	Collection *mongo.Collection
}

// InsertNotification inserts a notification row.
func (c *MongoNotificationCollection) InsertNotification(ctx context.Context, notification models.Notification) error {
	notification.CreatedAt = time.Now()

	_, err := c.Collection.InsertOne(ctx, notification)
	return err
}

// visibilityFilter matches rows targeted at userID, plus broadcast rows
// (no user_id) when includeBroadcast is set.
func visibilityFilter(userID string, includeBroadcast bool) (bson.M, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !includeBroadcast {
		return bson.M{"user_id": objectID}, nil
	}
	return bson.M{"$or": bson.A{
		bson.M{"user_id": objectID},
		bson.M{"user_id": bson.M{"$exists": false}},
	}}, nil
}

// FindNotificationsForUser lists visible notifications, newest first.
func (c *MongoNotificationCollection) FindNotificationsForUser(ctx context.Context, userID string, includeBroadcast bool, limit int64) ([]models.Notification, error) {
	filter, err := visibilityFilter(userID, includeBroadcast)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flags one notification as read.
func (c *MongoNotificationCollection) MarkRead(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead flags every visible unread notification as read.
func (c *MongoNotificationCollection) MarkAllRead(ctx context.Context, userID string, includeBroadcast bool) error {
	filter, err := visibilityFilter(userID, includeBroadcast)
	if err != nil {
		return err
	}
	filter["read"] = false

	_, err = c.Collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	return err
}
