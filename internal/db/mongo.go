package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// Collections bundles the typed collections over one database.
type Collections struct {
	Profiles       ProfileCollection
	Vehicles       VehicleCollection
	Checklists     ChecklistCollection
	ChecklistItems ChecklistItemCollection
	Damages        DamageCollection
	FuelLogs       FuelLogCollection
	Notifications  NotificationCollection
	Photos         PhotoStore
}

// NewCollections wires the Mongo implementations over database.
func NewCollections(database *mongo.Database) (*Collections, error) {
	photos, err := NewGridFSPhotoStore(database)
	if err != nil {
		return nil, err
	}
	return &Collections{
		Profiles:       &MongoProfileCollection{Collection: database.Collection("profiles")},
		Vehicles:       &MongoVehicleCollection{Collection: database.Collection("vehicles")},
		Checklists:     &MongoChecklistCollection{Collection: database.Collection("checklists")},
		ChecklistItems: &MongoChecklistItemCollection{Collection: database.Collection("checklist_items")},
		Damages:        &MongoDamageCollection{Collection: database.Collection("damages")},
		FuelLogs:       &MongoFuelLogCollection{Collection: database.Collection("fuel_logs")},
		Notifications:  &MongoNotificationCollection{Collection: database.Collection("notifications")},
		Photos:         photos,
	}, nil
}

// EnsureIndexes creates the indexes the workflows lean on. The unique
// (vehicle_id, date) checklist index is a storage-level backstop for the
// optimistic claim check; the application still re-queries before insert.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection("checklists").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "vehicle_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("checklist index: %w", err)
	}

	_, err = database.Collection("profiles").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("profile index: %w", err)
	}

	_, err = database.Collection("damages").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("damage index: %w", err)
	}
	return nil
}
