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

// FuelLogCollection defines the interface for fuel log operations.
type FuelLogCollection interface {
	InsertFuelLog(ctx context.Context, log models.FuelLog) (string, error)
	FindFuelLogsByDriver(ctx context.Context, driverID string, limit int64) ([]models.FuelLog, error)
}

// MongoFuelLogCollection implements FuelLogCollection for MongoDB.
type MongoFuelLogCollection struct {
	Collection *mongo.Collection
}

// InsertFuelLog inserts a fuel log and returns its ID.
func (c *MongoFuelLogCollection) InsertFuelLog(ctx context.Context, log models.FuelLog) (string, error) {
	log.CreatedAt = time.Now()

	res, err := c.Collection.InsertOne(ctx, log)
	if err != nil {
		return "", err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// FindFuelLogsByDriver lists a driver's fuel logs, newest first.
func (c *MongoFuelLogCollection) FindFuelLogsByDriver(ctx context.Context, driverID string, limit int64) ([]models.FuelLog, error) {
	objectID, err := primitive.ObjectIDFromHex(driverID)
	if err != nil {
		return nil, ErrNotFound
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := c.Collection.Find(ctx, bson.M{"driver_id": objectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.FuelLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
