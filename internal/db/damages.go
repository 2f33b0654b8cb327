package db

import (
	"context"
	"errors"
	"time"

	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DamageCollection defines the interface for damage report operations.
type DamageCollection interface {
	InsertDamage(ctx context.Context, damage models.Damage) (string, error)
	FindDamages(ctx context.Context, filter bson.M, limit int64) ([]models.Damage, error)
	FindDamageByID(ctx context.Context, id string) (*models.Damage, error)
	UpdateDamage(ctx context.Context, id string, update bson.M) error
	DeleteDamage(ctx context.Context, id string) error
	CountDamages(ctx context.Context, filter bson.M) (int64, error)
}

// MongoDamageCollection implements DamageCollection for MongoDB.
type MongoDamageCollection struct {
	Collection *mongo.Collection
}

// InsertDamage inserts a damage report and returns its ID.
func (c *MongoDamageCollection) InsertDamage(ctx context.Context, damage models.Damage) (string, error) {
	damage.CreatedAt = time.Now()
	damage.UpdatedAt = time.Now()

	res, err := c.Collection.InsertOne(ctx, damage)
	if err != nil {
		return "", err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// FindDamages queries damage reports, newest first. limit 0 means no limit.
func (c *MongoDamageCollection) FindDamages(ctx context.Context, filter bson.M, limit int64) ([]models.Damage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var damages []models.Damage
	if err := cursor.All(ctx, &damages); err != nil {
		return nil, err
	}
	return damages, nil
}

// FindDamageByID finds a damage report by its ID.
func (c *MongoDamageCollection) FindDamageByID(ctx context.Context, id string) (*models.Damage, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var damage models.Damage
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&damage)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &damage, nil
}

// UpdateDamage applies a partial update to a damage report.
func (c *MongoDamageCollection) UpdateDamage(ctx context.Context, id string, update bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update["updated_at"] = time.Now()
	res, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDamage deletes a damage report by its ID.
func (c *MongoDamageCollection) DeleteDamage(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountDamages counts damage reports matching filter.
func (c *MongoDamageCollection) CountDamages(ctx context.Context, filter bson.M) (int64, error) {
	return c.Collection.CountDocuments(ctx, filter)
}
