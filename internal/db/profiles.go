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

// ProfileCollection defines the interface for profile database operations
type ProfileCollection interface {
	InsertProfile(ctx context.Context, profile models.Profile) (string, error)
	FindProfileByID(ctx context.Context, id string) (*models.Profile, error)
	FindProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	FindProfiles(ctx context.Context) ([]models.Profile, error)
	UpdateProfile(ctx context.Context, id string, update bson.M) error
	DeleteProfile(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
}

// MongoProfileCollection implements ProfileCollection for MongoDB
type MongoProfileCollection struct {
	Collection *mongo.Collection
}

// InsertProfile inserts a new profile and returns its ID.
func (c *MongoProfileCollection) InsertProfile(ctx context.Context, profile models.Profile) (string, error) {
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	res, err := c.Collection.InsertOne(ctx, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrConflict
		}
		return "", err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// FindProfileByID finds a profile by its ID
func (c *MongoProfileCollection) FindProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var profile models.Profile
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindProfileByUsername finds a profile by its username
func (c *MongoProfileCollection) FindProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	err := c.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindProfiles lists all profiles, newest first.
func (c *MongoProfileCollection) FindProfiles(ctx context.Context) ([]models.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpdateProfile applies a partial update to a profile.
func (c *MongoProfileCollection) UpdateProfile(ctx context.Context, id string, update bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update["updated_at"] = time.Now()
	res, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": update})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProfile deletes a profile
func (c *MongoProfileCollection) DeleteProfile(ctx context.Context, id string) error {
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

// UpdateLastLogin updates the last login time for a profile
func (c *MongoProfileCollection) UpdateLastLogin(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	now := time.Now()
	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"last_login": now, "updated_at": now}},
	)
	return err
}
