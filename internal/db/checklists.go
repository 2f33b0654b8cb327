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

// ChecklistCollection defines the interface for checklist data operations.
type ChecklistCollection interface {
	InsertChecklist(ctx context.Context, checklist models.Checklist) (string, error)
	FindChecklists(ctx context.Context, filter bson.M) ([]models.Checklist, error)
	FindChecklistByID(ctx context.Context, id string) (*models.Checklist, error)
	FindChecklistForVehicleOnDate(ctx context.Context, vehicleID, date string) (*models.Checklist, error)
	UpdateChecklistStatus(ctx context.Context, id string, status models.ChecklistStatus) error
	DeleteChecklist(ctx context.Context, id string) error
	CountChecklistsSince(ctx context.Context, since time.Time) (int64, error)
}

// ChecklistItemCollection defines the interface for checklist item operations.
type ChecklistItemCollection interface {
	InsertChecklistItems(ctx context.Context, items []models.ChecklistItem) error
	FindItemsByChecklist(ctx context.Context, checklistID string) ([]models.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, id string, isOK bool, notes string) error
	DeleteItemsByChecklist(ctx context.Context, checklistID string) error
}

// MongoChecklistCollection implements ChecklistCollection for MongoDB.
type MongoChecklistCollection struct {
	Collection *mongo.Collection
}

// InsertChecklist inserts a checklist and returns its ID.
func (c *MongoChecklistCollection) InsertChecklist(ctx context.Context, checklist models.Checklist) (string, error) {
	checklist.CreatedAt = time.Now()

	res, err := c.Collection.InsertOne(ctx, checklist)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrConflict
		}
		return "", err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// FindChecklists queries checklists, newest first.
func (c *MongoChecklistCollection) FindChecklists(ctx context.Context, filter bson.M) ([]models.Checklist, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var checklists []models.Checklist
	if err := cursor.All(ctx, &checklists); err != nil {
		return nil, err
	}
	return checklists, nil
}

// FindChecklistByID finds a checklist by its ID.
func (c *MongoChecklistCollection) FindChecklistByID(ctx context.Context, id string) (*models.Checklist, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var checklist models.Checklist
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&checklist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &checklist, nil
}

// FindChecklistForVehicleOnDate returns the checklist claiming vehicleID
// on date, or ErrNotFound.
func (c *MongoChecklistCollection) FindChecklistForVehicleOnDate(ctx context.Context, vehicleID, date string) (*models.Checklist, error) {
	objectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return nil, ErrNotFound
	}

	var checklist models.Checklist
	err = c.Collection.FindOne(ctx, bson.M{"vehicle_id": objectID, "date": date}).Decode(&checklist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &checklist, nil
}

// UpdateChecklistStatus transitions a checklist's status.
func (c *MongoChecklistCollection) UpdateChecklistStatus(ctx context.Context, id string, status models.ChecklistStatus) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteChecklist deletes a checklist by its ID.
func (c *MongoChecklistCollection) DeleteChecklist(ctx context.Context, id string) error {
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

// CountChecklistsSince counts checklists created since a point in time.
func (c *MongoChecklistCollection) CountChecklistsSince(ctx context.Context, since time.Time) (int64, error) {
	return c.Collection.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}

// MongoChecklistItemCollection implements ChecklistItemCollection for MongoDB.
type MongoChecklistItemCollection struct {
	Collection *mongo.Collection
}

// InsertChecklistItems batch-inserts the item rows of a checklist.
func (c *MongoChecklistItemCollection) InsertChecklistItems(ctx context.Context, items []models.ChecklistItem) error {
	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, item)
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}

// FindItemsByChecklist lists the items of one checklist.
func (c *MongoChecklistItemCollection) FindItemsByChecklist(ctx context.Context, checklistID string) ([]models.ChecklistItem, error) {
	objectID, err := primitive.ObjectIDFromHex(checklistID)
	if err != nil {
		return nil, ErrNotFound
	}

	cursor, err := c.Collection.Find(ctx, bson.M{"checklist_id": objectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.ChecklistItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateChecklistItem toggles one item during issue resolution.
func (c *MongoChecklistItemCollection) UpdateChecklistItem(ctx context.Context, id string, isOK bool, notes string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"is_ok": isOK, "notes": notes}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItemsByChecklist removes all items of a checklist.
func (c *MongoChecklistItemCollection) DeleteItemsByChecklist(ctx context.Context, checklistID string) error {
	objectID, err := primitive.ObjectIDFromHex(checklistID)
	if err != nil {
		return ErrNotFound
	}

	_, err = c.Collection.DeleteMany(ctx, bson.M{"checklist_id": objectID})
	return err
}
