package db

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PhotoStore defines the interface for photo object storage.
type PhotoStore interface {
	UploadPhoto(ctx context.Context, name string, r io.Reader) error
	DownloadPhoto(ctx context.Context, name string, w io.Writer) error
	DeletePhoto(ctx context.Context, name string) error
}

// GridFSPhotoStore stores vehicle and damage photos in a GridFS bucket.
type GridFSPhotoStore struct {
	bucket *gridfs.Bucket
}

// NewGridFSPhotoStore opens the photos bucket on database.
func NewGridFSPhotoStore(database *mongo.Database) (*GridFSPhotoStore, error) {
	bucket, err := gridfs.NewBucket(database, options.GridFSBucket().SetName("photos"))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &GridFSPhotoStore{bucket: bucket}, nil
}

// UploadPhoto streams a photo into the bucket under name.
func (s *GridFSPhotoStore) UploadPhoto(ctx context.Context, name string, r io.Reader) error {
	stream, err := s.bucket.OpenUploadStream(name)
	if err != nil {
		return fmt.Errorf("open upload stream: %w", err)
	}
	if _, err := io.Copy(stream, r); err != nil {
		stream.Close()
		return fmt.Errorf("write photo: %w", err)
	}
	return stream.Close()
}

// DownloadPhoto streams the photo stored under name into w.
func (s *GridFSPhotoStore) DownloadPhoto(ctx context.Context, name string, w io.Writer) error {
	_, err := s.bucket.DownloadToStreamByName(name, w)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// DeletePhoto removes every revision stored under name.
func (s *GridFSPhotoStore) DeletePhoto(ctx context.Context, name string) error {
	cursor, err := s.bucket.Find(map[string]interface{}{"filename": name})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var file struct {
			ID interface{} `bson:"_id"`
		}
		if err := cursor.Decode(&file); err != nil {
			return err
		}
		if err := s.bucket.Delete(file.ID); err != nil {
			return err
		}
	}
	return cursor.Err()
}
