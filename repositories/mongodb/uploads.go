package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vitigen/api/models/uploads"
)

// UploadsCollection holds one registry entry per successfully
// ingested file; it is the source of truth for namespace ownership.
const UploadsCollection = "uploaded_files"

var (
	ErrNotFound         = errors.New("upload not found")
	ErrPermissionDenied = errors.New("upload does not belong to the requester")
)

type (
	// UploadRepo is the persisted upload registry. It is injected into
	// the services that need ownership resolution rather than accessed
	// through a package-level singleton.
	UploadRepo struct {
		Database *mongo.Database
	}
)

func NewUploadRepo(db *mongo.Database) *UploadRepo {
	return &UploadRepo{
		Database: db,
	}
}

func (r *UploadRepo) collection() *mongo.Collection {
	return r.Database.Collection(UploadsCollection)
}

// Insert registers a completed ingestion run. Entries are append-only;
// a registered upload is never mutated, only deleted as a whole.
func (r *UploadRepo) Insert(ctx context.Context, record *uploads.UploadRecord) error {
	if _, insertErr := r.collection().InsertOne(ctx, record); insertErr != nil {
		return fmt.Errorf("failed to register upload %s : %w", record.CollectionName, insertErr)
	}
	return nil
}

func (r *UploadRepo) FindByCollection(ctx context.Context, collectionName string) (*uploads.UploadRecord, error) {
	var record uploads.UploadRecord

	findErr := r.collection().FindOne(ctx, bson.M{"collection_name": collectionName}).Decode(&record)
	if findErr != nil {
		if errors.Is(findErr, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w : %s", ErrNotFound, collectionName)
		}
		return nil, fmt.Errorf("failed to look up upload %s : %w", collectionName, findErr)
	}

	return &record, nil
}

// FindOwned resolves a registry entry and enforces ownership : the gate
// shared by search and deletion. Callers receive ErrPermissionDenied
// before any query is issued against the upload's variant collection.
func (r *UploadRepo) FindOwned(ctx context.Context, collectionName string, ownerEmail string) (*uploads.UploadRecord, error) {
	record, findErr := r.FindByCollection(ctx, collectionName)
	if findErr != nil {
		return nil, findErr
	}

	if record.OwnerEmail != ownerEmail {
		return nil, fmt.Errorf("%w : %s", ErrPermissionDenied, collectionName)
	}

	return record, nil
}

func (r *UploadRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]uploads.UploadRecord, error) {
	cursor, findErr := r.collection().Find(ctx, bson.M{"owner_email": ownerEmail},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if findErr != nil {
		return nil, fmt.Errorf("failed to list uploads for %s : %w", ownerEmail, findErr)
	}
	defer cursor.Close(ctx)

	records := []uploads.UploadRecord{}
	if allErr := cursor.All(ctx, &records); allErr != nil {
		return nil, fmt.Errorf("failed to decode uploads for %s : %w", ownerEmail, allErr)
	}

	return records, nil
}

// ListAll returns every registry entry; used by sanitation to detect
// orphaned variant collections.
func (r *UploadRepo) ListAll(ctx context.Context) ([]uploads.UploadRecord, error) {
	cursor, findErr := r.collection().Find(ctx, bson.M{})
	if findErr != nil {
		return nil, fmt.Errorf("failed to list uploads : %w", findErr)
	}
	defer cursor.Close(ctx)

	records := []uploads.UploadRecord{}
	if allErr := cursor.All(ctx, &records); allErr != nil {
		return nil, fmt.Errorf("failed to decode uploads : %w", allErr)
	}

	return records, nil
}

func (r *UploadRepo) Delete(ctx context.Context, collectionName string) error {
	result, deleteErr := r.collection().DeleteOne(ctx, bson.M{"collection_name": collectionName})
	if deleteErr != nil {
		return fmt.Errorf("failed to delete upload entry %s : %w", collectionName, deleteErr)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w : %s", ErrNotFound, collectionName)
	}
	return nil
}
