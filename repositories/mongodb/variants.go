package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vitigen/api/models"
	"vitigen/api/models/variants"
)

// InsertVariants bulk loads one parser batch into the upload's collection.
// The insert is unordered : individual document failures do not abort the
// batch, they only reduce the returned count of successfully inserted
// documents. Any other write failure is fatal to the caller's run.
func InsertVariants(ctx context.Context, db *mongo.Database, collectionName string, batch []*variants.Variant) (int, error) {
	documents := make([]interface{}, len(batch))
	for i, record := range batch {
		documents[i] = record
	}

	result, insertErr := db.Collection(collectionName).InsertMany(
		ctx, documents, options.InsertMany().SetOrdered(false))
	if insertErr != nil {
		var bulkErr mongo.BulkWriteException
		if errors.As(insertErr, &bulkErr) {
			// tolerated : count only what made it in
			fmt.Printf("[%s] - %d document(s) failed to insert into %s : %v\n",
				time.Now(), len(bulkErr.WriteErrors), collectionName, bulkErr.WriteErrors)

			inserted := 0
			if result != nil {
				inserted = len(result.InsertedIDs)
			}
			return inserted, nil
		}

		return 0, fmt.Errorf("failed to bulk insert into %s : %w", collectionName, insertErr)
	}

	return len(result.InsertedIDs), nil
}

// CountVariants computes the exact number of documents matching the filter.
func CountVariants(ctx context.Context, db *mongo.Database, collectionName string, filter bson.M) (int64, error) {
	total, countErr := db.Collection(collectionName).CountDocuments(ctx, filter)
	if countErr != nil {
		return 0, fmt.Errorf("failed to count documents in %s : %w", collectionName, countErr)
	}
	return total, nil
}

// GetVariantsWindow runs one fan-out sub-query : match, sort, skip, limit,
// project. Every sub-window of a page request must be sorted identically
// for the concatenated page to be correct.
func GetVariantsWindow(ctx context.Context, cfg *models.Config, db *mongo.Database,
	collectionName string, filter bson.M, sortDoc bson.D, skip int, limit int) ([]map[string]interface{}, error) {

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$sort", Value: sortDoc}},
		bson.D{{Key: "$skip", Value: skip}},
		bson.D{{Key: "$limit", Value: limit}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "chromosome", Value: 1},
			{Key: "position", Value: 1},
			{Key: "id", Value: 1},
			{Key: "reference", Value: 1},
			{Key: "alternate", Value: 1},
			{Key: "quality", Value: 1},
			{Key: "filter_status", Value: 1},
			{Key: "info", Value: 1},
			{Key: "format", Value: 1},
			{Key: "outputs", Value: 1},
		}}},
	}

	if cfg.Debug {
		// view the outbound aggregation pipeline
		fmt.Printf("Aggregating %s with pipeline %v\n", collectionName, pipeline)
	}

	cursor, aggregateErr := db.Collection(collectionName).Aggregate(ctx, pipeline)
	if aggregateErr != nil {
		return nil, fmt.Errorf("failed to aggregate window over %s : %w", collectionName, aggregateErr)
	}
	defer cursor.Close(ctx)

	results := []map[string]interface{}{}
	if allErr := cursor.All(ctx, &results); allErr != nil {
		return nil, fmt.Errorf("failed to decode window over %s : %w", collectionName, allErr)
	}

	return results, nil
}

// CreateSearchIndexes builds the secondary indexes that accelerate
// substring search over an upload's collection. Build failure leaves
// search correct but slower, so callers treat it as non-fatal.
func CreateSearchIndexes(ctx context.Context, db *mongo.Database, collectionName string) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "chromosome", Value: 1}},
			Options: options.Index().SetName("chromosome_index"),
		},
		{
			Keys:    bson.D{{Key: "filter_status", Value: 1}},
			Options: options.Index().SetName("filter_status_index"),
		},
		{
			Keys:    bson.D{{Key: "info", Value: 1}},
			Options: options.Index().SetName("info_index"),
		},
		{
			Keys:    bson.D{{Key: "format", Value: 1}},
			Options: options.Index().SetName("format_index"),
		},
	}

	_, indexErr := db.Collection(collectionName).Indexes().CreateMany(ctx, indexModels)
	if indexErr != nil {
		return fmt.Errorf("failed to create search indexes on %s : %w", collectionName, indexErr)
	}

	return nil
}

// DropVariantsCollection removes an upload's collection as a whole unit.
func DropVariantsCollection(ctx context.Context, db *mongo.Database, collectionName string) error {
	if dropErr := db.Collection(collectionName).Drop(ctx); dropErr != nil {
		return fmt.Errorf("failed to drop collection %s : %w", collectionName, dropErr)
	}
	return nil
}

// ListVariantCollectionNames returns the names of all per-upload variant
// collections currently present in the database.
func ListVariantCollectionNames(ctx context.Context, db *mongo.Database, prefix string) ([]string, error) {
	names, listErr := db.ListCollectionNames(ctx, bson.M{
		"name": bson.M{"$regex": fmt.Sprintf("^%s", prefix)},
	})
	if listErr != nil {
		return nil, fmt.Errorf("failed to list variant collections : %w", listErr)
	}
	return names, nil
}
