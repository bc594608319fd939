package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"vitigen/api/models"
)

// CreateMongoConnection dials the storage backend and pings it until it
// responds, retrying with exponential backoff. Callers receive a connected
// client or the program exits through the returned error at startup.
func CreateMongoConnection(cfg *models.Config) (*mongo.Client, error) {
	var (
		client       *mongo.Client
		retryBackoff = backoff.NewExponentialBackOff()
	)
	retryBackoff.MaxElapsedTime = 60 * time.Second

	clientOptions := options.Client().
		ApplyURI(cfg.Mongo.Url).
		SetMaxPoolSize(cfg.Mongo.MaxPoolSize).
		SetRetryWrites(true).
		SetRetryReads(true)

	connect := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var connectErr error
		client, connectErr = mongo.Connect(ctx, clientOptions)
		if connectErr != nil {
			fmt.Printf("Error connecting to mongo at %s : %v\n", cfg.Mongo.Url, connectErr)
			return connectErr
		}

		if pingErr := client.Ping(ctx, readpref.Primary()); pingErr != nil {
			fmt.Printf("Error pinging mongo at %s : %v\n", cfg.Mongo.Url, pingErr)
			return pingErr
		}

		return nil
	}

	if retryErr := backoff.Retry(connect, retryBackoff); retryErr != nil {
		return nil, retryErr
	}

	fmt.Printf("Connected to mongo database %s\n", cfg.Mongo.Database)

	return client, nil
}
