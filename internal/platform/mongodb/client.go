// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package mongodb provides a managed MongoDB client for the Vidora application.

# Architecture

This package is part of the Infrastructure layer. It manages the physical
database connection and the schema-level concerns (indexes) of the
collections, while the domain layer defines the repository interfaces.
*/
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Opinionated connection settings for the Vidora workload.
const (
	// maxPoolSize is the maximum number of pooled connections.
	maxPoolSize = 25
	// minPoolSize keeps a warm set of connections to avoid cold-start latency.
	minPoolSize = 5
	// connectTimeout is the maximum time allowed to establish a connection.
	connectTimeout = 5 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// Collection names used across the domain repositories.
const (
	CollectionUsers         = "users"
	CollectionSubscriptions = "subscriptions"
)

// NewDatabase connects to MongoDB and returns a handle to the named database.
//
// # Parameters
//   - ctx: Context for the initial connection attempt.
//   - uri: A mongodb:// connection URI.
//   - dbName: Name of the application database.
//   - logger: Structured logger for connection events.
func NewDatabase(ctx context.Context, uri, dbName string, logger *slog.Logger) (*mongo.Database, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize).
		SetConnectTimeout(connectTimeout)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb: failed to connect: %w", err)
	}

	database := client.Database(dbName)

	// Validate connectivity immediately at startup.
	if err := Ping(ctx, database); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("mongodb client connected",
		slog.String("database", dbName),
		slog.Int("max_pool_size", maxPoolSize),
	)

	return database, nil
}

// Ping verifies that the MongoDB connection is healthy.
func Ping(ctx context.Context, database *mongo.Database) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := database.Client().Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("mongodb: ping failed: %w", err)
	}

	return nil
}

// userIndexModels defines the indexes of the users collection.
//
// Identity lookups and the uniqueness guarantees of registration both depend
// on the unique indexes over userName and email.
func userIndexModels() []mongo.IndexModel {
	unique := options.Index().SetUnique(true)

	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "userName", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	}
}

// subscriptionIndexModels defines the indexes of the subscriptions collection.
//
// The compound unique index allows at most one document per channel and
// subscriber pair, so the subscriber counters cannot be skewed by duplicates.
// The compound index also serves the per-channel lookups; the standalone
// subscriber index serves the per-subscriber counts.
func subscriptionIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "channel", Value: 1}, {Key: "subscriber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "subscriber", Value: 1}}},
	}
}

// EnsureIndexes creates the indexes the application relies on.
func EnsureIndexes(ctx context.Context, database *mongo.Database, logger *slog.Logger) error {
	if _, err := database.Collection(CollectionUsers).Indexes().CreateMany(ctx, userIndexModels()); err != nil {
		return fmt.Errorf("mongodb: failed to create user indexes: %w", err)
	}

	if _, err := database.Collection(CollectionSubscriptions).Indexes().CreateMany(ctx, subscriptionIndexModels()); err != nil {
		return fmt.Errorf("mongodb: failed to create subscription indexes: %w", err)
	}

	logger.Info("mongodb indexes ensured",
		slog.String("collections", CollectionUsers+","+CollectionSubscriptions),
	)

	return nil
}
