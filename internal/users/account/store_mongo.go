// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/mongodb"
	"github.com/vidora/vidora/internal/users/auth"
)

// MongoAccountRepository implements AccountRepository over the shared users
// collection.
type MongoAccountRepository struct {
	collection *mongo.Collection
}

// NewAccountRepository creates a new MongoDB implementation of the AccountRepository.
func NewAccountRepository(database *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{collection: database.Collection(mongodb.CollectionUsers)}
}

/*
FindByID retrieves a user record by their hex-encoded ObjectID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *auth.User: Hydrated entity
  - error: apperr.NotFound or connectivity errors
*/
func (repository *MongoAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("User")
	}
	return repository.findOne(context, bson.M{"_id": objectID})
}

/*
FindByEmail retrieves a user record by email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *auth.User: Hydrated entity
  - error: apperr.NotFound or connectivity errors
*/
func (repository *MongoAccountRepository) FindByEmail(context context.Context, email string) (*auth.User, error) {
	return repository.findOne(context, bson.M{"email": email})
}

/*
Update persists the mutable profile fields (fullName, email).

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: apperr.Conflict on unique index violations, or persistence failures
*/
func (repository *MongoAccountRepository) Update(context context.Context, user *auth.User) error {
	update := bson.M{"$set": bson.M{
		"fullName":  user.FullName,
		"email":     user.Email,
		"updatedAt": time.Now(),
	}}

	result, err := repository.collection.UpdateByID(context, user.ID, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("mongo_account_update_failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
UpdateAvatar replaces the stored avatar URL of the account.

Parameters:
  - context: context.Context
  - userID: string
  - url: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *MongoAccountRepository) UpdateAvatar(context context.Context, userID, url string) error {
	return repository.setField(context, userID, "avatar", url)
}

/*
UpdateCover replaces the stored cover image URL of the account.

Parameters:
  - context: context.Context
  - userID: string
  - url: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *MongoAccountRepository) UpdateCover(context context.Context, userID, url string) error {
	return repository.setField(context, userID, "coverImage", url)
}

// # Internal Helpers

func (repository *MongoAccountRepository) findOne(context context.Context, filter bson.M) (*auth.User, error) {
	var user auth.User
	if err := repository.collection.FindOne(context, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("mongo_account_find_failed: %w", err)
	}
	return &user, nil
}

func (repository *MongoAccountRepository) setField(context context.Context, userID, field, value string) error {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.NotFound("User")
	}

	update := bson.M{"$set": bson.M{
		field:       value,
		"updatedAt": time.Now(),
	}}

	result, err := repository.collection.UpdateByID(context, objectID, update)
	if err != nil {
		return fmt.Errorf("mongo_account_update_failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
