// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// MongoDB implementation of the auth storage layer.
//
// # Error Mapping
//
// Storage-specific errors (like mongo.ErrNoDocuments) are mapped to
// domain-friendly [apperr.AppError] types to avoid leaking storage
// implementation details.

package auth

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
)

// # User Repository

// MongoUserRepository implements the UserRepository interface using the
// official MongoDB driver.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new MongoDB implementation of the UserRepository.
func NewUserRepository(database *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: database.Collection(mongodb.CollectionUsers)}
}

/*
Create persists a new user document into the users collection.

Description: Initializes timestamps and assigns the generated ObjectID back
onto the entity.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on unique index violations, or connectivity errors
*/
func (repository *MongoUserRepository) Create(context context.Context, user *User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	result, err := repository.collection.InsertOne(context, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("Username or email is already registered")
		}
		return fmt.Errorf("mongo_user_create_failed: %w", err)
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}

	return nil
}

/*
FindByID returns the account with the given hex-encoded ObjectID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or connectivity errors
*/
func (repository *MongoUserRepository) FindByID(context context.Context, id string) (*User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	return repository.findOne(context, bson.M{"_id": objectID})
}

/*
FindByEmail returns the account with the given email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or connectivity errors
*/
func (repository *MongoUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, bson.M{"email": email})
}

/*
FindByUserName returns the account with the given canonical handle.

Parameters:
  - context: context.Context
  - userName: string

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or connectivity errors
*/
func (repository *MongoUserRepository) FindByUserName(context context.Context, userName string) (*User, error) {
	return repository.findOne(context, bson.M{"userName": userName})
}

/*
FindByLogin returns the account whose userName or email matches login.

Parameters:
  - context: context.Context
  - login: string

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or connectivity errors
*/
func (repository *MongoUserRepository) FindByLogin(context context.Context, login string) (*User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"userName": login},
		bson.M{"email": login},
	}}
	return repository.findOne(context, filter)
}

/*
UpdatePassword replaces only the user's password hash.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *MongoUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	return repository.setFields(context, userID, bson.M{"password": newHash})
}

/*
UpdateRefreshToken replaces the persisted refresh token of the account.

Description: An empty token clears the slot, revoking the session.

Parameters:
  - context: context.Context
  - userID: string
  - token: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *MongoUserRepository) UpdateRefreshToken(context context.Context, userID, token string) error {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.NotFound("User")
	}

	update := bson.M{
		"$set": bson.M{"updatedAt": time.Now()},
	}
	if token == "" {
		update["$unset"] = bson.M{"refreshToken": ""}
	} else {
		update["$set"].(bson.M)["refreshToken"] = token
	}

	result, err := repository.collection.UpdateByID(context, objectID, update)
	if err != nil {
		return fmt.Errorf("mongo_user_update_refresh_token_failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// # Internal Helpers

// findOne runs a single-document query and maps driver errors to the domain.
func (repository *MongoUserRepository) findOne(context context.Context, filter bson.M) (*User, error) {
	var user User
	if err := repository.collection.FindOne(context, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("mongo_user_find_failed: %w", err)
	}
	return &user, nil
}

// setFields applies a $set update to the identified user document.
func (repository *MongoUserRepository) setFields(context context.Context, userID string, fields bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.NotFound("User")
	}

	fields["updatedAt"] = time.Now()

	result, err := repository.collection.UpdateByID(context, objectID, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("mongo_user_update_failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
