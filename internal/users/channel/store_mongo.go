// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package channel

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/mongodb"
	"github.com/vidora/vidora/internal/users/auth"
)

// MongoChannelRepository implements ChannelRepository over the users and
// subscriptions collections.
type MongoChannelRepository struct {
	users         *mongo.Collection
	subscriptions *mongo.Collection
}

// NewChannelRepository creates a new MongoDB implementation of the ChannelRepository.
func NewChannelRepository(database *mongo.Database) *MongoChannelRepository {
	return &MongoChannelRepository{
		users:         database.Collection(mongodb.CollectionUsers),
		subscriptions: database.Collection(mongodb.CollectionSubscriptions),
	}
}

/*
FindByUserName returns the account behind the canonical handle.

Parameters:
  - context: context.Context
  - userName: string

Returns:
  - *auth.User: Hydrated entity
  - error: apperr.NotFound or connectivity errors
*/
func (repository *MongoChannelRepository) FindByUserName(context context.Context, userName string) (*auth.User, error) {
	var user auth.User
	if err := repository.users.FindOne(context, bson.M{"userName": userName}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Channel")
		}
		return nil, fmt.Errorf("mongo_channel_find_failed: %w", err)
	}
	return &user, nil
}

/*
CountSubscribers returns how many accounts subscribe to the channel.

Parameters:
  - context: context.Context
  - channelID: primitive.ObjectID

Returns:
  - int64: Subscriber count
  - error: Connectivity errors
*/
func (repository *MongoChannelRepository) CountSubscribers(context context.Context, channelID primitive.ObjectID) (int64, error) {
	count, err := repository.subscriptions.CountDocuments(context, bson.M{"channel": channelID})
	if err != nil {
		return 0, fmt.Errorf("mongo_channel_subscriber_count_failed: %w", err)
	}
	return count, nil
}

/*
CountSubscriptions returns how many channels the account subscribes to.

Parameters:
  - context: context.Context
  - subscriberID: primitive.ObjectID

Returns:
  - int64: Subscription count
  - error: Connectivity errors
*/
func (repository *MongoChannelRepository) CountSubscriptions(context context.Context, subscriberID primitive.ObjectID) (int64, error) {
	count, err := repository.subscriptions.CountDocuments(context, bson.M{"subscriber": subscriberID})
	if err != nil {
		return 0, fmt.Errorf("mongo_channel_subscription_count_failed: %w", err)
	}
	return count, nil
}

/*
IsSubscribed reports whether subscriberID subscribes to channelID.

Parameters:
  - context: context.Context
  - channelID: primitive.ObjectID
  - subscriberID: primitive.ObjectID

Returns:
  - bool: true when a subscription document exists
  - error: Connectivity errors
*/
func (repository *MongoChannelRepository) IsSubscribed(context context.Context, channelID, subscriberID primitive.ObjectID) (bool, error) {
	filter := bson.M{"channel": channelID, "subscriber": subscriberID}

	count, err := repository.subscriptions.CountDocuments(context, filter)
	if err != nil {
		return false, fmt.Errorf("mongo_channel_subscription_check_failed: %w", err)
	}
	return count > 0, nil
}
