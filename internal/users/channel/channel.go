// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package channel exposes the public identity of a user as a channel.

Every registered user doubles as a channel addressed by their canonical
handle. The channel view decorates the public profile fields with
subscription counters and, for authenticated viewers, whether they are
subscribed themselves.
*/
package channel

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vidora/vidora/internal/users/auth"
)

// # Domain Entities

// Subscription links a subscriber account to a channel account.
type Subscription struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Channel    primitive.ObjectID `bson:"channel" json:"channel"`
	Subscriber primitive.ObjectID `bson:"subscriber" json:"subscriber"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Profile is the public, transport-ready view of a channel.
//
// The email is included to mirror the private profile shape; password and
// session material never leave the auth entity's json:"-" fields.
type Profile struct {
	ID                primitive.ObjectID `json:"id"`
	UserName          string             `json:"userName"`
	FullName          string             `json:"fullName"`
	Email             string             `json:"email"`
	AvatarURL         string             `json:"avatar"`
	CoverImageURL     string             `json:"coverImage,omitempty"`
	SubscriberCount   int64              `json:"subscriberCount"`
	SubscribedToCount int64              `json:"channelsSubscribedToCount"`
	IsSubscribed      bool               `json:"isSubscribed"`
}

// # Repository Contracts

// ChannelRepository defines the read-side contract for channel profiles.
type ChannelRepository interface {

	/*
		FindByUserName returns the account behind the canonical handle.

		Parameters:
		  - context: context.Context
		  - userName: string

		Returns:
		  - *auth.User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUserName(context context.Context, userName string) (*auth.User, error)

	/*
		CountSubscribers returns how many accounts subscribe to the channel.

		Parameters:
		  - context: context.Context
		  - channelID: primitive.ObjectID

		Returns:
		  - int64: Subscriber count
		  - error: Database retrieval failures
	*/
	CountSubscribers(context context.Context, channelID primitive.ObjectID) (int64, error)

	/*
		CountSubscriptions returns how many channels the account subscribes to.

		Parameters:
		  - context: context.Context
		  - subscriberID: primitive.ObjectID

		Returns:
		  - int64: Subscription count
		  - error: Database retrieval failures
	*/
	CountSubscriptions(context context.Context, subscriberID primitive.ObjectID) (int64, error)

	/*
		IsSubscribed reports whether subscriberID subscribes to channelID.

		Parameters:
		  - context: context.Context
		  - channelID: primitive.ObjectID
		  - subscriberID: primitive.ObjectID

		Returns:
		  - bool: true when a subscription document exists
		  - error: Database retrieval failures
	*/
	IsSubscribed(context context.Context, channelID, subscriberID primitive.ObjectID) (bool, error)
}
