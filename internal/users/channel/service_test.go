// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package channel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/users/auth"
)

// # Test Doubles

type memoryChannelRepository struct {
	users         map[string]*auth.User // keyed by userName
	subscriptions []Subscription
}

func newMemoryChannelRepository() *memoryChannelRepository {
	return &memoryChannelRepository{users: make(map[string]*auth.User)}
}

func (repository *memoryChannelRepository) FindByUserName(_ context.Context, userName string) (*auth.User, error) {
	if user, ok := repository.users[userName]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("Channel")
}

func (repository *memoryChannelRepository) CountSubscribers(_ context.Context, channelID primitive.ObjectID) (int64, error) {
	var count int64
	for _, subscription := range repository.subscriptions {
		if subscription.Channel == channelID {
			count++
		}
	}
	return count, nil
}

func (repository *memoryChannelRepository) CountSubscriptions(_ context.Context, subscriberID primitive.ObjectID) (int64, error) {
	var count int64
	for _, subscription := range repository.subscriptions {
		if subscription.Subscriber == subscriberID {
			count++
		}
	}
	return count, nil
}

func (repository *memoryChannelRepository) IsSubscribed(_ context.Context, channelID, subscriberID primitive.ObjectID) (bool, error) {
	for _, subscription := range repository.subscriptions {
		if subscription.Channel == channelID && subscription.Subscriber == subscriberID {
			return true, nil
		}
	}
	return false, nil
}

// # Tests

func TestService_GetProfile(t *testing.T) {
	repository := newMemoryChannelRepository()
	service := NewService(repository)

	channelUser := &auth.User{
		ID:       primitive.NewObjectID(),
		UserName: "chai-aur-code",
		FullName: "Chai Aur Code",
		Email:    "dev@example.com",
	}
	repository.users[channelUser.UserName] = channelUser

	viewer := primitive.NewObjectID()
	other := primitive.NewObjectID()
	repository.subscriptions = []Subscription{
		{Channel: channelUser.ID, Subscriber: viewer},
		{Channel: channelUser.ID, Subscriber: other},
		{Channel: other, Subscriber: channelUser.ID},
	}

	profile, err := service.GetProfile(context.Background(), "chai-aur-code", viewer.Hex())

	require.NoError(t, err)
	assert.Equal(t, "chai-aur-code", profile.UserName)
	assert.Equal(t, int64(2), profile.SubscriberCount)
	assert.Equal(t, int64(1), profile.SubscribedToCount)
	assert.True(t, profile.IsSubscribed)
}

func TestService_GetProfile_AnonymousViewer(t *testing.T) {
	repository := newMemoryChannelRepository()
	service := NewService(repository)

	channelUser := &auth.User{ID: primitive.NewObjectID(), UserName: "chai-aur-code"}
	repository.users[channelUser.UserName] = channelUser

	profile, err := service.GetProfile(context.Background(), "chai-aur-code", "")

	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)
	assert.Zero(t, profile.SubscriberCount)
}

func TestService_GetProfile_FoldsHandle(t *testing.T) {
	repository := newMemoryChannelRepository()
	service := NewService(repository)

	channelUser := &auth.User{ID: primitive.NewObjectID(), UserName: "chai-aur-code"}
	repository.users[channelUser.UserName] = channelUser

	// Differently-cased spellings resolve to the same channel.
	profile, err := service.GetProfile(context.Background(), "Chai Aur Code", "")

	require.NoError(t, err)
	assert.Equal(t, "chai-aur-code", profile.UserName)
}

func TestService_GetProfile_Unknown(t *testing.T) {
	service := NewService(newMemoryChannelRepository())

	_, err := service.GetProfile(context.Background(), "missing-channel", "")

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

func TestService_GetProfile_EmptyHandle(t *testing.T) {
	service := NewService(newMemoryChannelRepository())

	_, err := service.GetProfile(context.Background(), "!!!", "")

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}
