// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package channel

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/pkg/handle"
)

// # Service Layer

// Service assembles public channel profiles from the user directory and the
// subscription graph.
type Service struct {
	channelRepository ChannelRepository
}

// NewService constructs a new channel [Service].
func NewService(channelRepo ChannelRepository) *Service {
	return &Service{channelRepository: channelRepo}
}

/*
GetProfile resolves the public channel profile behind a handle.

Description: Folds the requested handle to its canonical form, loads the
account, and decorates it with subscription counters. When viewerID belongs
to an authenticated caller, the profile also reports whether that viewer is
subscribed.

Parameters:
  - context: context.Context
  - userName: string (handle, folded before lookup)
  - viewerID: string (hex ObjectID of the viewer; empty for anonymous)

Returns:
  - *Profile: Transport-ready channel view
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetProfile(context context.Context, userName, viewerID string) (*Profile, error) {
	canonical := handle.From(userName)
	if canonical == "" {
		return nil, apperr.NotFound("Channel")
	}

	user, err := service.channelRepository.FindByUserName(context, canonical)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.NotFound("Channel")
		}
		return nil, fmt.Errorf("channel_service_lookup_failed: %w", err)
	}

	subscriberCount, err := service.channelRepository.CountSubscribers(context, user.ID)
	if err != nil {
		return nil, fmt.Errorf("channel_service_subscriber_count_failed: %w", err)
	}

	subscribedToCount, err := service.channelRepository.CountSubscriptions(context, user.ID)
	if err != nil {
		return nil, fmt.Errorf("channel_service_subscription_count_failed: %w", err)
	}

	isSubscribed := false
	if viewerID != "" {
		if viewerObjectID, err := primitive.ObjectIDFromHex(viewerID); err == nil {
			isSubscribed, err = service.channelRepository.IsSubscribed(context, user.ID, viewerObjectID)
			if err != nil {
				return nil, fmt.Errorf("channel_service_subscription_check_failed: %w", err)
			}
		}
	}

	return &Profile{
		ID:                user.ID,
		UserName:          user.UserName,
		FullName:          user.FullName,
		Email:             user.Email,
		AvatarURL:         user.AvatarURL,
		CoverImageURL:     user.CoverImageURL,
		SubscriberCount:   subscriberCount,
		SubscribedToCount: subscribedToCount,
		IsSubscribed:      isSubscribed,
	}, nil
}
