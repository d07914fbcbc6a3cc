// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/users/auth"
)

// # Contracts & Types

// AssetReplacer defines the contract for swapping stored media assets.
type AssetReplacer interface {
	// Replace uploads the file at localPath and deletes the asset behind
	// oldURL once the new one is durable.
	Replace(ctx context.Context, localPath, oldURL string) (media.Asset, error)
}

// Service orchestrates business logic for user profiles and their media.
type Service struct {
	accountRepository AccountRepository
	replacer          AssetReplacer
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, replacer AssetReplacer, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		replacer:          replacer,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
//
// The handle is deliberately absent: it is the public address of the channel
// and never changes after registration.
type UpdateProfileInput struct {
	FullName *string
	Email    *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage. Changing the email re-checks
uniqueness against the rest of the directory.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Conflict, update, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.FullName != nil {
		user.FullName = *input.FullName
	}

	// A new email must not collide with another account.
	if input.Email != nil && *input.Email != user.Email {
		if existing, err := service.accountRepository.FindByEmail(context, *input.Email); err == nil && existing.ID != user.ID {
			return nil, apperr.Conflict("Email is already registered")
		}
		user.Email = *input.Email
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

// # Media Management

/*
ReplaceAvatar swaps the user's avatar for a freshly uploaded image.

Description: The new asset is uploaded first and the previously stored one
is deleted once the new upload is durable; the database then records the new
URL. A deletion failure of the old asset never fails the operation.

Parameters:
  - context: context.Context
  - userID: string
  - localPath: string (spool path of the uploaded file)

Returns:
  - *auth.User: The updated user profile
  - error: Upload or persistence failures
*/
func (service *Service) ReplaceAvatar(context context.Context, userID, localPath string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	asset, err := service.replacer.Replace(context, localPath, user.AvatarURL)
	if err != nil {
		return nil, apperr.UploadFailed(err)
	}

	if err := service.accountRepository.UpdateAvatar(context, userID, asset.URL); err != nil {
		return nil, fmt.Errorf("account_service_avatar_update_failed: %w", err)
	}

	user.AvatarURL = asset.URL
	service.logger.Info("user_avatar_replaced", slog.String("user_id", userID))

	return user, nil
}

/*
ReplaceCover swaps the user's cover image for a freshly uploaded one.

Description: Same upload-first contract as [Service.ReplaceAvatar]. Accounts
that never had a cover simply gain one; there is nothing to delete.

Parameters:
  - context: context.Context
  - userID: string
  - localPath: string (spool path of the uploaded file)

Returns:
  - *auth.User: The updated user profile
  - error: Upload or persistence failures
*/
func (service *Service) ReplaceCover(context context.Context, userID, localPath string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	asset, err := service.replacer.Replace(context, localPath, user.CoverImageURL)
	if err != nil {
		return nil, apperr.UploadFailed(err)
	}

	if err := service.accountRepository.UpdateCover(context, userID, asset.URL); err != nil {
		return nil, fmt.Errorf("account_service_cover_update_failed: %w", err)
	}

	user.CoverImageURL = asset.URL
	service.logger.Info("user_cover_replaced", slog.String("user_id", userID))

	return user, nil
}
