// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package account handles user profile management and media settings.

It provides functionalities for users to view and update their private
identity data and to replace their avatar and cover images.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Media: Avatar and cover replacement run through the upload pipeline so
    the previously stored asset is cleaned up after the swap.
*/
package account

import (
	"context"

	"github.com/vidora/vidora/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {

	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (hex-encoded ObjectID)

		Returns:
		  - *auth.User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		FindByEmail retrieves a user record by email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *auth.User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*auth.User, error)

	/*
		Update persists changes to the mutable profile fields (fullName, email).

		Parameters:
		  - context: context.Context
		  - user: *auth.User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		UpdateAvatar replaces the stored avatar URL of the account.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - url: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateAvatar(context context.Context, userID, url string) error

	/*
		UpdateCover replaces the stored cover image URL of the account.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - url: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateCover(context context.Context, userID, url string) error
}
