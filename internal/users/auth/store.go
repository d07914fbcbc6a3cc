// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (hex-encoded ObjectID)

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUserName returns the account with the given canonical handle.

		Parameters:
		  - context: context.Context
		  - userName: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUserName(context context.Context, userName string) (*User, error)

	/*
		FindByLogin returns the account whose userName or email matches login.

		Parameters:
		  - context: context.Context
		  - login: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByLogin(context context.Context, login string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Description: Assigns the generated ID back onto the entity.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		UpdateRefreshToken replaces the persisted refresh token of the account.

		Description: An empty token clears the slot, revoking the session.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateRefreshToken(context context.Context, userID, token string) error
}

// # Volatile Data Access

// LoginGuard defines the contract for the volatile login-failure throttle.
type LoginGuard interface {

	/*
		IsBlocked reports whether the login identifier has exhausted its attempts.

		Parameters:
		  - context: context.Context
		  - login: string

		Returns:
		  - bool: true when further attempts must be rejected
		  - error: Connectivity failures
	*/
	IsBlocked(context context.Context, login string) (bool, error)

	/*
		RegisterFailure records one failed attempt for the login identifier.

		Parameters:
		  - context: context.Context
		  - login: string

		Returns:
		  - error: Persistence failures
	*/
	RegisterFailure(context context.Context, login string) error

	/*
		Reset clears the failure counter after a successful login.

		Parameters:
		  - context: context.Context
		  - login: string

		Returns:
		  - error: Deletion failures
	*/
	Reset(context context.Context, login string) error
}
