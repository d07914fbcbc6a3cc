// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package auth implements the user identity and session management layer.

It defines the core domain entity (User) and the logic for registration,
credential verification, and refresh-token session lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// # Domain Entities

// User represents a registered member of the Vidora platform.
//
// The document keeps at most one live refresh token per account; storing a
// new one implicitly revokes whatever was issued before.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserName      string             `bson:"userName" json:"userName"`
	Email         string             `bson:"email" json:"email"`
	FullName      string             `bson:"fullName" json:"fullName"`
	AvatarURL     string             `bson:"avatar" json:"avatar"`
	CoverImageURL string             `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	PasswordHash  string             `bson:"password" json:"-"` // Explicitly omitted from JSON for security.
	RefreshToken  string             `bson:"refreshToken,omitempty" json:"-"` // Persisted copy of the live session token. Omitted for security.
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUserName     = "userName"
	FieldEmail        = "email"
	FieldFullName     = "fullName"
	FieldPassword     = "password"
	FieldLogin        = "login"
	FieldAvatar       = "avatar"
	FieldCoverImage   = "coverImage"
	FieldOldPassword  = "oldPassword"
	FieldNewPassword  = "newPassword"
	FieldAccessToken  = "accessToken"
	FieldRefreshToken = "refreshToken"
	FieldUser         = "user"
	FieldMessage      = "message"
)
