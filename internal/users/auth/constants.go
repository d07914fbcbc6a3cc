// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth

import "time"

// # Authentication Constraints

const (
	// PasswordMinLength is the minimum accepted password length.
	PasswordMinLength = 8

	// MaxLoginFailures is the number of failed attempts before a login
	// identifier is temporarily blocked.
	MaxLoginFailures = 5

	// LoginFailureWindow is how long the failure counter lives in Redis.
	// The counter expires as a whole rather than sliding per attempt.
	LoginFailureWindow = 15 * time.Minute
)
