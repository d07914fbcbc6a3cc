// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/pkg/handle"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and verifying session tokens.
type TokenProvider interface {
	// IssueAccess creates a signed short-lived access token for the user.
	IssueAccess(userID string) (string, error)

	// IssueRefresh creates a signed long-lived refresh token for the user.
	IssueRefresh(userID string) (string, error)

	// Verify checks the signature, expiry, and class of a token and returns
	// the subject user ID.
	Verify(tokenString string, class sec.TokenClass) (string, error)
}

// AssetUploader defines the contract for pushing spooled media files to
// remote storage.
type AssetUploader interface {
	// Upload stores the file at localPath and returns the durable asset.
	// An empty localPath yields a zero asset with no error.
	Upload(ctx context.Context, localPath string) (media.Asset, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	loginGuard     LoginGuard
	tokenProvider  TokenProvider
	uploader       AssetUploader
	logger         *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	guard LoginGuard,
	tokenProv TokenProvider,
	uploader AssetUploader,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		loginGuard:     guard,
		tokenProvider:  tokenProv,
		uploader:       uploader,
		logger:         logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	UserName string
	Email    string
	FullName string
	Password string

	// AvatarPath is the local spool path of the mandatory avatar upload.
	AvatarPath string
	// CoverImagePath is the local spool path of the optional cover upload.
	CoverImagePath string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Canonicalizes the handle, verifies identity uniqueness, pushes
the avatar (and optional cover) through the media pipeline, and persists the
account with a hashed password.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists), upload, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Canonicalize the chosen handle so lookups stay case-insensitive.
	userName := handle.From(input.UserName)
	if userName == "" {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldUserName,
			Message: "Username contains no usable characters",
		})
	}

	// Verify email uniqueness. Return a client-safe Conflict error.
	if _, err := service.userRepository.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify handle uniqueness. Return a client-safe Conflict error.
	if _, err := service.userRepository.FindByUserName(context, userName); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Push the mandatory avatar to remote storage before touching the database.
	avatar, err := service.uploader.Upload(context, input.AvatarPath)
	if err != nil {
		return nil, apperr.UploadFailed(err)
	}
	if avatar.URL == "" {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldAvatar,
			Message: "An avatar image is required",
		})
	}

	// The cover is optional; a missing spool path yields a zero asset.
	cover, err := service.uploader.Upload(context, input.CoverImagePath)
	if err != nil {
		return nil, apperr.UploadFailed(err)
	}

	user := &User{
		UserName:      userName,
		Email:         input.Email,
		FullName:      input.FullName,
		AvatarURL:     avatar.URL,
		CoverImageURL: cover.URL,
		PasswordHash:  hashedPassword,
	}

	// Persist the user to the database.
	if err := service.userRepository.Create(context, user); err != nil {
		// The uploads already succeeded; record them so operators can sweep.
		service.logger.Error("registration failed after media upload",
			slog.String("avatar_id", avatar.ID),
			slog.String("cover_id", cover.ID),
			slog.Any("error", err),
		)
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be UserName or Email
	Password string
}

// SessionTokens represents a successfully established user session.
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

/*
Login validates user credentials and issues a fresh token pair.

Description: Verifies identity under the failure throttle, performs
constant-time password comparison, and persists the new refresh token so any
previously issued one is implicitly revoked.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *SessionTokens: Transport-ready session identifiers
  - error: Unauthorized, RateLimited, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*SessionTokens, error) {

	// Reject early when this identifier has burned through its attempts.
	blocked, err := service.loginGuard.IsBlocked(context, input.Login)
	if err != nil {
		return nil, fmt.Errorf("auth_service_login_guard_failed: %w", err)
	}
	if blocked {
		return nil, apperr.RateLimited(int(LoginFailureWindow.Seconds()))
	}

	// Flexible login: look up by email or handle. Generic message on every
	// failure path to prevent account enumeration.
	user, err := service.userRepository.FindByLogin(context, input.Login)
	if err != nil {
		_ = service.loginGuard.RegisterFailure(context, input.Login)
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison to prevent timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		_ = service.loginGuard.RegisterFailure(context, input.Login)
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	tokens, err := service.establishSession(context, user)
	if err != nil {
		return nil, err
	}

	// The credential was valid; forget earlier stumbles.
	if err := service.loginGuard.Reset(context, input.Login); err != nil {
		service.logger.Warn("failed to reset login failure counter",
			slog.Any("error", err),
		)
	}

	return tokens, nil
}

/*
Logout revokes the user's active refresh session.

Description: Clears the persisted refresh token so the one in the wild can
never pass the equality check again. Idempotent: logging out twice succeeds.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.userRepository.UpdateRefreshToken(context, userID, ""); err != nil {
		if apperr.IsAppError(err) {
			// The account is gone; there is nothing left to revoke.
			return nil
		}
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// # Session Management

/*
RefreshSession rotates the refresh token and issues a fresh token pair.

Description: Verifies the presented token's signature and class, then checks
it against the persisted copy on the account. A mismatch means the token was
rotated or revoked and the presented one is dead. The new refresh token is
persisted before returning, completing the rotation.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *SessionTokens: New session credentials
  - error: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken string) (*SessionTokens, error) {

	// Signature, expiry, and class checks happen before any storage access.
	userID, err := service.tokenProvider.Verify(refreshToken, sec.TokenClassRefresh)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Equality against the persisted copy is the revocation check: logout
	// clears the slot and a later login overwrites it.
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, apperr.Unauthorized("Refresh token has been revoked")
	}

	return service.establishSession(context, user)
}

/*
ChangePassword verifies the current password and replaces the stored hash.

Description: Rejects the change without mutating anything when the current
password does not match. Existing sessions stay alive; a password change is
not a device-revocation mechanism.

Parameters:
  - context: context.Context
  - userID: string
  - oldPassword: string
  - newPassword: string

Returns:
  - error: Unauthorized or persistence failures
*/
func (service *Service) ChangePassword(context context.Context, userID, oldPassword, newPassword string) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, newHash); err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}

	return nil
}

// # Internal Helpers

// establishSession issues a fresh token pair and persists the refresh token,
// implicitly revoking whatever session existed before.
func (service *Service) establishSession(context context.Context, user *User) (*SessionTokens, error) {
	userID := user.ID.Hex()

	accessToken, err := service.tokenProvider.IssueAccess(userID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenProvider.IssueRefresh(userID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Persisting the new token is the rotation: the previous one no longer
	// matches the stored copy and dies with this write.
	if err := service.userRepository.UpdateRefreshToken(context, userID, refreshToken); err != nil {
		return nil, fmt.Errorf("auth_service_session_persist_failed: %w", err)
	}
	user.RefreshToken = refreshToken

	return &SessionTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
