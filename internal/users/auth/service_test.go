// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/sec"
)

// # Test Doubles

// memoryUserRepository is an in-memory UserRepository for service tests.
type memoryUserRepository struct {
	users map[string]*User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*User)}
}

func (repository *memoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := repository.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (repository *memoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *memoryUserRepository) FindByUserName(_ context.Context, userName string) (*User, error) {
	for _, user := range repository.users {
		if user.UserName == userName {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *memoryUserRepository) FindByLogin(ctx context.Context, login string) (*User, error) {
	if user, err := repository.FindByUserName(ctx, login); err == nil {
		return user, nil
	}
	return repository.FindByEmail(ctx, login)
}

func (repository *memoryUserRepository) Create(_ context.Context, user *User) error {
	user.ID = primitive.NewObjectID()
	clone := *user
	repository.users[user.ID.Hex()] = &clone
	return nil
}

func (repository *memoryUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (repository *memoryUserRepository) UpdateRefreshToken(_ context.Context, userID, token string) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.RefreshToken = token
	return nil
}

// memoryLoginGuard tracks failures without a real Redis.
type memoryLoginGuard struct {
	failures map[string]int
}

func newMemoryLoginGuard() *memoryLoginGuard {
	return &memoryLoginGuard{failures: make(map[string]int)}
}

func (guard *memoryLoginGuard) IsBlocked(_ context.Context, login string) (bool, error) {
	return guard.failures[login] >= MaxLoginFailures, nil
}

func (guard *memoryLoginGuard) RegisterFailure(_ context.Context, login string) error {
	guard.failures[login]++
	return nil
}

func (guard *memoryLoginGuard) Reset(_ context.Context, login string) error {
	delete(guard.failures, login)
	return nil
}

// stubUploader returns canned assets keyed by spool path.
type stubUploader struct {
	err     error
	uploads int
}

func (uploader *stubUploader) Upload(_ context.Context, localPath string) (media.Asset, error) {
	if localPath == "" {
		return media.Asset{}, nil
	}
	if uploader.err != nil {
		return media.Asset{}, uploader.err
	}
	uploader.uploads++
	return media.Asset{
		URL: "https://cdn.vidora.app/media/asset-" + localPath,
		ID:  "asset-" + localPath,
	}, nil
}

// # Fixtures

func newTestTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	tokens, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "vidora-test",
	})
	require.NoError(t, err)
	return tokens
}

type serviceFixture struct {
	service  *Service
	users    *memoryUserRepository
	guard    *memoryLoginGuard
	uploader *stubUploader
	tokens   *sec.TokenService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	users := newMemoryUserRepository()
	guard := newMemoryLoginGuard()
	uploader := &stubUploader{}
	tokens := newTestTokenService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &serviceFixture{
		service:  NewService(users, guard, tokens, uploader, logger),
		users:    users,
		guard:    guard,
		uploader: uploader,
		tokens:   tokens,
	}
}

func registerInput() RegisterInput {
	return RegisterInput{
		UserName:   "Chai-Aur-Code",
		Email:      "dev@example.com",
		FullName:   "Chai Aur Code",
		Password:   "super-secret-1",
		AvatarPath: "avatar.png",
	}
}

// # Registration

func TestService_Register(t *testing.T) {
	fixture := newServiceFixture(t)

	user, err := fixture.service.Register(context.Background(), registerInput())

	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())

	// The stored handle is the canonical, lower-case form of the input.
	assert.Equal(t, "chai-aur-code", user.UserName)
	assert.Equal(t, "dev@example.com", user.Email)
	assert.NotEmpty(t, user.AvatarURL)
	assert.Empty(t, user.CoverImageURL)

	// The plain password must never be stored.
	assert.NotEqual(t, "super-secret-1", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("super-secret-1", user.PasswordHash))
}

func TestService_UserJSONOmitsCredentials(t *testing.T) {
	fixture := newServiceFixture(t)

	user, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	// The hash lives on the entity but must never reach a serialized response.
	payload, err := json.Marshal(user)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "chai-aur-code")
	assert.NotContains(t, string(payload), "password")
	assert.NotContains(t, string(payload), user.PasswordHash)

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Login:    "dev@example.com",
		Password: "super-secret-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, session.User.RefreshToken)

	// A logged-in user carries the live refresh token in memory; the
	// serialized form must not.
	payload, err = json.Marshal(session.User)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "refreshToken")
	assert.NotContains(t, string(payload), session.RefreshToken)
}

func TestService_Register_WithCoverImage(t *testing.T) {
	fixture := newServiceFixture(t)

	input := registerInput()
	input.CoverImagePath = "cover.png"

	user, err := fixture.service.Register(context.Background(), input)

	require.NoError(t, err)
	assert.NotEmpty(t, user.CoverImageURL)
	assert.Equal(t, 2, fixture.uploader.uploads)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	input := registerInput()
	input.UserName = "someone-else"
	_, err = fixture.service.Register(context.Background(), input)

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 409, appError.HTTPStatus)
}

func TestService_Register_DuplicateHandleAfterFolding(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	// A differently-cased spelling folds to the same canonical handle.
	input := registerInput()
	input.Email = "other@example.com"
	input.UserName = "CHAI aur CODE"
	_, err = fixture.service.Register(context.Background(), input)

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 409, appError.HTTPStatus)
}

func TestService_Register_UploadFailure(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.uploader.err = errors.New("bucket unreachable")

	_, err := fixture.service.Register(context.Background(), registerInput())

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, "UPLOAD_FAILED", appError.Code)

	// Nothing was persisted.
	_, findErr := fixture.users.FindByEmail(context.Background(), "dev@example.com")
	assert.Error(t, findErr)
}

// # Login & Session Rotation

func TestService_Login(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Login:    "chai-aur-code",
		Password: "super-secret-1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.NotEqual(t, session.AccessToken, session.RefreshToken)

	// The issued refresh token is the persisted one.
	stored, err := fixture.users.FindByID(context.Background(), session.User.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, session.RefreshToken, stored.RefreshToken)
}

func TestService_Login_ByEmail(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = fixture.service.Login(context.Background(), LoginInput{
		Login:    "dev@example.com",
		Password: "super-secret-1",
	})
	require.NoError(t, err)
}

func TestService_Login_WrongPassword(t *testing.T) {
	fixture := newServiceFixture(t)

	user, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = fixture.service.Login(context.Background(), LoginInput{
		Login:    "chai-aur-code",
		Password: "wrong-password",
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 401, appError.HTTPStatus)

	// No session state was created for the failed attempt.
	stored, err := fixture.users.FindByID(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)
	assert.Equal(t, 1, fixture.guard.failures["chai-aur-code"])
}

func TestService_Login_ThrottledAfterRepeatedFailures(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	for i := 0; i < MaxLoginFailures; i++ {
		_, err = fixture.service.Login(context.Background(), LoginInput{
			Login:    "chai-aur-code",
			Password: "wrong-password",
		})
		require.Error(t, err)
	}

	// Even the correct password is rejected while the block is active.
	_, err = fixture.service.Login(context.Background(), LoginInput{
		Login:    "chai-aur-code",
		Password: "super-secret-1",
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 429, appError.HTTPStatus)
}

func TestService_SecondLoginRevokesFirstSession(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	credentials := LoginInput{Login: "chai-aur-code", Password: "super-secret-1"}

	first, err := fixture.service.Login(context.Background(), credentials)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond) // Distinct iat so the tokens differ.

	second, err := fixture.service.Login(context.Background(), credentials)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The earlier refresh token no longer matches the persisted copy.
	_, err = fixture.service.RefreshSession(context.Background(), first.RefreshToken)
	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 401, appError.HTTPStatus)

	// The current one still works.
	_, err = fixture.service.RefreshSession(context.Background(), second.RefreshToken)
	require.NoError(t, err)
}

func TestService_RefreshSession_RotatesToken(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Login:    "chai-aur-code",
		Password: "super-secret-1",
	})
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	rotated, err := fixture.service.RefreshSession(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// The pre-rotation token is dead.
	_, err = fixture.service.RefreshSession(context.Background(), session.RefreshToken)
	assert.Error(t, err)
}

func TestService_RefreshSession_RejectsAccessToken(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Login:    "chai-aur-code",
		Password: "super-secret-1",
	})
	require.NoError(t, err)

	// An access token must never pass as a refresh token.
	_, err = fixture.service.RefreshSession(context.Background(), session.AccessToken)
	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 401, appError.HTTPStatus)
}

func TestService_Logout_RevokesSession(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Login:    "chai-aur-code",
		Password: "super-secret-1",
	})
	require.NoError(t, err)

	userID := session.User.ID.Hex()
	require.NoError(t, fixture.service.Logout(context.Background(), userID))

	// The refresh token issued before logout is rejected.
	_, err = fixture.service.RefreshSession(context.Background(), session.RefreshToken)
	assert.Error(t, err)

	// Logout is idempotent.
	assert.NoError(t, fixture.service.Logout(context.Background(), userID))
}

// # Password Change

func TestService_ChangePassword(t *testing.T) {
	fixture := newServiceFixture(t)

	user, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)
	userID := user.ID.Hex()

	err = fixture.service.ChangePassword(context.Background(), userID, "super-secret-1", "brand-new-pass")
	require.NoError(t, err)

	// Old password no longer works, new one does.
	_, err = fixture.service.Login(context.Background(), LoginInput{Login: "chai-aur-code", Password: "super-secret-1"})
	assert.Error(t, err)
	_, err = fixture.service.Login(context.Background(), LoginInput{Login: "chai-aur-code", Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestService_ChangePassword_WrongCurrent(t *testing.T) {
	fixture := newServiceFixture(t)

	user, err := fixture.service.Register(context.Background(), registerInput())
	require.NoError(t, err)
	userID := user.ID.Hex()

	err = fixture.service.ChangePassword(context.Background(), userID, "not-the-password", "brand-new-pass")

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, 401, appError.HTTPStatus)

	// The original credential still authenticates.
	_, err = fixture.service.Login(context.Background(), LoginInput{Login: "chai-aur-code", Password: "super-secret-1"})
	assert.NoError(t, err)
}
