// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/sec"
)

func newTestTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) *sec.TokenService {
	t.Helper()

	service, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		Issuer:        "vidora.test",
	})
	require.NoError(t, err)
	return service
}

/*
TestTokenService_Config verifies constructor guardrails on secrets.
*/
func TestTokenService_Config(t *testing.T) {
	tests := []struct {
		name          string
		accessSecret  string
		refreshSecret string
		wantErr       bool
	}{
		{"valid", "a-secret", "r-secret", false},
		{"missing_access", "", "r-secret", true},
		{"missing_refresh", "a-secret", "", true},
		{"identical_secrets", "same", "same", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewTokenService(sec.TokenConfig{
				AccessSecret:  tt.accessSecret,
				RefreshSecret: tt.refreshSecret,
				AccessTTL:     time.Minute,
				RefreshTTL:    time.Hour,
			})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestTokenService_RoundTrip checks that a freshly issued token of either class
verifies and yields the user id it was issued for.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, 10*24*time.Hour)
	userID := "64f1b2a3c4d5e6f708192a3b"

	access, err := service.IssueAccess(userID)
	require.NoError(t, err)
	refresh, err := service.IssueRefresh(userID)
	require.NoError(t, err)

	gotAccess, err := service.Verify(access, sec.TokenClassAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, gotAccess)

	gotRefresh, err := service.Verify(refresh, sec.TokenClassRefresh)
	require.NoError(t, err)
	assert.Equal(t, userID, gotRefresh)
}

/*
TestTokenService_ClassIsolation ensures a token signed with one class's secret
never verifies under the other class.
*/
func TestTokenService_ClassIsolation(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, 10*24*time.Hour)

	access, err := service.IssueAccess("user-1")
	require.NoError(t, err)
	refresh, err := service.IssueRefresh("user-1")
	require.NoError(t, err)

	_, err = service.Verify(access, sec.TokenClassRefresh)
	assert.ErrorIs(t, err, sec.ErrTokenMalformed)

	_, err = service.Verify(refresh, sec.TokenClassAccess)
	assert.ErrorIs(t, err, sec.ErrTokenMalformed)
}

/*
TestTokenService_Expired checks that a token past its TTL fails with the
dedicated expiry error, not the generic malformed one.
*/
func TestTokenService_Expired(t *testing.T) {
	// Negative TTLs put the expiry in the past at issuance time.
	service := newTestTokenService(t, -time.Minute, -time.Minute)

	access, err := service.IssueAccess("user-1")
	require.NoError(t, err)

	_, err = service.Verify(access, sec.TokenClassAccess)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_Malformed covers garbage input and tampered payloads.
*/
func TestTokenService_Malformed(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, 10*24*time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Verify(tt.token, sec.TokenClassAccess)
			assert.ErrorIs(t, err, sec.ErrTokenMalformed)
		})
	}

	t.Run("tampered_signature", func(t *testing.T) {
		token, err := service.IssueAccess("user-1")
		require.NoError(t, err)

		tampered := token[:len(token)-2] + "xx"
		_, err = service.Verify(tampered, sec.TokenClassAccess)
		assert.ErrorIs(t, err, sec.ErrTokenMalformed)
	})
}

/*
TestTokenService_VerifyToken checks the middleware-facing claims helper.
*/
func TestTokenService_VerifyToken(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, 10*24*time.Hour)

	access, err := service.IssueAccess("user-9")
	require.NoError(t, err)

	claims, err := service.VerifyToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-9", claims.UserID)

	// A refresh token must not authenticate a request.
	refresh, err := service.IssueRefresh("user-9")
	require.NoError(t, err)
	_, err = service.VerifyToken(refresh)
	assert.Error(t, err)
}
