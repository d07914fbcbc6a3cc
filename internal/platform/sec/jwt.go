// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces declared at the point of use.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClass distinguishes the two signed-token families the service mints.
//
// Each class is signed with an independent secret, so leaking one secret does
// not let an attacker forge tokens of the other class.
type TokenClass string

const (
	// TokenClassAccess is the short-lived, stateless credential presented on
	// every authenticated request. It cannot be revoked before expiry.
	TokenClassAccess TokenClass = "access"

	// TokenClassRefresh is the long-lived credential used solely to mint new
	// access tokens. It is revocable because a copy is persisted on the user
	// record and compared on every refresh.
	TokenClassRefresh TokenClass = "refresh"
)

var (
	// ErrTokenMalformed means the token could not be parsed or its signature
	// did not verify under the expected class's secret.
	ErrTokenMalformed = errors.New("sec: token malformed or signature invalid")

	// ErrTokenExpired means the token parsed and verified but its expiry has passed.
	ErrTokenExpired = errors.New("sec: token expired")
)

// AuthClaims represents the identity extracted from a verified access token.
//
// # Why no database lookup?
//
// The user id is embedded in the JWT itself, so [middleware.Authenticate] can
// reconstruct the caller's identity without touching the document store on
// every request.
type AuthClaims struct {
	UserID string `json:"uid"`
}

// TokenConfig carries the signing secrets and expiry policy for both token
// classes. It is populated from application configuration and injected
// explicitly; the token service never reads ambient process state.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// TokenService mints and verifies HS256 JWTs for both token classes.
type TokenService struct {
	cfg TokenConfig
}

// NewTokenService validates the configuration and returns a ready service.
// The two class secrets must be set and must differ.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("sec: both token secrets must be configured")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("sec: access and refresh secrets must differ")
	}
	return &TokenService{cfg: cfg}, nil
}

// AccessTTL returns the configured lifetime of access tokens.
func (service *TokenService) AccessTTL() time.Duration { return service.cfg.AccessTTL }

// RefreshTTL returns the configured lifetime of refresh tokens.
func (service *TokenService) RefreshTTL() time.Duration { return service.cfg.RefreshTTL }

// IssueAccess creates a signed access token embedding the user id and expiry.
func (service *TokenService) IssueAccess(userID string) (string, error) {
	return service.issue(userID, TokenClassAccess)
}

// IssueRefresh creates a signed refresh token embedding the user id and expiry.
func (service *TokenService) IssueRefresh(userID string) (string, error) {
	return service.issue(userID, TokenClassRefresh)
}

func (service *TokenService) issue(userID string, class TokenClass) (string, error) {
	currentTime := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    service.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(currentTime),
		ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl(class))),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret(class))
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign %s token: %w", class, err)
	}

	return signedToken, nil
}

// Verify checks signature and expiry of a token under the given class's
// secret and returns the embedded user id.
//
// A token signed with the other class's secret fails signature verification
// and surfaces as [ErrTokenMalformed]. Class isolation is a property of the
// independent secrets, not of any claim inside the token.
func (service *TokenService) Verify(tokenString string, class TokenClass) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.secret(class), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenMalformed
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrTokenMalformed
	}

	return claims.Subject, nil
}

// VerifyToken verifies an access token and returns its claims.
// It satisfies the [middleware.TokenVerifier] contract.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	userID, err := service.Verify(tokenString, TokenClassAccess)
	if err != nil {
		return nil, err
	}
	return &AuthClaims{UserID: userID}, nil
}

func (service *TokenService) secret(class TokenClass) []byte {
	if class == TokenClassRefresh {
		return []byte(service.cfg.RefreshSecret)
	}
	return []byte(service.cfg.AccessSecret)
}

func (service *TokenService) ttl(class TokenClass) time.Duration {
	if class == TokenClassRefresh {
		return service.cfg.RefreshTTL
	}
	return service.cfg.AccessTTL
}
