// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/vidora/vidora/internal/platform/constants"
)

// RedisLoginGuard implements LoginGuard using a per-identifier failure
// counter with a fixed expiry window.
type RedisLoginGuard struct {
	client *redis.Client
}

// NewLoginGuard creates a new Redis-backed LoginGuard.
func NewLoginGuard(client *redis.Client) *RedisLoginGuard {
	return &RedisLoginGuard{client: client}
}

/*
IsBlocked reports whether the login identifier has exhausted its attempts.

Description: Absent counters mean no recorded failures; the guard fails open
only for genuinely missing keys, never for connectivity errors.

Parameters:
  - context: context.Context
  - login: string

Returns:
  - bool: true when further attempts must be rejected
  - error: Connectivity failures
*/
func (guard *RedisLoginGuard) IsBlocked(context context.Context, login string) (bool, error) {
	key := guard.key(login)

	value, err := guard.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_login_guard_get_failed: %w", err)
	}

	failures, err := strconv.Atoi(value)
	if err != nil {
		// A mangled counter must not lock the account out forever.
		_ = guard.client.Del(context, key).Err()
		return false, nil
	}

	return failures >= MaxLoginFailures, nil
}

/*
RegisterFailure records one failed attempt for the login identifier.

Description: The expiry is set only when the counter is created, so the
window is fixed from the first failure rather than sliding per attempt.

Parameters:
  - context: context.Context
  - login: string

Returns:
  - error: Persistence failures
*/
func (guard *RedisLoginGuard) RegisterFailure(context context.Context, login string) error {
	key := guard.key(login)

	failures, err := guard.client.Incr(context, key).Result()
	if err != nil {
		return fmt.Errorf("redis_login_guard_incr_failed: %w", err)
	}

	if failures == 1 {
		if err := guard.client.Expire(context, key, LoginFailureWindow).Err(); err != nil {
			return fmt.Errorf("redis_login_guard_expire_failed: %w", err)
		}
	}

	return nil
}

/*
Reset clears the failure counter after a successful login.

Parameters:
  - context: context.Context
  - login: string

Returns:
  - error: Deletion failures
*/
func (guard *RedisLoginGuard) Reset(context context.Context, login string) error {
	if err := guard.client.Del(context, guard.key(login)).Err(); err != nil {
		return fmt.Errorf("redis_login_guard_reset_failed: %w", err)
	}
	return nil
}

// key builds the namespaced Redis key for a login identifier.
func (guard *RedisLoginGuard) key(login string) string {
	return constants.RedisPrefixLoginAttempts + login
}
