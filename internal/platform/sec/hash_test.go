// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/sec"
)

/*
TestHashPassword verifies hashing is salted and verification is exact.
*/
func TestHashPassword(t *testing.T) {
	digest, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	// Salted: a second hash of the same input must differ.
	second, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, digest, second)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", digest))
	assert.False(t, sec.CheckPasswordHash("wrong password", digest))
	assert.False(t, sec.CheckPasswordHash("", digest))
}
