// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already canonical", input: "chai-aur-code", expected: "chai-aur-code"},
		{name: "uppercase folded", input: "ChaiAurCode", expected: "chaiaurcode"},
		{name: "spaces become hyphens", input: "chai aur code", expected: "chai-aur-code"},
		{name: "accents removed", input: "Café Crémè", expected: "cafe-creme"},
		{name: "underscores kept", input: "dev_vidora", expected: "dev_vidora"},
		{name: "separator runs collapsed", input: "a--__--b", expected: "a-b"},
		{name: "edges trimmed", input: "--hello--", expected: "hello"},
		{name: "empty input", input: "", expected: ""},
		{name: "only symbols", input: "!!!", expected: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, From(testCase.input))
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("chai-aur-code"))
	assert.True(t, IsValid("dev_42"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("ChaiAurCode"))
	assert.False(t, IsValid("has space"))
}
