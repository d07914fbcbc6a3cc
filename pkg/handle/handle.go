// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Package handle normalizes user-chosen names into canonical ASCII handles.
//
// # Usage
//
// Handles are the public, URL-addressable identity of a channel (e.g.,
// "chai-aur-code"). This package handles normalization, accent removal, and
// character sanitization so that lookups are case- and accent-insensitive.
package handle

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAllowed matches any sequence of characters outside the handle alphabet.
	nonAllowed = regexp.MustCompile(`[^a-z0-9_-]+`)
	// multiSeparator collapses runs of separators into a single hyphen.
	multiSeparator = regexp.MustCompile(`[-_]{2,}`)
)

// From converts an arbitrary Unicode string into a canonical handle.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Replaces disallowed characters with hyphens.
// 5. Collapses separator runs and trims leading/trailing separators.
func From(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	// 2. Lowercase
	result = strings.ToLower(result)

	// 3. Replace whitespace and special chars with hyphens
	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			return r
		}
		return '-'
	}, result)

	// 4. Clean up separators
	result = nonAllowed.ReplaceAllString(result, "-")
	result = multiSeparator.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-_")

	return result
}

// IsValid reports whether s is already a canonical handle.
func IsValid(s string) bool {
	return s != "" && s == From(s)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
