// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction, common body
decoding patterns, and multipart file intake, ensuring consistent error
handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/ctxutil"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User id
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// # Multipart Intake

/*
RequiredTempFile copies the named multipart upload into a temporary file and
returns its path. The caller (media pipeline) owns removal of the file.

Returns:
  - string: Path of the temporary file
  - error: apperr.ValidationError when the field is absent or unreadable
*/
func RequiredTempFile(request *http.Request, field string) (string, error) {
	path, err := OptionalTempFile(request, field)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", validate.RequiredError(field, "A file is required")
	}
	return path, nil
}

/*
OptionalTempFile is like [RequiredTempFile] but returns an empty path, without
error, when the field carries no file.
*/
func OptionalTempFile(request *http.Request, field string) (string, error) {
	file, header, err := request.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", validate.RequiredError(field, "Could not read uploaded file")
	}
	defer file.Close()

	if header.Size > constants.MaxUploadBytes {
		return "", validate.RequiredError(field, "File exceeds the maximum upload size")
	}

	return spoolToTemp(file, header)
}

// spoolToTemp writes the uploaded part to a new file under the OS temp dir,
// preserving the original extension so content sniffing stays cheap.
func spoolToTemp(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(header.Filename)

	temp, err := os.CreateTemp("", "vidora-upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("request: failed to create temp file: %w", err)
	}

	if _, err := io.Copy(temp, file); err != nil {
		temp.Close()
		os.Remove(temp.Name())
		return "", fmt.Errorf("request: failed to spool upload: %w", err)
	}

	if err := temp.Close(); err != nil {
		os.Remove(temp.Name())
		return "", fmt.Errorf("request: failed to finalize upload spool: %w", err)
	}

	return temp.Name(), nil
}
