// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package media implements the upload pipeline for user-provided assets.

# Architecture

Handlers spool incoming multipart files to the local filesystem and hand the
temporary path to [Pipeline]. The pipeline pushes the file to a remote
[Store], retrying transient failures a bounded number of times, and removes
the temporary file regardless of the outcome so the spool directory never
accumulates orphans.

Replacement of an existing asset is upload-first: the new asset must be
durable before the old one is deleted, and a failed deletion of the old
asset is logged and swallowed because the user-visible state is already
correct.
*/
package media

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/vidora/vidora/internal/platform/constants"
)

// Sentinel errors surfaced by the pipeline.
var (
	// ErrUploadFailed indicates that every upload attempt was exhausted.
	ErrUploadFailed = errors.New("media: upload failed after all attempts")
	// ErrMalformedReference indicates an asset URL that carries no usable id.
	ErrMalformedReference = errors.New("media: malformed asset reference")
)

// Asset is the durable record of a stored media object.
type Asset struct {
	// URL is the public, HTTP-addressable location of the object.
	URL string `json:"url"`
	// ID is the storage key used for later deletion.
	ID string `json:"id"`
}

// Store abstracts the remote object storage backend.
type Store interface {
	// Upload pushes the file at localPath and returns the stored asset.
	Upload(ctx context.Context, localPath string) (Asset, error)
	// Delete removes the object identified by assetID.
	Delete(ctx context.Context, assetID string) error
}

// Pipeline coordinates spooled files, the remote store, and retry policy.
type Pipeline struct {
	store    Store
	attempts int
	logger   *slog.Logger
}

// NewPipeline wires a [Pipeline] around the given store.
//
// attempts bounds the upload retry loop; values below 1 fall back to
// [constants.DefaultUploadAttempts].
func NewPipeline(store Store, attempts int, logger *slog.Logger) *Pipeline {
	if attempts < 1 {
		attempts = constants.DefaultUploadAttempts
	}
	return &Pipeline{store: store, attempts: attempts, logger: logger}
}

// Upload pushes the spooled file at localPath to the remote store.
//
// The temporary file is removed before returning, on success and on terminal
// failure alike. An empty localPath yields a zero [Asset] with no error so
// optional uploads can share the call site.
func (pipeline *Pipeline) Upload(ctx context.Context, localPath string) (Asset, error) {
	if localPath == "" {
		return Asset{}, nil
	}
	defer pipeline.removeSpool(localPath)

	var lastErr error
	for attempt := 1; attempt <= pipeline.attempts; attempt++ {
		asset, err := pipeline.store.Upload(ctx, localPath)
		if err == nil {
			return asset, nil
		}
		lastErr = err

		pipeline.logger.Warn("media upload attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", pipeline.attempts),
			slog.Any("error", err),
		)

		// Context cancellation is terminal; retrying cannot help.
		if ctx.Err() != nil {
			break
		}
	}

	return Asset{}, errors.Join(ErrUploadFailed, lastErr)
}

// Replace uploads the spooled file and then deletes the previously stored
// asset identified by oldURL.
//
// The new asset is made durable first so a failure leaves the old asset
// intact. Deletion failures of the old asset are logged and swallowed; the
// replacement has already succeeded from the caller's point of view.
func (pipeline *Pipeline) Replace(ctx context.Context, localPath, oldURL string) (Asset, error) {
	asset, err := pipeline.Upload(ctx, localPath)
	if err != nil {
		return Asset{}, err
	}

	if oldURL == "" {
		return asset, nil
	}

	oldID, idErr := AssetID(oldURL)
	if idErr != nil {
		pipeline.logger.Warn("skipping cleanup of unparseable asset reference",
			slog.String("old_url", oldURL),
		)
		return asset, nil
	}

	if deleteErr := pipeline.store.Delete(ctx, oldID); deleteErr != nil {
		pipeline.logger.Warn("failed to delete replaced asset",
			slog.String("asset_id", oldID),
			slog.Any("error", deleteErr),
		)
	}

	return asset, nil
}

// Delete removes the asset referenced by assetURL from the remote store.
func (pipeline *Pipeline) Delete(ctx context.Context, assetURL string) error {
	assetID, err := AssetID(assetURL)
	if err != nil {
		return err
	}
	return pipeline.store.Delete(ctx, assetID)
}

// removeSpool deletes the temporary upload file, logging unexpected failures.
func (pipeline *Pipeline) removeSpool(localPath string) {
	if err := os.Remove(localPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		pipeline.logger.Warn("failed to remove upload spool file",
			slog.String("path", localPath),
			slog.Any("error", err),
		)
	}
}

// AssetID derives the storage key from a public asset URL.
//
// The key is the final path segment with any file extension stripped, which
// matches how [Store] implementations name objects at upload time.
func AssetID(assetURL string) (string, error) {
	parsed, err := url.Parse(assetURL)
	if err != nil {
		return "", ErrMalformedReference
	}

	segment := path.Base(parsed.Path)
	if segment == "." || segment == "/" || segment == "" {
		return "", ErrMalformedReference
	}

	if ext := path.Ext(segment); ext != "" {
		segment = strings.TrimSuffix(segment, ext)
	}
	if segment == "" {
		return "", ErrMalformedReference
	}

	return segment, nil
}
