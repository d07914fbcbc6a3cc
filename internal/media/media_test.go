// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore records calls and fails uploads until failures is exhausted.
type fakeStore struct {
	failures  int
	uploads   int
	deletes   []string
	deleteErr error
}

func (store *fakeStore) Upload(ctx context.Context, localPath string) (Asset, error) {
	store.uploads++
	if store.failures > 0 {
		store.failures--
		return Asset{}, errors.New("transient storage error")
	}
	return Asset{URL: "https://cdn.vidora.app/media/abc123", ID: "abc123"}, nil
}

func (store *fakeStore) Delete(ctx context.Context, assetID string) error {
	store.deletes = append(store.deletes, assetID)
	return store.deleteErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func spoolFile(t *testing.T) string {
	t.Helper()
	file, err := os.CreateTemp(t.TempDir(), "upload-*.png")
	require.NoError(t, err)
	_, err = file.WriteString("not really a png")
	require.NoError(t, err)
	require.NoError(t, file.Close())
	return file.Name()
}

func TestPipeline_Upload_RetriesTransientFailures(t *testing.T) {
	store := &fakeStore{failures: 2}
	pipeline := NewPipeline(store, 3, discardLogger())
	path := spoolFile(t)

	asset, err := pipeline.Upload(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "abc123", asset.ID)
	assert.Equal(t, 3, store.uploads)

	// The spool file must be gone after a successful upload.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipeline_Upload_TerminalFailureRemovesSpool(t *testing.T) {
	store := &fakeStore{failures: 99}
	pipeline := NewPipeline(store, 3, discardLogger())
	path := spoolFile(t)

	_, err := pipeline.Upload(context.Background(), path)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Equal(t, 3, store.uploads)

	// The spool file must be gone even when every attempt failed.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipeline_Upload_EmptyPathIsNoOp(t *testing.T) {
	store := &fakeStore{}
	pipeline := NewPipeline(store, 3, discardLogger())

	asset, err := pipeline.Upload(context.Background(), "")

	require.NoError(t, err)
	assert.Zero(t, asset)
	assert.Equal(t, 0, store.uploads)
}

func TestPipeline_Upload_StopsOnCancelledContext(t *testing.T) {
	store := &fakeStore{failures: 99}
	pipeline := NewPipeline(store, 5, discardLogger())
	path := spoolFile(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Upload(ctx, path)

	require.Error(t, err)
	assert.Equal(t, 1, store.uploads)
}

func TestPipeline_Replace_DeletesOldAsset(t *testing.T) {
	store := &fakeStore{}
	pipeline := NewPipeline(store, 3, discardLogger())
	path := spoolFile(t)

	asset, err := pipeline.Replace(context.Background(), path, "https://cdn.vidora.app/media/old-id.png")

	require.NoError(t, err)
	assert.Equal(t, "abc123", asset.ID)
	assert.Equal(t, []string{"old-id"}, store.deletes)
}

func TestPipeline_Replace_SwallowsDeleteFailure(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("gone already")}
	pipeline := NewPipeline(store, 3, discardLogger())
	path := spoolFile(t)

	asset, err := pipeline.Replace(context.Background(), path, "https://cdn.vidora.app/media/old-id")

	// The replacement succeeded; the stale object is an operational concern.
	require.NoError(t, err)
	assert.Equal(t, "abc123", asset.ID)
	assert.Equal(t, []string{"old-id"}, store.deletes)
}

func TestPipeline_Replace_NoOldAsset(t *testing.T) {
	store := &fakeStore{}
	pipeline := NewPipeline(store, 3, discardLogger())
	path := spoolFile(t)

	asset, err := pipeline.Replace(context.Background(), path, "")

	require.NoError(t, err)
	assert.Equal(t, "abc123", asset.ID)
	assert.Empty(t, store.deletes)
}

func TestPipeline_Replace_UploadFailureKeepsOldAsset(t *testing.T) {
	store := &fakeStore{failures: 99}
	pipeline := NewPipeline(store, 2, discardLogger())
	path := spoolFile(t)

	_, err := pipeline.Replace(context.Background(), path, "https://cdn.vidora.app/media/old-id")

	require.Error(t, err)
	assert.Empty(t, store.deletes)
}

func TestAssetID(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{name: "plain key", url: "https://cdn.vidora.app/media/abc123", expected: "abc123"},
		{name: "extension stripped", url: "https://cdn.vidora.app/media/abc123.png", expected: "abc123"},
		{name: "deep path", url: "https://cdn.vidora.app/a/b/c/xyz.jpeg", expected: "xyz"},
		{name: "no path", url: "https://cdn.vidora.app", wantErr: true},
		{name: "root path", url: "https://cdn.vidora.app/", wantErr: true},
		{name: "extension only", url: "https://cdn.vidora.app/media/.png", wantErr: true},
		{name: "unparseable", url: "://not-a-url", wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			id, err := AssetID(testCase.url)
			if testCase.wantErr {
				assert.ErrorIs(t, err, ErrMalformedReference)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, id)
		})
	}
}
