// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config carries the settings for an S3-compatible object store.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	KeyPrefix     string
}

// S3Store stores assets in an S3-compatible bucket (AWS S3, Cloudflare R2).
//
// Objects are keyed '<prefix>/<uuid>' with no file extension so the public
// URL's final segment doubles as the deletion key.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	keyPrefix     string
}

// NewS3Store builds an [S3Store] from static credentials and an optional
// custom endpoint.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" || cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("media: s3 bucket and public base URL are required")
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("media: failed to load s3 configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		options.UsePathStyle = cfg.Endpoint != ""
	})

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		keyPrefix:     strings.Trim(cfg.KeyPrefix, "/"),
	}, nil
}

// Upload pushes the file at localPath into the bucket under a fresh UUID key.
func (store *S3Store) Upload(ctx context.Context, localPath string) (Asset, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return Asset{}, fmt.Errorf("media: failed to open spool file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Asset{}, fmt.Errorf("media: failed to stat spool file: %w", err)
	}

	assetID := uuid.New().String()
	key := store.objectKey(assetID)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(store.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(info.Size()),
	}
	if contentType := mime.TypeByExtension(filepath.Ext(localPath)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := store.client.PutObject(ctx, input); err != nil {
		return Asset{}, fmt.Errorf("media: failed to put object %q: %w", key, err)
	}

	return Asset{
		URL: store.publicBaseURL + "/" + key,
		ID:  assetID,
	}, nil
}

// Delete removes the object identified by assetID from the bucket.
func (store *S3Store) Delete(ctx context.Context, assetID string) error {
	key := store.objectKey(assetID)

	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("media: failed to delete object %q: %w", key, err)
	}

	return nil
}

// objectKey prepends the configured prefix to the asset id.
func (store *S3Store) objectKey(assetID string) string {
	if store.keyPrefix == "" {
		return assetID
	}
	return store.keyPrefix + "/" + assetID
}
