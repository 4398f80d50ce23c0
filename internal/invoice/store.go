// Package invoice renders plain-text invoice artifacts for orders and
// stores them in S3 or on the local file system.
package invoice

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Store persists invoice artifacts by key.
type Store interface {
	// Put writes the artifact under the given key, replacing any
	// previous version.
	Put(ctx context.Context, key string, body []byte) error

	// Delete removes the artifact. Deleting a missing artifact is not
	// an error.
	Delete(ctx context.Context, key string) error
}

// fileStore implements Store on the local file system.
type fileStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create invoice directory %s: %w", dir, err)
	}
	return &fileStore{
		dir:    dir,
		logger: logger.With().Str("component", "invoice-file-store").Logger(),
	}, nil
}

// Put writes the artifact to <dir>/<key>.
func (s *fileStore) Put(_ context.Context, key string, body []byte) error {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create invoice subdirectory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to write invoice file")
		return fmt.Errorf("failed to write invoice file %s: %w", path, err)
	}
	s.logger.Debug().Str("path", path).Int("bytes", len(body)).Msg("invoice written")
	return nil
}

// Delete removes the artifact file.
func (s *fileStore) Delete(_ context.Context, key string) error {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		s.logger.Error().Err(err).Str("path", path).Msg("failed to remove invoice file")
		return fmt.Errorf("failed to remove invoice file %s: %w", path, err)
	}
	return nil
}

// s3API is the slice of the S3 client the store needs. It lets tests
// substitute a fake without standing up AWS.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// s3Store implements Store against an S3 bucket.
type s3Store struct {
	client s3API
	bucket string
	logger zerolog.Logger
}

// NewS3Store creates an S3-backed invoice store.
func NewS3Store(ctx context.Context, bucket, region string, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "invoice-s3-store").Logger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 invoice store initialised")

	return &s3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		logger: logger,
	}, nil
}

// Put uploads the artifact to the bucket.
func (s *s3Store) Put(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to upload invoice to S3")
		return fmt.Errorf("failed to upload invoice to S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	s.logger.Debug().
		Str("bucket", s.bucket).
		Str("key", key).
		Int("bytes", len(body)).
		Msg("invoice uploaded to S3")

	return nil
}

// Delete removes the artifact from the bucket.
func (s *s3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to delete invoice from S3")
		return fmt.Errorf("failed to delete invoice from S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}
	return nil
}

// fallbackStore tries S3 first and falls back to the local file system
// when the upload fails, so a flaky bucket never blocks order flow.
type fallbackStore struct {
	primary  Store
	fallback Store
	logger   zerolog.Logger
}

// NewFallbackStore creates a store that prefers primary and falls back to
// secondary on failure. If primary is nil, only the fallback is used.
func NewFallbackStore(primary, fallback Store, logger zerolog.Logger) Store {
	return &fallbackStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With().Str("component", "invoice-fallback-store").Logger(),
	}
}

// Put writes to the primary store, falling back on failure.
func (s *fallbackStore) Put(ctx context.Context, key string, body []byte) error {
	if s.primary != nil {
		err := s.primary.Put(ctx, key, body)
		if err == nil {
			return nil
		}
		s.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("primary invoice store failed, falling back")
	}
	return s.fallback.Put(ctx, key, body)
}

// Delete removes the artifact from both stores; the first error wins but
// both are attempted.
func (s *fallbackStore) Delete(ctx context.Context, key string) error {
	var firstErr error
	if s.primary != nil {
		if err := s.primary.Delete(ctx, key); err != nil {
			firstErr = err
		}
	}
	if err := s.fallback.Delete(ctx, key); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
