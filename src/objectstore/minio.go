package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"aapl-elt/src/logger"
	"aapl-elt/src/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// -----------------------------------------------------------------------------

// MinioStore implements interfaces.IObjectStore over a MinIO (or any
// S3-compatible) deployment.
type MinioStore struct {
	Config  *models.MConfig
	Client  *minio.Client
	Logger  *logger.Logger
	timeout time.Duration
}

// -----------------------------------------------------------------------------

func NewMinioStore(cfg *models.MConfig, log *logger.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.ObjectStore.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ObjectStore.AccessKey, cfg.ObjectStore.SecretKey, ""),
		Secure: cfg.ObjectStore.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	return &MinioStore{
		Config:  cfg,
		Client:  client,
		Logger:  log,
		timeout: time.Duration(cfg.Network.RequestTimeout) * time.Second,
	}, nil
}

// -----------------------------------------------------------------------------

func (s *MinioStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.Client.BucketExists(ctx, bucket)
}

// -----------------------------------------------------------------------------

func (s *MinioStore) MakeBucket(ctx context.Context, bucket string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
}

// -----------------------------------------------------------------------------

func (s *MinioStore) PutObject(ctx context.Context, bucket, key string, payload []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.Client.PutObject(ctx, bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", bucket, key, err)
	}

	s.Logger.Info("Uploaded %d bytes to %s/%s", len(payload), bucket, key)
	return nil
}

// -----------------------------------------------------------------------------

func (s *MinioStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	obj, err := s.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	// The client defers most failures (including NoSuchKey) to read time.
	payload, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", bucket, key, err)
	}

	return payload, nil
}

// -----------------------------------------------------------------------------

// IsNotFound distinguishes an absent object or bucket from an unreachable
// store. The join stage treats the former as an empty sentiment set and the
// latter as a hard failure.
func (s *MinioStore) IsNotFound(err error) bool {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}
