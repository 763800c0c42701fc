package interfaces

import "context"

// -----------------------------------------------------------------------------
// IObjectStore defines the bucket/object capability consumed by the pipeline.
// -----------------------------------------------------------------------------

type IObjectStore interface {

	// BucketExists reports whether the named bucket exists.
	BucketExists(ctx context.Context, bucket string) (bool, error)

	// -----------------------------------------------------------------------------

	// MakeBucket creates the named bucket.
	MakeBucket(ctx context.Context, bucket string) error

	// -----------------------------------------------------------------------------

	// PutObject writes payload to bucket/key, overwriting prior content.
	PutObject(ctx context.Context, bucket, key string, payload []byte, contentType string) error

	// -----------------------------------------------------------------------------

	// GetObject reads the full payload at bucket/key.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	// -----------------------------------------------------------------------------

	// IsNotFound reports whether err means the object or bucket is absent,
	// as opposed to the store being unreachable.
	IsNotFound(err error) bool
}
