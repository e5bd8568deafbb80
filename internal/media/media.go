package media

import (
	"context"
	"strings"
	"time"
)

// Scheme marks a stored reference to an object in the media bucket
const Scheme = "s3://"

// Resolver turns a stored image or video reference into a URL a browser can load
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Presigner signs a GET request for an object key
type Presigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// PassthroughResolver returns references unchanged
type PassthroughResolver struct{}

func (PassthroughResolver) Resolve(_ context.Context, ref string) (string, error) {
	return ref, nil
}

// S3Resolver presigns s3:// references and passes every other URL through
type S3Resolver struct {
	presigner Presigner
	ttl       time.Duration
}

// NewS3Resolver creates a resolver backed by the given presigner
func NewS3Resolver(presigner Presigner, ttl time.Duration) *S3Resolver {
	return &S3Resolver{presigner: presigner, ttl: ttl}
}

func (r *S3Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	key, ok := ObjectKey(ref)
	if !ok {
		return ref, nil
	}
	return r.presigner.GeneratePresignedURL(ctx, key, r.ttl)
}

// ObjectKey extracts the object key from an s3:// reference
func ObjectKey(ref string) (string, bool) {
	if !strings.HasPrefix(ref, Scheme) {
		return "", false
	}
	key := strings.TrimPrefix(ref, Scheme)
	if key == "" {
		return "", false
	}
	return key, true
}
