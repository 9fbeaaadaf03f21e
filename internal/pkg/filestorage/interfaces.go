package filestorage

import (
	"context"
	"errors"
	"path"
	"strings"
)

// ErrInvalidPath is returned for object paths that escape their bucket
var ErrInvalidPath = errors.New("invalid object path")

// FileStorage stores document objects grouped into logical buckets
type FileStorage interface {
	// Upload stores data under bucket/objectPath
	Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string) error

	// PublicURL returns the download URL of an object
	PublicURL(bucket, objectPath string) string

	// Remove deletes objects. Missing objects are not an error.
	Remove(ctx context.Context, bucket string, objectPaths []string) error
}

// objectKey joins bucket and objectPath and rejects traversal
func objectKey(bucket, objectPath string) (string, error) {
	if bucket == "" || objectPath == "" {
		return "", ErrInvalidPath
	}
	for _, part := range strings.Split(bucket+"/"+objectPath, "/") {
		if part == ".." {
			return "", ErrInvalidPath
		}
	}
	return path.Join(bucket, objectPath), nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
