package filestorage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yigit/enrollment/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where buckets are created
	baseURL  string // The URL the base directory is served under
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is the required directory path on the server.
// baseURL is prepended to object keys in download URLs; it defaults to /uploads.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// BasePath returns the root directory, for serving files statically
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Upload implements FileStorage
func (ls *LocalStorage) Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string) error {
	key, err := objectKey(bucket, objectPath)
	if err != nil {
		return err
	}
	dstPath := filepath.Join(ls.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create subdirectory")
		return fmt.Errorf("failed to create subdirectory: %w", err)
	}
	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write uploaded file")
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Debug().Str("key", key).Int("size", len(data)).Str("content_type", contentType).Msg("File saved")
	return nil
}

// PublicURL implements FileStorage
func (ls *LocalStorage) PublicURL(bucket, objectPath string) string {
	key, err := objectKey(bucket, objectPath)
	if err != nil {
		return ""
	}
	return joinURL(ls.baseURL, key)
}

// Remove implements FileStorage
func (ls *LocalStorage) Remove(ctx context.Context, bucket string, objectPaths []string) error {
	for _, p := range objectPaths {
		key, err := objectKey(bucket, p)
		if err != nil {
			return err
		}
		physicalPath := filepath.Join(ls.basePath, filepath.FromSlash(key))
		if err := os.Remove(physicalPath); err != nil && !os.IsNotExist(err) {
			logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
			return fmt.Errorf("failed to delete file: %w", err)
		}
	}
	return nil
}
