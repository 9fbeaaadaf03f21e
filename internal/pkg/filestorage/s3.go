package filestorage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Config configures an S3-compatible object store
type S3Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PublicBaseURL string
}

// S3Storage keeps every logical bucket as a key prefix inside one S3 bucket
type S3Storage struct {
	client  s3iface.S3API
	bucket  string
	baseURL string
}

// NewS3Storage opens a session for cfg
func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		DisableSSL:       aws.Bool(!cfg.UseSSL),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 session: %w", err)
	}
	return newS3Storage(s3.New(sess), cfg), nil
}

func newS3Storage(client s3iface.S3API, cfg S3Config) *S3Storage {
	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("s3.%s.amazonaws.com", cfg.Region)
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.Bucket)
	}
	return &S3Storage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}
}

// Upload implements FileStorage
func (s *S3Storage) Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string) error {
	key, err := objectKey(bucket, objectPath)
	if err != nil {
		return err
	}
	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// PublicURL implements FileStorage
func (s *S3Storage) PublicURL(bucket, objectPath string) string {
	key, err := objectKey(bucket, objectPath)
	if err != nil {
		return ""
	}
	return joinURL(s.baseURL, key)
}

// Remove implements FileStorage
func (s *S3Storage) Remove(ctx context.Context, bucket string, objectPaths []string) error {
	if len(objectPaths) == 0 {
		return nil
	}
	objects := make([]*s3.ObjectIdentifier, 0, len(objectPaths))
	for _, p := range objectPaths {
		key, err := objectKey(bucket, p)
		if err != nil {
			return err
		}
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
	}

	_, err := s.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to delete objects: %w", err)
	}
	return nil
}
