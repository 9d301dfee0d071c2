package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "foodgram/config"
)

// S3Storage uploads media to an S3 bucket and serves it by public URL.
type S3Storage struct {
	client *s3.Client
	bucket string
	prefix string
	region string
}

// NewS3Storage initializes the S3 client from the AWS environment.
func NewS3Storage(ctx context.Context, cfg *appconfig.Config) (*S3Storage, error) {
	if cfg.StorageS3Bucket == "" {
		return nil, errors.New("STORAGE_S3_BUCKET is required for s3 storage")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.StorageS3Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Storage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.StorageS3Bucket,
		prefix: strings.Trim(cfg.StorageS3Prefix, "/"),
		region: cfg.StorageS3Region,
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}

	relativePath := objectPath(opts)

	contentType := mime.TypeByExtension("." + strings.TrimPrefix(opts.Extension, "."))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(relativePath)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	return relativePath, nil
}

func (s *S3Storage) Delete(ctx context.Context, relativePath string) error {
	if strings.TrimSpace(relativePath) == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(relativePath)),
	})
	if err != nil {
		return fmt.Errorf("delete from s3: %w", err)
	}
	return nil
}

func (s *S3Storage) URL(relativePath string) string {
	if relativePath == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, s.key(relativePath))
}

func (s *S3Storage) key(relativePath string) string {
	if s.prefix == "" {
		return relativePath
	}
	return path.Join(s.prefix, relativePath)
}

var _ Storage = (*S3Storage)(nil)
