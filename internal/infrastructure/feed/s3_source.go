package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	infraconfig "github.com/bizorder/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure S3Source implements Source
var _ Source = (*S3Source)(nil)

// S3Source fetches the reference feed from S3-compatible object storage
// (AWS S3, MinIO, RustFS, ...).
type S3Source struct {
	client *s3.Client
	bucket string
	key    string
	logger *zap.Logger
}

// S3SourceOption is a functional option for configuring S3Source
type S3SourceOption func(*S3Source)

// WithLogger sets a custom logger for S3Source
func WithLogger(logger *zap.Logger) S3SourceOption {
	return func(s *S3Source) {
		s.logger = logger
	}
}

// NewS3Source creates an S3-backed feed source from configuration
func NewS3Source(cfg *infraconfig.FeedConfig, opts ...S3SourceOption) (*S3Source, error) {
	if cfg == nil {
		return nil, errors.New("feed configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("feed bucket is required")
	}
	if cfg.Key == "" {
		return nil, errors.New("feed object key is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("feed storage credentials are required")
	}

	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			// Path-style addressing for self-hosted S3-compatible backends
			o.UsePathStyle = true
		}
	})

	src := &S3Source{
		client: client,
		bucket: cfg.Bucket,
		key:    cfg.Key,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(src)
	}
	return src, nil
}

// Fetch downloads the feed object
func (s *S3Source) Fetch(ctx context.Context) (io.ReadCloser, error) {
	s.logger.Debug("fetching reference feed from object storage",
		zap.String("bucket", s.bucket),
		zap.String("key", s.key),
	)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed object %s/%s: %w", s.bucket, s.key, err)
	}
	return out.Body, nil
}

// NewSource builds the appropriate Source for the configuration: S3 when a
// bucket is configured, local file otherwise.
func NewSource(cfg *infraconfig.FeedConfig, logger *zap.Logger) (Source, error) {
	if cfg.Bucket != "" {
		return NewS3Source(cfg, WithLogger(logger))
	}
	return NewFileSource(cfg.Path), nil
}
