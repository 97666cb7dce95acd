package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rs/zerolog/log"
)

// imagePrefix is the key prefix of every uploaded project image.
const imagePrefix = "projects/"

// LoadAWSConfig resolves credentials and region from the default AWS chain.
func LoadAWSConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return cfg, nil
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore keeps project images in an S3 bucket.
type S3ImageStore struct {
	client        objectPutter
	bucket        string
	publicBaseURL string
}

func NewS3ImageStore(awsCfg aws.Config, cfg config.StorageConfig) *S3ImageStore {
	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, awsCfg.Region)
	}
	return &S3ImageStore{
		client:        s3.NewFromConfig(awsCfg),
		bucket:        cfg.S3Bucket,
		publicBaseURL: baseURL,
	}
}

// NewImageKey returns a fresh object key keeping the lower-cased extension of filename.
func NewImageKey(filename string) string {
	return imagePrefix + uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// PutImage uploads body under key and returns its public URL.
func (s *S3ImageStore) PutImage(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	log.Info().Str("bucket", s.bucket).Str("key", key).Int64("size", size).Msg("Uploaded image")
	return s.URLFor(key), nil
}

func (s *S3ImageStore) URLFor(key string) string {
	return s.publicBaseURL + "/" + key
}
