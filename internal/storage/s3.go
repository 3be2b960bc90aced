package storage

import (
	"bytes"
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/threatscope/threatscope/pkg/errors"
)

// S3 uploads reports to a bucket. Keys get a random prefix so repeated
// runs archive side by side instead of overwriting each other.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 creates an S3 store. Explicit credentials in cfg take precedence;
// otherwise the default AWS chain applies.
func NewS3(ctx context.Context, cfg Config) (*S3, error) {
	if cfg.S3Bucket == "" {
		return nil, &errors.ConfigError{
			Component: "storage",
			Message:   "S3 storage requires a bucket",
		}
	}

	var awsCfg aws.Config
	var err error
	if cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
		awsCfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.S3Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AWSAccessKey,
				cfg.AWSSecretKey,
				"",
			)),
		)
	} else {
		awsCfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.S3Region),
		)
	}
	if err != nil {
		return nil, &errors.ConfigError{
			Component: "storage",
			Message:   "loading AWS configuration",
			Err:       err,
		}
	}

	return &S3{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
		prefix: cfg.S3Prefix,
	}, nil
}

// Save uploads data and returns the object's s3:// URI.
func (s *S3) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := path.Join(s.prefix, uuid.NewString()[:8]+"_"+name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", &errors.StoreError{Backend: "s3", Key: key, Err: err}
	}

	return "s3://" + s.bucket + "/" + key, nil
}
