package avatar

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/contactkeeper/contactkeeper/internal/server/config"
	"github.com/google/uuid"
)

// Uploader stores an avatar image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, body io.Reader, contentType string) (string, error)
}

// S3Uploader writes avatars into an S3-compatible bucket (MinIO in the
// docker-compose setup).
type S3Uploader struct {
	config *sc.Config
}

func NewS3Uploader(config *sc.Config) *S3Uploader {
	return &S3Uploader{config: config}
}

// loadDefaultAWSConfig is a seam for testing awsconfig.LoadDefaultConfig.
var loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, optFns...)
}

// putObject is a seam for testing the S3 PutObject call.
var putObject = func(ctx context.Context, client *s3.Client, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	return client.PutObject(ctx, in)
}

func (u *S3Uploader) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(u.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.config.S3RootUser,
			u.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(u.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func randomStorageKey() string {
	return fmt.Sprintf("avatars/%v", uuid.New())
}

// Upload stores body under a random key and returns the object URL.
func (u *S3Uploader) Upload(ctx context.Context, body io.Reader, contentType string) (string, error) {
	client, err := u.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := u.config.S3Bucket
	key := randomStorageKey()

	_, err = putObject(ctx, client, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(u.config.S3BaseEndpoint, "/")
	return fmt.Sprintf("%s/%s/%s", endpoint, bucket, key), nil
}
