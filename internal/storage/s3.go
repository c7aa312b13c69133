package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
)

const minMultipartSize = 12 << 20

type S3 struct {
	C        *s3.Client
	Bucket   *string
	BaseURL  string
	uploader *manager.Uploader
}

// NewS3 connects to the bucket configured under s3.* and makes sure it
// exists. s3.endpoint may point at any S3 compatible service.
func NewS3(ctx context.Context) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("s3.access_key"),
			viper.GetString("s3.secret_access_key"),
			"",
		)),
		config.WithRegion(viper.GetString("s3.region")),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(viper.GetString("s3.bucket"))
	endpoint := viper.GetString("s3.endpoint")

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", *bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3{
		C:       client,
		Bucket:  bucket,
		BaseURL: strings.TrimSuffix(viper.GetString("storage.public_url"), "/"),
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		}),
	}, nil
}

func (s *S3) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if key == "" {
		return ErrInvalidKey
	}

	input := &s3.PutObjectInput{
		Bucket:       s.Bucket,
		Key:          aws.String(key),
		Body:         r,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	}

	var err error
	if size > minMultipartSize {
		_, err = s.uploader.Upload(ctx, input)
	} else {
		input.ContentLength = aws.Int64(size)
		_, err = s.C.PutObject(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("failed to upload object, %w", err)
	}

	return nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object, %w", err)
	}

	return nil
}

func (s *S3) URL(key string) string {
	if key == "" {
		return ""
	}
	if s.BaseURL != "" {
		return s.BaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", *s.Bucket, key)
}
