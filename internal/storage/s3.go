package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3 stores files in an Amazon S3 bucket
type S3 struct {
	uploader *s3manager.Uploader
	client   *s3.S3
	bucket   string
}

// NewS3 returns an S3 backend. The default credential chain is used when the keys are empty.
func NewS3(bucket, region, accessKeyID, secretAccessKey string) (*S3, error) {
	cfg := aws.Config{Region: aws.String(region)}
	if accessKeyID != "" && secretAccessKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKeyID, secretAccessKey, "")
	}
	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &S3{
		uploader: s3manager.NewUploader(sess),
		client:   s3.New(sess),
		bucket:   bucket,
	}, nil
}

// Save uploads body to the object of key. Objects stay private.
func (s *S3) Save(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

// Open downloads the object of key
func (s *S3) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s from bucket %s: %w", key, s.bucket, err)
	}
	return out.Body, nil
}

// Delete removes the object of key. S3 does not report missing keys on delete.
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from bucket %s: %w", key, s.bucket, err)
	}
	return nil
}
