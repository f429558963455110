package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsTimeout = 50 * time.Second

// GCS stores files in a Google Cloud Storage bucket
type GCS struct {
	client *storage.Client
	bucket string
}

// NewGCS returns a GCS backend. Application default credentials are used when
// credentialsFile is empty.
func NewGCS(ctx context.Context, bucket, credentialsFile string) (*GCS, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

// Save uploads body to the object of key
func (g *GCS) Save(ctx context.Context, key, contentType string, body io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, gcsTimeout)
	defer cancel()

	wc := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, body); err != nil {
		wc.Close()
		return fmt.Errorf("failed to upload %s/%s: %w", g.bucket, key, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to finish upload %s/%s: %w", g.bucket, key, err)
	}
	return nil
}

// Open downloads the object of key
func (g *GCS) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s/%s: %w", g.bucket, key, err)
	}
	return r, nil
}

// Delete removes the object of key. A missing object is not an error.
func (g *GCS) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, gcsTimeout)
	defer cancel()

	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete %s/%s: %w", g.bucket, key, err)
	}
	return nil
}

// Close releases the client
func (g *GCS) Close() error {
	return g.client.Close()
}
