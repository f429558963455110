// Package storage keeps uploaded attachments (resumes, supporting documents) in a local
// directory, Google Cloud Storage or Amazon S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Open for a key that holds no file.
var ErrNotFound = errors.New("file not found")

// FileStorage saves and reads attachment bodies by key.
type FileStorage interface {
	Save(ctx context.Context, key, contentType string, body io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Backends
const (
	BackendLocal = "local"
	BackendGCS   = "gcs"
	BackendS3    = "s3"
)

// Config selects and configures a backend
type Config struct {
	Backend         string
	Dir             string
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	CredentialsFile string
}

// LoadConfig reads the storage configuration from the environment
func LoadConfig() Config {
	cfg := Config{
		Backend:         getEnv("STORAGE_BACKEND", BackendLocal),
		Dir:             getEnv("STORAGE_DIR", "uploads"),
		Bucket:          os.Getenv("STORAGE_BUCKET"),
		Region:          getEnv("AWS_REGION", "ap-south-1"),
		AccessKeyID:     os.Getenv("ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("SECRET_ACCESS_KEY"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// New builds the backend named by cfg.Backend
func New(ctx context.Context, cfg Config) (FileStorage, error) {
	switch cfg.Backend {
	case "", BackendLocal:
		return NewLocal(cfg.Dir)
	case BackendGCS:
		if cfg.Bucket == "" {
			return nil, errors.New("STORAGE_BUCKET is required for the gcs backend")
		}
		return NewGCS(ctx, cfg.Bucket, cfg.CredentialsFile)
	case BackendS3:
		if cfg.Bucket == "" {
			return nil, errors.New("STORAGE_BUCKET is required for the s3 backend")
		}
		return NewS3(cfg.Bucket, cfg.Region, cfg.AccessKeyID, cfg.SecretAccessKey)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Key builds the storage key of an attachment: <owner type>/<owner id>/<attachment id>-<file name>.
func Key(ownerType string, ownerID, attachmentID uuid.UUID, fileName string) string {
	name := unsafeChars.ReplaceAllString(path.Base(fileName), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "file"
	}
	return path.Join(ownerType, ownerID.String(), attachmentID.String()+"-"+name)
}
