package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BerylCAtieno/document-processing-service/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const s3Scheme = "s3://"

// Storage fetches documents referenced by s3://bucket/key paths into local
// files so the extractors can read them.
type Storage interface {
	// Fetch downloads the object to a temporary file. The returned cleanup
	// removes it and must always be called when err is nil.
	Fetch(ctx context.Context, uri string) (localPath string, cleanup func(), err error)
}

type s3Storage struct {
	client *minio.Client
}

func NewS3Storage(cfg *config.Config) (Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &s3Storage{client: client}, nil
}

// IsRemote reports whether the path names an object store location.
func IsRemote(p string) bool {
	return strings.HasPrefix(strings.ToLower(p), s3Scheme)
}

// ParseURI splits s3://bucket/key into its bucket and key.
func ParseURI(uri string) (bucket, key string, err error) {
	if !IsRemote(uri) {
		return "", "", fmt.Errorf("not an s3 URI: %s", uri)
	}

	rest := uri[len(s3Scheme):]
	bucket, key, ok := strings.Cut(rest, "/")
	key = strings.TrimLeft(key, "/")
	if !ok || bucket == "" || strings.Trim(key, "/") == "" {
		return "", "", fmt.Errorf("s3 URI must be s3://bucket/key: %s", uri)
	}
	// The key's base name becomes the local file name.
	if base := path.Base(key); base == "." || base == ".." || base == "/" {
		return "", "", fmt.Errorf("s3 URI must be s3://bucket/key: %s", uri)
	}

	return bucket, key, nil
}

func (s *s3Storage) Fetch(ctx context.Context, uri string) (string, func(), error) {
	bucket, key, err := ParseURI(uri)
	if err != nil {
		return "", nil, err
	}

	dir, err := os.MkdirTemp("", "docproc-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	// Keep the object's base name so the .pdf suffix check still applies.
	localPath := filepath.Join(dir, path.Base(key))
	if err := s.client.FGetObject(ctx, bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		cleanup()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", nil, fmt.Errorf("%w: %s", os.ErrNotExist, uri)
		}
		return "", nil, fmt.Errorf("failed to get object from S3: %w", err)
	}

	return localPath, cleanup, nil
}
