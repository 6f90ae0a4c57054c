package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"tabgate/internal/config"
)

// minioMirror implements Mirror using an S3-compatible backend (MinIO, AWS S3, etc.).
// It is safe for concurrent use by multiple goroutines.
type minioMirror struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates a new S3-compatible mirror backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (Mirror, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &minioMirror{client: cli, bucket: cfg.Bucket}, nil
}

// Put uploads an object using streaming I/O.
func (m *minioMirror) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	info, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Key:          key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  opt.ContentType,
		LastModified: time.Now(), // PutObject does not report LastModified
		Metadata:     opt.Metadata,
	}, nil
}
