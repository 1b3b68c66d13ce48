package export

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archiver keeps a copy of every rendered document.
type Archiver interface {
	Archive(ctx context.Context, applicationID string, result *Result) error
}

type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioArchiver stores documents in an S3 compatible bucket.
type MinioArchiver struct {
	client *minio.Client
	bucket string
}

func NewMinioArchiver(cfg ArchiveConfig) (*MinioArchiver, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create archive client: %w", err)
	}
	return &MinioArchiver{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the archive bucket if it does not exist yet.
func (a *MinioArchiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return nil
}

func (a *MinioArchiver) Archive(ctx context.Context, applicationID string, result *Result) error {
	_, err := a.client.PutObject(ctx, a.bucket, ObjectKey(applicationID, result.Filename),
		bytes.NewReader(result.Data), int64(len(result.Data)),
		minio.PutObjectOptions{ContentType: result.MimeType})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", result.Filename, err)
	}
	return nil
}

// ObjectKey is where a document for an application is archived.
func ObjectKey(applicationID, filename string) string {
	return path.Join("applications", applicationID, filename)
}
