package storage

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Publisher uploads pipeline outputs to object storage
type Publisher interface {
	EnsureBucket(ctx context.Context) error
	Publish(ctx context.Context, prefix string, files []string) ([]string, error)
}

// Config describes the MinIO endpoint and target bucket
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type implPublisher struct {
	client *miniogo.Client
	bucket string
}

// New creates a Publisher. No connection is made until the first call.
func New(cfg Config) (Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &implPublisher{client: client, bucket: cfg.Bucket}, nil
}

func (p *implPublisher) EnsureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", p.bucket, err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, miniogo.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", p.bucket, err)
		}
	}
	return nil
}

// Publish uploads each file under prefix and returns the object keys
func (p *implPublisher) Publish(ctx context.Context, prefix string, files []string) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, f := range files {
		key := ObjectKey(prefix, f)
		_, err := p.client.FPutObject(ctx, p.bucket, key, f, miniogo.PutObjectOptions{
			ContentType: ContentType(f),
		})
		if err != nil {
			return keys, fmt.Errorf("upload %s: %w", f, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// ObjectKey places the base name of file under prefix
func ObjectKey(prefix, file string) string {
	return path.Join(prefix, filepath.Base(file))
}

// ContentType guesses the MIME type from the file extension
func ContentType(file string) string {
	switch ext := filepath.Ext(file); ext {
	case ".json":
		return "application/json"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
		return "application/octet-stream"
	}
}
