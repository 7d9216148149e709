package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/critter-checklist/internal/domain/catalog"
)

// ObjectSource reads dataset documents from an S3-compatible bucket mirror.
type ObjectSource struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// ObjectConfig describes the bucket mirror.
type ObjectConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Region    string
}

// NewObjectSource constructs the mirror source.
func NewObjectSource(cfg ObjectConfig, logger *slog.Logger) (*ObjectSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("dataset mirror bucket is required")
	}
	useSSL := strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Endpoint)), "https")
	client, err := minio.New(sanitizeEndpoint(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       useSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init dataset mirror client: %w", err)
	}
	return &ObjectSource{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger.With("component", "dataset.object"),
	}, nil
}

// Name implements catalog.Source.
func (s *ObjectSource) Name() string { return "object" }

// Fetch implements catalog.Source.
func (s *ObjectSource) Fetch(ctx context.Context, category catalog.Category) ([]byte, error) {
	key := objectKey(s.prefix, category)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer obj.Close()
	if _, err := obj.Stat(); err != nil {
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	body, err := io.ReadAll(io.LimitReader(obj, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	s.logger.Debug("dataset object read", "key", key, "bytes", len(body))
	return body, nil
}

var _ catalog.Source = (*ObjectSource)(nil)

func objectKey(prefix string, category catalog.Category) string {
	prefix = strings.TrimLeft(strings.TrimSpace(prefix), "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + string(category) + ".json"
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}
