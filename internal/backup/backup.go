// Package backup uploads JSON snapshots of the site's content to
// S3-compatible object storage.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"folio/site/internal/content"
	"folio/site/internal/logger"
)

// SnapshotVersion identifies the snapshot layout.
const SnapshotVersion = 1

var ErrNotConfigured = errors.New("object storage not configured")

// Snapshot is the document written for each backup.
type Snapshot struct {
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"createdAt"`
	Author    content.Profile `json:"author"`
	Content   []content.Item  `json:"content"`
}

// Config selects the bucket and credentials.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ObjectStore is the subset of the minio client used here.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts miniogo.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error)
}

type Uploader struct {
	client ObjectStore
	bucket string
	log    logger.Logger
	now    func() time.Time
}

// New connects to the configured endpoint. An empty endpoint yields
// ErrNotConfigured.
func New(cfg Config, log logger.Logger) (*Uploader, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNotConfigured
	}
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return NewWithClient(client, cfg.Bucket, log), nil
}

// NewWithClient builds an uploader around an existing client.
func NewWithClient(client ObjectStore, bucket string, log logger.Logger) *Uploader {
	return &Uploader{client: client, bucket: bucket, log: log, now: time.Now}
}

// Upload writes snapshot and returns its object key. The bucket is created
// on first use.
func (u *Uploader) Upload(ctx context.Context, snapshot Snapshot) (string, error) {
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = u.now().UTC()
	}
	snapshot.Version = SnapshotVersion
	if snapshot.Content == nil {
		snapshot.Content = []content.Item{}
	}

	if err := u.ensureBucket(ctx); err != nil {
		return "", err
	}

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	key := ObjectKey(snapshot.CreatedAt)
	_, err = u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(payload), int64(len(payload)), miniogo.PutObjectOptions{
		ContentType: "application/json",
		UserMetadata: map[string]string{
			"items":      fmt.Sprint(len(snapshot.Content)),
			"created-at": snapshot.CreatedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	u.log.Info("Backup uploaded",
		logger.String("bucket", u.bucket),
		logger.String("key", key),
		logger.Int("items", len(snapshot.Content)),
	)
	return key, nil
}

func (u *Uploader) ensureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", u.bucket, err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, miniogo.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", u.bucket, err)
	}
	return nil
}

// ObjectKey places snapshots under a date prefix.
func ObjectKey(at time.Time) string {
	at = at.UTC()
	return fmt.Sprintf("snapshots/%s/folio-%s.json", at.Format("2006/01/02"), at.Format("20060102T150405Z"))
}
