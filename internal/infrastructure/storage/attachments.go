// Package storage issues presigned URLs for issue attachments kept in an
// S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/candor-hq/candor/internal/shared/biztime"
	"github.com/candor-hq/candor/internal/shared/config"
	"github.com/candor-hq/candor/internal/shared/logger"
)

const (
	keyPrefix            = "issues/"
	defaultPresignExpiry = 15 * time.Minute
)

var (
	ErrStorageDisabled     = errors.New("attachment storage is not configured")
	ErrContentTypeNotAllow = errors.New("content type not allowed")
	ErrInvalidObjectKey    = errors.New("invalid attachment key")
)

// allowedContentTypes maps accepted upload types to the extension used in
// the object key.
var allowedContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
}

// PresignedURL is a time-limited URL for one object.
type PresignedURL struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AttachmentStore interface {
	PresignUpload(ctx context.Context, contentType string) (*PresignedURL, error)
	PresignDownload(ctx context.Context, key string) (*PresignedURL, error)
}

type MinioAttachmentStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	logger logger.Interface
}

func NewMinioAttachmentStore(cfg *config.StorageConfig, log logger.Interface) (*MinioAttachmentStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}

	return &MinioAttachmentStore{
		client: client,
		bucket: cfg.Bucket,
		expiry: expiry,
		logger: log,
	}, nil
}

// EnsureBucket creates the bucket when missing.
func (s *MinioAttachmentStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.Infow("attachment bucket created", "bucket", s.bucket)
	return nil
}

// PresignUpload picks a fresh object key and returns a PUT URL for it. The key
// is what the client later lists in the issue's attachments.
func (s *MinioAttachmentStore) PresignUpload(ctx context.Context, contentType string) (*PresignedURL, error) {
	ext, ok := allowedContentTypes[normalizeContentType(contentType)]
	if !ok {
		return nil, ErrContentTypeNotAllow
	}

	now := biztime.NowUTC()
	key := fmt.Sprintf("%s%s/%s%s", keyPrefix, now.Format("2006/01"), uuid.NewString(), ext)

	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &PresignedURL{
		Key:       key,
		URL:       u.String(),
		Method:    "PUT",
		ExpiresAt: now.Add(s.expiry),
	}, nil
}

func (s *MinioAttachmentStore) PresignDownload(ctx context.Context, key string) (*PresignedURL, error) {
	if !ValidKey(key) {
		return nil, ErrInvalidObjectKey
	}

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, params)
	if err != nil {
		return nil, fmt.Errorf("failed to presign download: %w", err)
	}

	return &PresignedURL{
		Key:       key,
		URL:       u.String(),
		Method:    "GET",
		ExpiresAt: biztime.NowUTC().Add(s.expiry),
	}, nil
}

// ValidKey accepts only keys minted by PresignUpload.
func ValidKey(key string) bool {
	if !strings.HasPrefix(key, keyPrefix) || strings.Contains(key, "..") {
		return false
	}
	return path.Clean(key) == key
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// DisabledAttachmentStore rejects every request.
type DisabledAttachmentStore struct{}

func (DisabledAttachmentStore) PresignUpload(context.Context, string) (*PresignedURL, error) {
	return nil, ErrStorageDisabled
}

func (DisabledAttachmentStore) PresignDownload(context.Context, string) (*PresignedURL, error) {
	return nil, ErrStorageDisabled
}
