package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candor-hq/candor/internal/shared/config"
	"github.com/candor-hq/candor/internal/shared/logger"
)

// With a region configured the client signs locally and never dials.
func newTestStore(t *testing.T) *MinioAttachmentStore {
	t.Helper()
	s, err := NewMinioAttachmentStore(&config.StorageConfig{
		Endpoint:        "127.0.0.1:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		Bucket:          "candor-attachments",
		Region:          "us-east-1",
		PresignExpiry:   10 * time.Minute,
	}, logger.NewNopLogger())
	require.NoError(t, err)
	return s
}

func TestPresignUpload(t *testing.T) {
	s := newTestStore(t)

	p, err := s.PresignUpload(context.Background(), "image/PNG; charset=binary")
	require.NoError(t, err)
	assert.Equal(t, "PUT", p.Method)
	assert.True(t, strings.HasPrefix(p.Key, "issues/"))
	assert.True(t, strings.HasSuffix(p.Key, ".png"))
	assert.True(t, ValidKey(p.Key))

	u, err := url.Parse(p.URL)
	require.NoError(t, err)
	assert.Equal(t, "/candor-attachments/"+p.Key, u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), p.ExpiresAt, 5*time.Second)
}

func TestPresignUpload_RejectsContentType(t *testing.T) {
	s := newTestStore(t)
	_, err := s.PresignUpload(context.Background(), "application/x-msdownload")
	assert.ErrorIs(t, err, ErrContentTypeNotAllow)
}

func TestPresignDownload(t *testing.T) {
	s := newTestStore(t)

	p, err := s.PresignDownload(context.Background(), "issues/2026/01/abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "GET", p.Method)

	u, err := url.Parse(p.URL)
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("response-content-disposition"), "abc.pdf")

	for _, key := range []string{"", "other/abc.pdf", "issues/../secrets", "issues//x.pdf"} {
		_, err := s.PresignDownload(context.Background(), key)
		assert.ErrorIs(t, err, ErrInvalidObjectKey, key)
	}
}

func TestDisabledAttachmentStore(t *testing.T) {
	var s AttachmentStore = DisabledAttachmentStore{}
	_, err := s.PresignUpload(context.Background(), "image/png")
	assert.ErrorIs(t, err, ErrStorageDisabled)
	_, err = s.PresignDownload(context.Background(), "issues/x.png")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
