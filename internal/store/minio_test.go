package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

// Runs against a real server when TEST_MINIO_ENDPOINT is set, e.g.
// localhost:9000. Credentials come from TEST_MINIO_ACCESS_KEY and
// TEST_MINIO_SECRET_KEY, defaulting to minioadmin.
func newTestMinio(t *testing.T) *MinioStore {
	t.Helper()
	endpoint := os.Getenv("TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("TEST_MINIO_ENDPOINT not set")
	}
	accessKey := envOr("TEST_MINIO_ACCESS_KEY", "minioadmin")
	secretKey := envOr("TEST_MINIO_SECRET_KEY", "minioadmin")

	ctx := context.Background()
	bucket := fmt.Sprintf("social-test-%d", time.Now().UnixNano())
	s, err := NewMinioStore(ctx, endpoint, accessKey, secretKey, bucket, false)
	require.NoError(t, err)

	t.Cleanup(func() {
		for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
			if obj.Err == nil {
				s.client.RemoveObject(ctx, bucket, obj.Key, minio.RemoveObjectOptions{})
			}
		}
		s.client.RemoveBucket(ctx, bucket)
	})
	return s
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestMinioStore(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := newTestMinio(t)

	key := "archives/1/messages.json"
	_, _, err := s.Download(ctx, key)
	req.ErrorIs(err, ErrNotFound)

	data := []byte(`[{"messageId":1,"postedBy":1,"messageText":"hello","timePostedEpoch":1669947792}]`)
	req.NoError(s.Upload(ctx, key, data, "application/json"))

	got, contentType, err := s.Download(ctx, key)
	req.NoError(err)
	req.Equal(data, got)
	req.Equal("application/json", contentType)

	// Uploading again replaces the archive.
	req.NoError(s.Upload(ctx, key, []byte(`[]`), "application/json"))
	got, _, err = s.Download(ctx, key)
	req.NoError(err)
	req.Equal([]byte(`[]`), got)

	_, _, err = s.Download(ctx, "archives/2/messages.json")
	req.ErrorIs(err, ErrNotFound)
}
