package storage

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOfflineMinio(t *testing.T) *MinioStore {
	t.Helper()
	cli, err := minio.New("localhost:9000", &minio.Options{
		Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
	})
	require.NoError(t, err)
	return &MinioStore{client: cli, bucketName: "potholes", prefix: "annotated"}
}

func TestMinioObjectKey(t *testing.T) {
	s := newOfflineMinio(t)
	assert.Equal(t, "annotated/40.7--74-annotated.png", s.objectKey("40.7--74-annotated.png"))
	assert.Equal(t, "annotated/a.png", s.objectKey("/a.png"))
}

func TestMinioPublicURL(t *testing.T) {
	s := newOfflineMinio(t)
	assert.Equal(t,
		"http://localhost:9000/potholes/annotated/40.7--74-annotated.png",
		s.publicURL(s.objectKey("40.7--74-annotated.png")))
}

// Butuh MinIO beneran: POTHOLE_TEST_MINIO_ENDPOINT=localhost:9000 (kredensial minioadmin)
func TestMinioPublishRoundTrip(t *testing.T) {
	endpoint := os.Getenv("POTHOLE_TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("POTHOLE_TEST_MINIO_ENDPOINT not set")
	}
	ctx := context.Background()
	s, err := NewMinio(ctx, endpoint, "us-east-1", "pothole-test", "minioadmin", "minioadmin", false, time.Minute)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "1-2-annotated.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG"), 0o644))

	u, err := s.Publish(ctx, path, "1-2-annotated.png")
	require.NoError(t, err)
	assert.Contains(t, u, "annotated/1-2-annotated.png")

	resp, err := http.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}
