package s3_test

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinloft/texture-library/pkg/texturelib"
	"github.com/skinloft/texture-library/pkg/texturelib/storage/s3"
)

// TestS3BackendWithMinIO tests the S3 backend against a MinIO server.
// You can start one with Docker:
// docker run -p 9000:9000 -p 9001:9001 minio/minio server /data --console-address ":9001"
func TestS3BackendWithMinIO(t *testing.T) {
	if os.Getenv("MINIO_INTEGRATION_TEST") == "" {
		t.Skip("Skipping MinIO integration test. Set MINIO_INTEGRATION_TEST=1 to run.")
	}

	config := s3.Config{
		Region:                 "us-east-1",
		Bucket:                 "test-bucket-" + time.Now().Format("20060102150405"),
		AccessKeyID:            "minioadmin",
		SecretAccessKey:        "minioadmin",
		Endpoint:               "http://localhost:9000",
		UsePathStyle:           true,
		CreateBucketIfNotExist: true,
	}

	backend, err := s3.New(config)
	require.NoError(t, err)

	ctx := context.Background()
	key := "ab/integration-test-hash"
	content := "Hello, MinIO! This is an integration test."

	err = backend.Upload(ctx, key, strings.NewReader(content))
	assert.NoError(t, err)

	exists, err := backend.Exists(ctx, key)
	assert.NoError(t, err)
	assert.True(t, exists)

	meta, err := backend.GetObjectMeta(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(content)), meta.Size)

	reader, err := backend.Download(ctx, key)
	assert.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, content, string(data))

	err = backend.Delete(ctx, key)
	assert.NoError(t, err)

	exists, err = backend.Exists(ctx, key)
	assert.NoError(t, err)
	assert.False(t, exists)

	_, err = backend.Download(ctx, key)
	assert.ErrorIs(t, err, texturelib.ErrBlobNotFound)
}
