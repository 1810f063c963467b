package memory_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinloft/texture-library/pkg/texturelib"
	memorystorage "github.com/skinloft/texture-library/pkg/texturelib/storage/memory"
)

func TestMemoryBackend(t *testing.T) {
	backend := memorystorage.New()
	ctx := context.Background()
	testKey := texturelib.HashBytes([]byte("test blob"))
	testData := "Hello, World! This is test data."

	t.Run("Upload", func(t *testing.T) {
		reader := strings.NewReader(testData)
		err := backend.Upload(ctx, testKey, reader)
		assert.NoError(t, err)
	})

	t.Run("Exists", func(t *testing.T) {
		ok, err := backend.Exists(ctx, testKey)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("GetObjectMeta", func(t *testing.T) {
		meta, err := backend.GetObjectMeta(ctx, testKey)
		assert.NoError(t, err)
		assert.NotNil(t, meta)
		assert.Equal(t, testKey, meta.Key)
		assert.Equal(t, int64(len(testData)), meta.Size)
		assert.False(t, meta.UpdatedAt.IsZero())
	})

	t.Run("Download", func(t *testing.T) {
		reader, err := backend.Download(ctx, testKey)
		assert.NoError(t, err)
		assert.NotNil(t, reader)
		defer reader.Close()

		downloadedData, err := io.ReadAll(reader)
		assert.NoError(t, err)
		assert.Equal(t, testData, string(downloadedData))
	})

	t.Run("Delete", func(t *testing.T) {
		err := backend.Delete(ctx, testKey)
		assert.NoError(t, err)

		ok, err := backend.Exists(ctx, testKey)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ErrorCases", func(t *testing.T) {
		nonExistentKey := texturelib.HashBytes([]byte("absent"))

		meta, err := backend.GetObjectMeta(ctx, nonExistentKey)
		assert.ErrorIs(t, err, texturelib.ErrBlobNotFound)
		assert.Nil(t, meta)

		reader, err := backend.Download(ctx, nonExistentKey)
		assert.ErrorIs(t, err, texturelib.ErrBlobNotFound)
		assert.Nil(t, reader)

		err = backend.Delete(ctx, nonExistentKey)
		assert.ErrorIs(t, err, texturelib.ErrBlobNotFound)
	})
}

func TestMemoryBackendConcurrency(t *testing.T) {
	backend := memorystorage.New()
	ctx := context.Background()

	const numGoroutines = 10
	const numOperations = 100

	done := make(chan bool, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(goroutineID int) {
			defer func() { done <- true }()

			for j := 0; j < numOperations; j++ {
				testData := fmt.Sprintf("blob from goroutine %d, operation %d", goroutineID, j)
				testKey := texturelib.HashBytes([]byte(testData))

				reader := strings.NewReader(testData)
				err := backend.Upload(ctx, testKey, reader)
				require.NoError(t, err)

				downloadReader, err := backend.Download(ctx, testKey)
				require.NoError(t, err)

				downloadedData, err := io.ReadAll(downloadReader)
				require.NoError(t, err)
				downloadReader.Close()

				assert.Equal(t, testData, string(downloadedData))

				err = backend.Delete(ctx, testKey)
				require.NoError(t, err)
			}
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}
}
