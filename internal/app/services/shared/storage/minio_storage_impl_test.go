package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMinioClient(t *testing.T, handler http.HandlerFunc) *minio.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	endpoint, err := url.Parse(server.URL)
	require.NoError(t, err)

	client, err := minio.New(endpoint.Host, &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Secure: false,
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return client
}

func TestMinioStorage_UploadObject(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotPath, gotContentType string
		client := newTestMinioClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotContentType = r.Header.Get("Content-Type")
			io.Copy(io.Discard, r.Body)
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		})

		storage := NewMinioStorage(client, zap.NewNop())
		key, err := storage.UploadObject(context.Background(), "receipts", "transfer-receipts/s-1/r.png", strings.NewReader("png-bytes"), 9, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "transfer-receipts/s-1/r.png", key)
		assert.Equal(t, "/receipts/transfer-receipts/s-1/r.png", gotPath)
		assert.Equal(t, "image/png", gotContentType)
	})

	t.Run("Server Error", func(t *testing.T) {
		client := newTestMinioClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		storage := NewMinioStorage(client, zap.NewNop())
		_, err := storage.UploadObject(context.Background(), "receipts", "k", strings.NewReader("x"), 1, "image/png")
		assert.Error(t, err)
	})
}
