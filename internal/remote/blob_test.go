package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobClient_Upload(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewBlobClient(server.URL, "blob-key", "work-order-photos")

	url, err := client.Upload(context.Background(), "p-1-1717230000.jpg", []byte{0xFF, 0xD8})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/storage/v1/object/work-order-photos/p-1-1717230000.jpg", gotPath)
	assert.Equal(t, "Bearer blob-key", gotAuth)
	assert.Equal(t, []byte{0xFF, 0xD8}, gotBody)
	assert.Equal(t, server.URL+"/storage/v1/object/public/work-order-photos/p-1-1717230000.jpg", url)
}

func TestBlobClient_UploadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInsufficientStorage)
		_, _ = w.Write([]byte("bucket full"))
	}))
	defer server.Close()

	client := NewBlobClient(server.URL, "blob-key", "work-order-photos")

	_, err := client.Upload(context.Background(), "p-2.jpg", []byte{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket full")
}
