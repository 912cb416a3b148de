package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BlobClient implements BlobStore against an HTTP object-storage gateway.
// Binaries are PUT under /storage/v1/object/{bucket}/{name} and served back
// from the public object path.
type BlobClient struct {
	baseURL string
	apiKey  string
	bucket  string
	http    *http.Client
}

// NewBlobClient creates a blob storage client for the given bucket.
func NewBlobClient(baseURL, apiKey, bucket string) *BlobClient {
	return &BlobClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		bucket:  bucket,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
}

// Upload implements BlobStore. The name is caller-derived; photo uploads
// use {localId}-{uploadTimestamp}.jpg.
func (c *BlobClient) Upload(ctx context.Context, name string, data []byte) (string, error) {
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = int64(len(data))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return "", fmt.Errorf("upload %s: status %d: %s", name, resp.StatusCode, body)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, name), nil
}
