// Package storage uploads meal photos to the object store and hands back a
// public URL. Upload failure is soft: the meal is saved without an image.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type ImageUploader interface {
	Upload(ctx context.Context, data []byte, mimeType string, userID uint) (string, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client
	// now is injectable for tests; uploads are keyed by timestamp.
	now func() time.Time
}

func NewClient() *Client {
	bucket := os.Getenv("STORAGE_BUCKET")
	if bucket == "" {
		bucket = "meal_images"
	}
	return &Client{
		baseURL: strings.TrimRight(os.Getenv("STORAGE_BASE_URL"), "/"),
		apiKey:  os.Getenv("STORAGE_API_KEY"),
		bucket:  bucket,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}

// Upload stores the image under <userID>/<millis>.<ext> and returns the
// public URL for the stored object.
func (c *Client) Upload(ctx context.Context, data []byte, mimeType string, userID uint) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("STORAGE_BASE_URL not configured")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty image payload")
	}

	objectPath := fmt.Sprintf("%d/%d.%s", userID, c.now().UnixMilli(), extensionFor(mimeType))
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, objectPath), nil
}
