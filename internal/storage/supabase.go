// Package storage uploads assets to Supabase Storage over its REST API.
// Image-set and document-set section fields only ever hold URLs returned
// from here; nothing in the editor path writes asset URLs by hand.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Asset is the durable result of an upload.
type Asset struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (*Asset, error)
}

// SupabaseStorage implements Uploader against a Supabase Storage bucket.
type SupabaseStorage struct {
	supabaseURL string
	serviceKey  string
	bucket      string
	httpClient  *http.Client
}

// NewSupabaseStorage creates a storage client. Requires the service role key
// for write access to the bucket.
func NewSupabaseStorage(supabaseURL, serviceKey, bucket string) *SupabaseStorage {
	return &SupabaseStorage{
		supabaseURL: strings.TrimRight(supabaseURL, "/"),
		serviceKey:  serviceKey,
		bucket:      bucket,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Upload stores the file under a fresh object key and returns its public
// URL. The original filename survives as a suffix so downloads keep a
// meaningful name.
func (s *SupabaseStorage) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*Asset, error) {
	id := uuid.NewString()
	objectKey := id + "-" + sanitizeFilename(filename)

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.supabaseURL, s.bucket, objectKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(payload))
	}

	return &Asset{
		ID:  id,
		URL: fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.supabaseURL, s.bucket, objectKey),
	}, nil
}

// sanitizeFilename keeps object keys URL-safe without losing the extension.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	out := strings.Trim(sb.String(), "-.")
	if out == "" {
		return "file"
	}
	return out
}
