// Package gcs provides a Google Cloud Storage backed poster uploader,
// selectable via POSTER_STORAGE=gcs as an alternative to ImgBB.
package gcs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// NewClient creates a GCS client. If credsPath is empty, Application
// Default Credentials are used.
func NewClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// Uploader writes posters under posters/<uuid><ext> in the configured
// bucket and returns the public object URL.
type Uploader struct {
	Client *storage.Client
	Bucket string
}

func NewUploader(client *storage.Client, bucket string) *Uploader {
	return &Uploader{Client: client, Bucket: bucket}
}

func (u *Uploader) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if u.Client == nil || u.Bucket == "" {
		return "", fmt.Errorf("gcs uploader not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := "posters/" + uuid.NewString() + ext

	wc := u.Client.Bucket(u.Bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentTypeFor(ext)
	wc.ChunkSize = 0 // posters are small, skip chunking
	if _, err := io.Copy(wc, bytes.NewReader(data)); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(u.Bucket, objectPath), nil
}

func contentTypeFor(ext string) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// PublicURL builds a public URL for an object (assuming public read access).
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
