package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"family-sync/core/model"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Media namespaces. Each content kind lives under its own prefix so the
// bucket stays browsable and lifecycle rules can differ per kind.
const (
	prefixImages  = "media/images"
	prefixVideos  = "media/videos"
	prefixAudio   = "media/audio"
	prefixAvatars = "media/avatars"
)

// defaultUploadBudget bounds the total time spent retrying one upload
// session, including backoff between attempts.
const defaultUploadBudget = 30 * time.Second

// Uploader stores user media and resolves public download URLs.
//
// Uploads are tail operations with no cache fallback: a failed upload is
// returned as an error once the retry budget is exhausted. Every upload gets
// a fresh random object name; names are never reused between sessions.
type Uploader struct {
	client Client
	bucket string
	public string
	budget time.Duration
}

// NewUploader creates an uploader over the given storage client.
func NewUploader(client Client, cfg Config) *Uploader {
	return &Uploader{
		client: client,
		bucket: cfg.Bucket,
		public: cfg.PublicURL,
		budget: defaultUploadBudget,
	}
}

// UploadMedia stores a post attachment and returns its public URL.
func (u *Uploader) UploadMedia(ctx context.Context, kind model.MediaKind, r io.Reader, contentType string) (string, error) {
	var prefix string
	switch kind {
	case model.MediaImage:
		prefix = prefixImages
	case model.MediaVideo:
		prefix = prefixVideos
	case model.MediaAudio:
		prefix = prefixAudio
	default:
		return "", fmt.Errorf("unknown media kind %q", kind)
	}
	return u.upload(ctx, prefix, r, contentType)
}

// UploadAvatar stores a profile picture and returns its public URL.
func (u *Uploader) UploadAvatar(ctx context.Context, r io.Reader, contentType string) (string, error) {
	return u.upload(ctx, prefixAvatars, r, contentType)
}

// RemoveMedia deletes a previously uploaded object by its object name.
func (u *Uploader) RemoveMedia(ctx context.Context, objectName string) error {
	return u.client.RemoveObject(ctx, u.bucket, objectName, minio.RemoveObjectOptions{})
}

func (u *Uploader) upload(ctx context.Context, prefix string, r io.Reader, contentType string) (string, error) {
	// The payload must be buffered: a failed attempt consumes the reader.
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload payload: %w", err)
	}

	objectName := fmt.Sprintf("%s/%s", prefix, uuid.New().String())

	ctx, cancel := context.WithTimeout(ctx, u.budget)
	defer cancel()

	backoff := 500 * time.Millisecond
	var lastErr error
	for {
		_, lastErr = u.client.PutObject(ctx, u.bucket, objectName,
			bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentType})
		if lastErr == nil {
			return fmt.Sprintf("%s/%s/%s", u.public, u.bucket, objectName), nil
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("upload of %s failed: %w", objectName, lastErr)
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
