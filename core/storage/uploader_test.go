package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"family-sync/core/model"
	"family-sync/core/storage"
	"family-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newUploader(client storage.Client) *storage.Uploader {
	return storage.NewUploader(client, storage.Config{
		Bucket:    "family",
		PublicURL: "http://localhost:9000",
	})
}

func TestUploadMediaNamespaces(t *testing.T) {
	tests := []struct {
		kind   model.MediaKind
		prefix string
	}{
		{model.MediaImage, "media/images/"},
		{model.MediaVideo, "media/videos/"},
		{model.MediaAudio, "media/audio/"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			mockClient := new(mocks.Client)

			var objectName string
			mockClient.On("PutObject", mock.Anything, "family", mock.MatchedBy(func(name string) bool {
				objectName = name
				return strings.HasPrefix(name, tt.prefix)
			}), mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

			u := newUploader(mockClient)
			url, err := u.UploadMedia(context.Background(), tt.kind, strings.NewReader("payload"), "application/octet-stream")

			assert.NoError(t, err)
			assert.Equal(t, "http://localhost:9000/family/"+objectName, url)
			mockClient.AssertExpectations(t)
		})
	}
}

func TestUploadGeneratesFreshNames(t *testing.T) {
	mockClient := new(mocks.Client)
	names := map[string]struct{}{}
	mockClient.On("PutObject", mock.Anything, "family", mock.MatchedBy(func(name string) bool {
		names[name] = struct{}{}
		return true
	}), mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	u := newUploader(mockClient)
	for i := 0; i < 3; i++ {
		_, err := u.UploadAvatar(context.Background(), strings.NewReader("pic"), "image/png")
		assert.NoError(t, err)
	}

	assert.Len(t, names, 3, "each upload session must use a new object name")
}

func TestUploadUnknownKind(t *testing.T) {
	u := newUploader(new(mocks.Client))
	_, err := u.UploadMedia(context.Background(), model.MediaKind("gif"), strings.NewReader("x"), "image/gif")
	assert.Error(t, err)
}

func TestUploadRetryBudgetExhausted(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "family", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("connection refused"))

	u := newUploader(mockClient)

	// A parent deadline shorter than the retry budget keeps the test fast.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := u.UploadMedia(ctx, model.MediaImage, strings.NewReader("x"), "image/png")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
