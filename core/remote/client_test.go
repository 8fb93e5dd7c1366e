package remote_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"family-sync/core/model"
	"family-sync/core/remote"
	"family-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func objectChan(infos ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(infos))
	for _, o := range infos {
		ch <- o
	}
	close(ch)
	return ch
}

func body(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func listingOpts(prefix string) any {
	return mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
		return opts.Prefix == prefix && opts.MaxKeys == 0
	})
}

func probeOpts() any {
	return mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
		return opts.Prefix == "users/" && opts.MaxKeys == 1
	})
}

func newClient(t *testing.T) (*remote.Client, *mocks.Client) {
	t.Helper()
	mockClient := new(mocks.Client)
	return remote.NewClient(mockClient, "family", zap.NewNop()), mockClient
}

func TestFetchUsersFresh(t *testing.T) {
	c, mockClient := newClient(t)

	mockClient.On("ListObjects", mock.Anything, "family", listingOpts("users/")).
		Return(objectChan(
			minio.ObjectInfo{Key: "users/1.json"},
			minio.ObjectInfo{Key: "users/2.json"},
		)).Once()
	mockClient.On("GetObject", mock.Anything, "family", "users/1.json", mock.Anything).
		Return(body(`{"id":1,"firstName":"Anna","role":"owner"}`), nil).Once()
	mockClient.On("GetObject", mock.Anything, "family", "users/2.json", mock.Anything).
		Return(body(`{"id":2,"firstName":"Boris","role":"regular"}`), nil).Once()

	res := c.FetchUsers(context.Background())

	assert.True(t, res.Fresh())
	assert.Len(t, res.Value, 2)
	assert.Equal(t, "Anna", res.Value[0].FirstName)
	mockClient.AssertExpectations(t)
}

func TestFetchUsersStaleSnapshot(t *testing.T) {
	c, mockClient := newClient(t)

	// First fetch succeeds and seeds the snapshot.
	mockClient.On("ListObjects", mock.Anything, "family", listingOpts("users/")).
		Return(objectChan(minio.ObjectInfo{Key: "users/1.json"})).Once()
	mockClient.On("GetObject", mock.Anything, "family", "users/1.json", mock.Anything).
		Return(body(`{"id":1,"firstName":"Anna"}`), nil).Once()

	first := c.FetchUsers(context.Background())
	assert.True(t, first.Fresh())

	// Second fetch hits a transport failure and must serve the snapshot
	// flagged stale, not fail and not pretend to be fresh.
	mockClient.On("ListObjects", mock.Anything, "family", listingOpts("users/")).
		Return(objectChan(minio.ObjectInfo{Err: errors.New("dial tcp: connection refused")})).Once()

	second := c.FetchUsers(context.Background())
	assert.NoError(t, second.Err)
	assert.True(t, second.Stale)
	assert.False(t, second.Fresh())
	assert.Equal(t, first.Value, second.Value)
}

func TestFetchPostsNoSnapshotFails(t *testing.T) {
	c, mockClient := newClient(t)

	mockClient.On("ListObjects", mock.Anything, "family", listingOpts("posts/")).
		Return(objectChan(minio.ObjectInfo{Err: errors.New("dial tcp: connection refused")})).Once()

	res := c.FetchPosts(context.Background())
	assert.ErrorIs(t, res.Err, remote.ErrFetching)
}

func TestFetchUserAbsentIsParseError(t *testing.T) {
	c, mockClient := newClient(t)

	mockClient.On("GetObject", mock.Anything, "family", "users/42.json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"}).Once()

	res := c.FetchUser(context.Background(), 42)
	assert.ErrorIs(t, res.Err, remote.ErrParsing)
}

func TestFetchUserUndecodableIsParseError(t *testing.T) {
	c, mockClient := newClient(t)

	mockClient.On("GetObject", mock.Anything, "family", "users/42.json", mock.Anything).
		Return(body(`not json`), nil).Once()

	res := c.FetchUser(context.Background(), 42)
	assert.ErrorIs(t, res.Err, remote.ErrParsing)
}

func TestUpsertProbeFailureAborts(t *testing.T) {
	c, mockClient := newClient(t)

	mockClient.On("ListObjects", mock.Anything, "family", probeOpts()).
		Return(objectChan(minio.ObjectInfo{Err: errors.New("dial tcp: connection refused")})).Once()

	err := c.UpsertPost(context.Background(), model.Post{ID: "p1", UserID: 1})
	assert.ErrorIs(t, err, remote.ErrUnreachable)
	mockClient.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsertStatusWrites(t *testing.T) {
	c, mockClient := newClient(t)

	mockClient.On("ListObjects", mock.Anything, "family", probeOpts()).
		Return(objectChan()).Once()
	mockClient.On("PutObject", mock.Anything, "family", "statuses/7.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()

	err := c.UpsertStatus(context.Background(), model.PresenceStatus{
		UserID:     7,
		LastOnline: "2024-05-17 09:30:45",
		Position:   model.Position{Latitude: 55.75, Longitude: 37.61},
	})
	assert.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestFetchCommentsByPostFilters(t *testing.T) {
	c, mockClient := newClient(t)

	mockClient.On("ListObjects", mock.Anything, "family", listingOpts("comments/")).
		Return(objectChan(
			minio.ObjectInfo{Key: "comments/c1.json"},
			minio.ObjectInfo{Key: "comments/c2.json"},
		)).Once()
	mockClient.On("GetObject", mock.Anything, "family", "comments/c1.json", mock.Anything).
		Return(body(`{"id":"c1","userId":1,"postId":"p1","text":"hi"}`), nil).Once()
	mockClient.On("GetObject", mock.Anything, "family", "comments/c2.json", mock.Anything).
		Return(body(`{"id":"c2","userId":2,"postId":"p2","text":"yo"}`), nil).Once()

	res := c.FetchCommentsByPost(context.Background(), "p1")
	assert.True(t, res.Fresh())
	assert.Len(t, res.Value, 1)
	assert.Equal(t, "c1", res.Value[0].ID)
}
