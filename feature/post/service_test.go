package post

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"family-sync/core/model"
	"family-sync/core/session"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRemote struct {
	upserted []model.Post
	err      error
}

func (f *fakeRemote) UpsertPost(ctx context.Context, p model.Post) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, p)
	return nil
}

type fakeCache struct {
	saved []model.Post
}

func (f *fakeCache) SavePost(ctx context.Context, p model.Post) error {
	f.saved = append(f.saved, p)
	return nil
}

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (f *fakeUploader) UploadMedia(ctx context.Context, kind model.MediaKind, r io.Reader, contentType string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func newPostService(rc *fakeRemote, store *fakeCache, up *fakeUploader, acc *session.Account) *Service {
	return NewService(rc, store, up, session.Static{Acc: acc}, zap.NewNop())
}

func TestAddTextOnly(t *testing.T) {
	rc := &fakeRemote{}
	store := &fakeCache{}
	svc := newPostService(rc, store, &fakeUploader{}, &session.Account{ID: 7})

	created, err := svc.Add(context.Background(), Draft{Text: "  hello  "})
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 7, created.UserID)
	assert.Equal(t, "hello", *created.Text)
	assert.Nil(t, created.MediaURL)
	assert.Empty(t, created.Likes)
	assert.Len(t, rc.upserted, 1)
	assert.Len(t, store.saved, 1)
}

func TestAddWithMedia(t *testing.T) {
	rc := &fakeRemote{}
	up := &fakeUploader{url: "http://localhost:9000/family/media/images/x"}
	svc := newPostService(rc, &fakeCache{}, up, &session.Account{ID: 7})

	created, err := svc.Add(context.Background(), Draft{
		Media:       strings.NewReader("payload"),
		Kind:        model.MediaImage,
		ContentType: "image/jpeg",
	})
	assert.NoError(t, err)
	assert.Equal(t, up.url, *created.MediaURL)
	assert.Equal(t, model.MediaImage, *created.MediaKind)
	assert.Nil(t, created.Text)
	assert.Equal(t, 1, up.calls)
}

func TestAddUploadFailureBlocksDocumentWrite(t *testing.T) {
	rc := &fakeRemote{}
	up := &fakeUploader{err: errors.New("bucket unreachable")}
	svc := newPostService(rc, &fakeCache{}, up, &session.Account{ID: 7})

	_, err := svc.Add(context.Background(), Draft{
		Text:        "caption",
		Media:       strings.NewReader("payload"),
		Kind:        model.MediaVideo,
		ContentType: "video/mp4",
	})
	assert.Error(t, err)
	assert.Empty(t, rc.upserted, "no post document without its media")
}

func TestAddRejectsEmptyDraft(t *testing.T) {
	svc := newPostService(&fakeRemote{}, &fakeCache{}, &fakeUploader{}, &session.Account{ID: 7})

	_, err := svc.Add(context.Background(), Draft{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyDraft)
}

func TestAddRequiresSession(t *testing.T) {
	up := &fakeUploader{}
	svc := newPostService(&fakeRemote{}, &fakeCache{}, up, nil)

	_, err := svc.Add(context.Background(), Draft{Text: "hello"})
	assert.ErrorIs(t, err, session.ErrNotSignedIn)
	assert.Zero(t, up.calls, "nothing is uploaded for an anonymous draft")
}
