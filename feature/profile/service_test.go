package profile

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"family-sync/core/cache"
	"family-sync/core/model"
	"family-sync/core/remote"
	"family-sync/core/session"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRemote struct {
	user  remote.Result[model.User]
	posts remote.Result[[]model.Post]

	upserted []model.User
}

func (f *fakeRemote) FetchUser(ctx context.Context, id int) remote.Result[model.User] {
	return f.user
}

func (f *fakeRemote) FetchPostsByUser(ctx context.Context, userID int) remote.Result[[]model.Post] {
	return f.posts
}

func (f *fakeRemote) UpsertUser(ctx context.Context, u model.User) error {
	f.upserted = append(f.upserted, u)
	return nil
}

type fakeCache struct {
	user  *model.User
	posts []model.Post

	savedUsers []model.User
}

func (f *fakeCache) User(ctx context.Context, id int) (model.User, error) {
	if f.user == nil {
		return model.User{}, cache.ErrDataNotFound
	}
	return *f.user, nil
}

func (f *fakeCache) SaveUser(ctx context.Context, user model.User) error {
	f.savedUsers = append(f.savedUsers, user)
	return nil
}

func (f *fakeCache) PostsByUser(ctx context.Context, userID int) ([]model.Post, error) {
	if len(f.posts) == 0 {
		return nil, cache.ErrDataNotFound
	}
	return f.posts, nil
}

func (f *fakeCache) SavePosts(ctx context.Context, posts []model.Post) error {
	return nil
}

type fakeUploader struct {
	url   string
	delay time.Duration

	mu    sync.Mutex
	calls int
}

func (f *fakeUploader) UploadAvatar(ctx context.Context, r io.Reader, contentType string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.url, nil
}

func newProfileService(rc *fakeRemote, store *fakeCache, up *fakeUploader, acc *session.Account) *Service {
	return NewService(rc, store, up, session.Static{Acc: acc}, zap.NewNop())
}

func TestProfileIsOwner(t *testing.T) {
	rc := &fakeRemote{
		user:  remote.Ok(model.User{ID: 7, FirstName: "Anna"}),
		posts: remote.Ok([]model.Post{{ID: "p1", UserID: 7}}),
	}

	view, err := newProfileService(rc, &fakeCache{}, &fakeUploader{}, &session.Account{ID: 7}).
		Profile(context.Background(), 7)
	assert.NoError(t, err)
	assert.True(t, view.IsOwner)
	assert.Len(t, view.Posts, 1)

	view, err = newProfileService(rc, &fakeCache{}, &fakeUploader{}, &session.Account{ID: 2}).
		Profile(context.Background(), 7)
	assert.NoError(t, err)
	assert.False(t, view.IsOwner)
}

func TestProfileWithoutPosts(t *testing.T) {
	rc := &fakeRemote{
		user:  remote.Ok(model.User{ID: 7}),
		posts: remote.Fail[[]model.Post](remote.ErrFetching),
	}

	view, err := newProfileService(rc, &fakeCache{}, &fakeUploader{}, nil).
		Profile(context.Background(), 7)
	assert.NoError(t, err, "a profile with no posts anywhere is not an error")
	assert.Empty(t, view.Posts)
}

func TestEnsureAccountCreatesOnMissingDocument(t *testing.T) {
	rc := &fakeRemote{
		user: remote.Fail[model.User](remote.ErrParsing),
	}
	store := &fakeCache{}
	acc := &session.Account{ID: 7, FirstName: "Anna", LastName: "K"}

	user, err := newProfileService(rc, store, &fakeUploader{}, acc).EnsureAccount(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "Anna", user.FirstName)
	assert.Equal(t, model.RoleRegular, user.Role)
	assert.Len(t, rc.upserted, 1)
	assert.Len(t, store.savedUsers, 1)
}

func TestEnsureAccountDoesNotCreateOnTransportFailure(t *testing.T) {
	rc := &fakeRemote{
		user: remote.Fail[model.User](remote.ErrFetching),
	}

	_, err := newProfileService(rc, &fakeCache{}, &fakeUploader{}, &session.Account{ID: 7}).
		EnsureAccount(context.Background())
	assert.ErrorIs(t, err, remote.ErrFetching)
	assert.Empty(t, rc.upserted, "unreachable is not the same as absent")
}

func TestEnsureAccountReturnsExisting(t *testing.T) {
	rc := &fakeRemote{
		user: remote.Ok(model.User{ID: 7, FirstName: "Anna", Pro: true}),
	}

	user, err := newProfileService(rc, &fakeCache{}, &fakeUploader{}, &session.Account{ID: 7}).
		EnsureAccount(context.Background())
	assert.NoError(t, err)
	assert.True(t, user.Pro)
	assert.Empty(t, rc.upserted)
}

func TestUpdateNamesKeepsAvatar(t *testing.T) {
	rc := &fakeRemote{
		user: remote.Ok(model.User{ID: 7, FirstName: "Anna", AvatarURL: "http://old"}),
	}
	store := &fakeCache{}

	user, err := newProfileService(rc, store, &fakeUploader{}, &session.Account{ID: 7}).
		Update(context.Background(), Edit{FirstName: "Ann", LastName: "Kova"})
	assert.NoError(t, err)
	assert.Equal(t, "Ann", user.FirstName)
	assert.Equal(t, "http://old", user.AvatarURL, "no avatar in the edit, old one survives")
	assert.Len(t, store.savedUsers, 1)
}

func TestUpdateWithAvatar(t *testing.T) {
	rc := &fakeRemote{
		user: remote.Ok(model.User{ID: 7, AvatarURL: "http://old"}),
	}
	up := &fakeUploader{url: "http://new"}

	user, err := newProfileService(rc, &fakeCache{}, up, &session.Account{ID: 7}).
		Update(context.Background(), Edit{
			FirstName:   "Anna",
			Avatar:      strings.NewReader("img"),
			ContentType: "image/png",
		})
	assert.NoError(t, err)
	assert.Equal(t, "http://new", user.AvatarURL)
	assert.Equal(t, 1, up.calls)
}

func TestUpdateRefusesStaleDocument(t *testing.T) {
	rc := &fakeRemote{
		user: remote.Cached(model.User{ID: 7}),
	}

	_, err := newProfileService(rc, &fakeCache{}, &fakeUploader{}, &session.Account{ID: 7}).
		Update(context.Background(), Edit{FirstName: "Anna"})
	assert.Error(t, err)
	assert.Empty(t, rc.upserted, "read-modify-write needs a fresh read")
}

func TestSupersededAvatarUploadIsDiscarded(t *testing.T) {
	rc := &fakeRemote{
		user: remote.Ok(model.User{ID: 7}),
	}
	up := &fakeUploader{url: "http://final", delay: 200 * time.Millisecond}
	svc := newProfileService(rc, &fakeCache{}, up, &session.Account{ID: 7})

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Update(context.Background(), Edit{
			FirstName:   "First",
			Avatar:      strings.NewReader("a"),
			ContentType: "image/png",
		})
		firstErr <- err
	}()

	// Let the first upload claim the slot before the second edit arrives.
	time.Sleep(50 * time.Millisecond)

	user, err := svc.Update(context.Background(), Edit{
		FirstName:   "Second",
		Avatar:      strings.NewReader("b"),
		ContentType: "image/png",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Second", user.FirstName)

	assert.Error(t, <-firstErr, "the older edit loses")
	assert.Len(t, rc.upserted, 1, "only the newer edit reaches the user document")
}

func TestSetPro(t *testing.T) {
	rc := &fakeRemote{
		user: remote.Ok(model.User{ID: 7}),
	}

	user, err := newProfileService(rc, &fakeCache{}, &fakeUploader{}, &session.Account{ID: 7}).
		SetPro(context.Background(), true)
	assert.NoError(t, err)
	assert.True(t, user.Pro)
	assert.Len(t, rc.upserted, 1)

	_, err = newProfileService(&fakeRemote{}, &fakeCache{}, &fakeUploader{}, nil).
		SetPro(context.Background(), true)
	assert.ErrorIs(t, err, session.ErrNotSignedIn)
}
