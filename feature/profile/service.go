package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"family-sync/core/cache"
	"family-sync/core/model"
	"family-sync/core/reconcile"
	"family-sync/core/remote"
	"family-sync/core/session"

	"go.uber.org/zap"
)

type remoteAPI interface {
	FetchUser(ctx context.Context, id int) remote.Result[model.User]
	FetchPostsByUser(ctx context.Context, userID int) remote.Result[[]model.Post]
	UpsertUser(ctx context.Context, u model.User) error
}

type cacheAPI interface {
	User(ctx context.Context, id int) (model.User, error)
	SaveUser(ctx context.Context, user model.User) error
	PostsByUser(ctx context.Context, userID int) ([]model.Post, error)
	SavePosts(ctx context.Context, posts []model.Post) error
}

type uploaderAPI interface {
	UploadAvatar(ctx context.Context, r io.Reader, contentType string) (string, error)
}

// View is the profile screen aggregate.
type View struct {
	User    model.User   `json:"user"`
	Posts   []model.Post `json:"posts"`
	IsOwner bool         `json:"isOwner"`
}

// Edit is the edit-profile input. A nil Avatar keeps the current picture.
type Edit struct {
	FirstName   string
	LastName    string
	Avatar      io.Reader
	ContentType string
}

// Service owns the profile read and write paths.
type Service struct {
	remote   remoteAPI
	cache    cacheAPI
	uploader uploaderAPI
	session  session.Provider
	logger   *zap.Logger

	// Guards the in-flight avatar upload. A newer edit cancels the older
	// upload and claims the slot; the superseded goroutine notices and
	// discards its result.
	mu           sync.Mutex
	uploadCancel context.CancelFunc
	uploadSeq    uint64
}

// NewService creates a new profile service.
func NewService(rc remoteAPI, store cacheAPI, up uploaderAPI, sess session.Provider, logger *zap.Logger) *Service {
	return &Service{
		remote:   rc,
		cache:    store,
		uploader: up,
		session:  sess,
		logger:   logger,
	}
}

// Profile returns the user document and their posts. IsOwner is true when
// the profile belongs to the signed-in account.
func (s *Service) Profile(ctx context.Context, userID int) (View, error) {
	var (
		user  model.User
		posts []model.Post
		uErr  error
		pErr  error
		wg    sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		user, uErr = reconcile.Resolve(s.remote.FetchUser(ctx, userID),
			func(v model.User) error { return s.cache.SaveUser(ctx, v) },
			func() (model.User, error) { return s.cache.User(ctx, userID) })
	}()
	go func() {
		defer wg.Done()
		posts, pErr = reconcile.Resolve(s.remote.FetchPostsByUser(ctx, userID),
			func(v []model.Post) error { return s.cache.SavePosts(ctx, v) },
			func() ([]model.Post, error) { return s.cache.PostsByUser(ctx, userID) })
	}()
	wg.Wait()

	// The user document is mandatory; a profile without posts is fine.
	if uErr != nil {
		return View{}, uErr
	}
	if pErr != nil && !errors.Is(pErr, cache.ErrDataNotFound) {
		return View{}, pErr
	}

	acc := s.session.Account()
	return View{
		User:    user,
		Posts:   posts,
		IsOwner: acc != nil && acc.ID == userID,
	}, nil
}

// EnsureAccount makes sure the signed-in account has a user document,
// creating one on first sign-in. A missing document reads as a parse
// failure, which is the creation signal; transport failures are not.
func (s *Service) EnsureAccount(ctx context.Context) (model.User, error) {
	acc := s.session.Account()
	if acc == nil {
		return model.User{}, session.ErrNotSignedIn
	}

	res := s.remote.FetchUser(ctx, acc.ID)
	if res.Fresh() {
		return res.Value, nil
	}
	if !errors.Is(res.Err, remote.ErrParsing) {
		if res.Err != nil {
			return model.User{}, res.Err
		}
		// Stale reads cannot prove absence; refuse to re-create.
		return model.User{}, fmt.Errorf("%w: stale user document", remote.ErrFetching)
	}

	user := model.User{
		ID:        acc.ID,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
		Role:      model.RoleRegular,
		Pro:       acc.Pro,
	}
	if err := s.remote.UpsertUser(ctx, user); err != nil {
		return model.User{}, err
	}
	if err := s.cache.SaveUser(ctx, user); err != nil {
		return model.User{}, err
	}
	s.logger.Info("Account document created", zap.Int("user_id", user.ID))
	return user, nil
}

// Update rewrites the signed-in account's names and, when an avatar is
// supplied, its picture. The read-modify-write runs against a fresh user
// document so other fields are never clobbered from stale data.
func (s *Service) Update(ctx context.Context, edit Edit) (model.User, error) {
	acc := s.session.Account()
	if acc == nil {
		return model.User{}, session.ErrNotSignedIn
	}

	var avatarURL string
	if edit.Avatar != nil {
		url, err := s.uploadAvatar(ctx, edit.Avatar, edit.ContentType)
		if err != nil {
			return model.User{}, err
		}
		avatarURL = url
	}

	return s.rewriteUser(ctx, acc.ID, func(u *model.User) {
		u.FirstName = edit.FirstName
		u.LastName = edit.LastName
		if avatarURL != "" {
			u.AvatarURL = avatarURL
		}
	})
}

// SetPro flips the premium flag after a completed purchase.
func (s *Service) SetPro(ctx context.Context, pro bool) (model.User, error) {
	acc := s.session.Account()
	if acc == nil {
		return model.User{}, session.ErrNotSignedIn
	}
	return s.rewriteUser(ctx, acc.ID, func(u *model.User) {
		u.Pro = pro
	})
}

// rewriteUser performs a fresh read-modify-write of one user document and
// mirrors the result into the cache.
func (s *Service) rewriteUser(ctx context.Context, id int, mutate func(*model.User)) (model.User, error) {
	res := s.remote.FetchUser(ctx, id)
	if !res.Fresh() {
		if res.Err != nil {
			return model.User{}, res.Err
		}
		return model.User{}, fmt.Errorf("%w: stale user document", remote.ErrFetching)
	}

	user := res.Value
	mutate(&user)

	if err := s.remote.UpsertUser(ctx, user); err != nil {
		return model.User{}, err
	}
	if err := s.cache.SaveUser(ctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// uploadAvatar runs the upload under a cancel slot shared by all edits: a
// newer edit cancels the older upload. When this upload finishes but the
// slot has moved on, the result is discarded and the caller gets an error
// instead of overwriting the newer picture.
func (s *Service) uploadAvatar(ctx context.Context, r io.Reader, contentType string) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.uploadCancel != nil {
		s.uploadCancel()
		s.logger.Debug("Superseding in-flight avatar upload")
	}
	s.uploadCancel = cancel
	s.uploadSeq++
	seq := s.uploadSeq
	s.mu.Unlock()

	url, err := s.uploader.UploadAvatar(ctx, r, contentType)

	s.mu.Lock()
	superseded := s.uploadSeq != seq
	if !superseded {
		s.uploadCancel = nil
	}
	s.mu.Unlock()

	if superseded {
		return "", errors.New("avatar upload superseded by a newer edit")
	}
	return url, err
}
