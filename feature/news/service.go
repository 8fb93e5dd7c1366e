package news

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"family-sync/core/cache"
	"family-sync/core/model"
	"family-sync/core/reconcile"
	"family-sync/core/remote"
	"family-sync/core/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// remoteAPI is the slice of the remote client this feature consumes.
type remoteAPI interface {
	FetchPosts(ctx context.Context) remote.Result[[]model.Post]
	FetchPost(ctx context.Context, id string) remote.Result[model.Post]
	FetchUsers(ctx context.Context) remote.Result[[]model.User]
	FetchComments(ctx context.Context) remote.Result[[]model.Comment]
	FetchCommentsByPost(ctx context.Context, postID string) remote.Result[[]model.Comment]
	UpsertPost(ctx context.Context, p model.Post) error
	UpsertComment(ctx context.Context, cm model.Comment) error
}

// cacheAPI is the slice of the local cache this feature consumes.
type cacheAPI interface {
	Posts(ctx context.Context) ([]model.Post, error)
	SavePosts(ctx context.Context, posts []model.Post) error
	SavePost(ctx context.Context, post model.Post) error
	Users(ctx context.Context) ([]model.User, error)
	SaveUsers(ctx context.Context, users []model.User) error
	Comments(ctx context.Context) ([]model.Comment, error)
	CommentsByPost(ctx context.Context, postID string) ([]model.Comment, error)
	SaveComments(ctx context.Context, comments []model.Comment) error
}

// FeedItem is one view-ready feed entry.
type FeedItem struct {
	Post          model.Post `json:"post"`
	Author        model.User `json:"author"`
	CommentsCount int        `json:"commentsCount"`
	LikesCount    int        `json:"likesCount"`
	Liked         bool       `json:"liked"`
}

// CommentItem is one view-ready comment with its author.
type CommentItem struct {
	Comment model.Comment `json:"comment"`
	Author  model.User    `json:"author"`
}

// Service assembles the feed and owns the like/comment write paths.
type Service struct {
	remote  remoteAPI
	cache   cacheAPI
	session session.Provider
	logger  *zap.Logger
}

// NewService creates a new news service.
func NewService(rc remoteAPI, store cacheAPI, sess session.Provider, logger *zap.Logger) *Service {
	return &Service{
		remote:  rc,
		cache:   store,
		session: sess,
		logger:  logger,
	}
}

// Feed returns the feed, newest first. Posts, users and comments are
// reconciled independently; an empty posts collection (remote down, cache
// cold) yields an empty feed, not an error.
func (s *Service) Feed(ctx context.Context) ([]FeedItem, error) {
	var (
		posts    []model.Post
		users    []model.User
		comments []model.Comment
		pErr     error
		uErr     error
		cErr     error
		wg       sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		posts, pErr = reconcile.Resolve(s.remote.FetchPosts(ctx),
			func(v []model.Post) error { return s.cache.SavePosts(ctx, v) },
			func() ([]model.Post, error) { return s.cache.Posts(ctx) })
	}()
	go func() {
		defer wg.Done()
		users, uErr = reconcile.Resolve(s.remote.FetchUsers(ctx),
			func(v []model.User) error { return s.cache.SaveUsers(ctx, v) },
			func() ([]model.User, error) { return s.cache.Users(ctx) })
	}()
	go func() {
		defer wg.Done()
		comments, cErr = reconcile.Resolve(s.remote.FetchComments(ctx),
			func(v []model.Comment) error { return s.cache.SaveComments(ctx, v) },
			func() ([]model.Comment, error) { return s.cache.Comments(ctx) })
	}()
	wg.Wait()

	for _, err := range []error{pErr, uErr, cErr} {
		if err != nil && !errors.Is(err, cache.ErrDataNotFound) {
			return nil, err
		}
	}

	return s.join(posts, users, comments), nil
}

// join builds feed items from the reconciled collections. Orphaned posts
// are dropped silently.
func (s *Service) join(posts []model.Post, users []model.User, comments []model.Comment) []FeedItem {
	byID := make(map[int]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	counts := make(map[string]int, len(comments))
	for _, cm := range comments {
		counts[cm.PostID]++
	}

	var viewer int
	if acc := s.session.Account(); acc != nil {
		viewer = acc.ID
	}

	items := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		author, ok := byID[p.UserID]
		if !ok {
			continue
		}
		items = append(items, FeedItem{
			Post:          p,
			Author:        author,
			CommentsCount: counts[p.ID],
			LikesCount:    len(p.Likes),
			Liked:         viewer != 0 && p.Liked(viewer),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return postTime(items[i].Post).After(postTime(items[j].Post))
	})
	return items
}

func postTime(p model.Post) time.Time {
	t, err := model.ParseTime(p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Comments returns one post's comments with authors, oldest first.
func (s *Service) Comments(ctx context.Context, postID string) ([]CommentItem, error) {
	var (
		comments []model.Comment
		users    []model.User
		cErr     error
		uErr     error
		wg       sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		comments, cErr = reconcile.Resolve(s.remote.FetchCommentsByPost(ctx, postID),
			func(v []model.Comment) error { return s.cache.SaveComments(ctx, v) },
			func() ([]model.Comment, error) { return s.cache.CommentsByPost(ctx, postID) })
	}()
	go func() {
		defer wg.Done()
		users, uErr = reconcile.Resolve(s.remote.FetchUsers(ctx),
			func(v []model.User) error { return s.cache.SaveUsers(ctx, v) },
			func() ([]model.User, error) { return s.cache.Users(ctx) })
	}()
	wg.Wait()

	for _, err := range []error{cErr, uErr} {
		if err != nil && !errors.Is(err, cache.ErrDataNotFound) {
			return nil, err
		}
	}

	byID := make(map[int]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	items := make([]CommentItem, 0, len(comments))
	for _, cm := range comments {
		author, ok := byID[cm.UserID]
		if !ok {
			continue
		}
		items = append(items, CommentItem{Comment: cm, Author: author})
	}

	sort.Slice(items, func(i, j int) bool {
		ti, _ := model.ParseTime(items[i].Comment.Date)
		tj, _ := model.ParseTime(items[j].Comment.Date)
		return ti.Before(tj)
	})
	return items, nil
}

// ToggleLike flips the signed-in account's membership in the post's likes
// list through a full read-modify-write of the post document. Concurrent
// likes from different devices are last-writer-wins.
func (s *Service) ToggleLike(ctx context.Context, postID string) (model.Post, error) {
	acc := s.session.Account()
	if acc == nil {
		return model.Post{}, session.ErrNotSignedIn
	}

	res := s.remote.FetchPost(ctx, postID)
	if !res.Fresh() {
		// Toggling against a stale document would resurrect old likes.
		if res.Err != nil {
			return model.Post{}, res.Err
		}
		return model.Post{}, fmt.Errorf("%w: stale post document", remote.ErrFetching)
	}

	post := res.Value
	if post.Liked(acc.ID) {
		kept := make([]int, 0, len(post.Likes))
		for _, id := range post.Likes {
			if id != acc.ID {
				kept = append(kept, id)
			}
		}
		post.Likes = kept
	} else {
		post.Likes = append(post.Likes, acc.ID)
	}

	if err := s.remote.UpsertPost(ctx, post); err != nil {
		return model.Post{}, err
	}
	if err := s.cache.SavePost(ctx, post); err != nil {
		return model.Post{}, err
	}
	return post, nil
}

// AddComment creates a comment on the given post. Write failures
// propagate; there is no offline queueing at this layer.
func (s *Service) AddComment(ctx context.Context, postID, text string) (model.Comment, error) {
	acc := s.session.Account()
	if acc == nil {
		return model.Comment{}, session.ErrNotSignedIn
	}

	cm := model.Comment{
		ID:     uuid.New().String(),
		UserID: acc.ID,
		PostID: postID,
		Text:   text,
		Date:   model.FormatTime(time.Now()),
	}
	if err := s.remote.UpsertComment(ctx, cm); err != nil {
		return model.Comment{}, err
	}
	if err := s.cache.SaveComments(ctx, []model.Comment{cm}); err != nil {
		return model.Comment{}, err
	}
	return cm, nil
}
