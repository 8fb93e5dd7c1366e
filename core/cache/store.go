package cache

import (
	"context"
	"errors"

	"family-sync/core/database"
	"family-sync/core/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDataNotFound is returned when a fetch yields an empty set. Empty is
// treated as "cache unpopulated", not as a success with zero rows.
var ErrDataNotFound = errors.New("cache: data not found")

// Store is the queue-guarded local cache. The zero distinction between a
// ready and an unavailable store is internal: an unavailable store answers
// every read with ErrDataNotFound and ignores writes.
type Store struct {
	db     *gorm.DB // nil when the store is unavailable
	queue  chan func()
	logger *zap.Logger
}

// New opens the cache database, migrates the four record families, and
// returns a ready store — or a degraded store when the database cannot be
// opened or migrated.
func New(cfg database.Config, logger *zap.Logger) *Store {
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Warn("Local cache unavailable, running degraded", zap.Error(err))
		db = nil
	}
	if db != nil {
		err := db.AutoMigrate(&model.User{}, &model.Post{}, &model.Comment{}, &model.PresenceStatus{})
		if err != nil {
			logger.Warn("Cache migration failed, running degraded", zap.Error(err))
			db = nil
		}
	}
	return NewWithDB(db, logger)
}

// NewWithDB wraps an existing gorm connection whose schema the caller
// manages. Passing nil yields a degraded store.
func NewWithDB(db *gorm.DB, logger *zap.Logger) *Store {
	s := &Store{
		db:     db,
		queue:  make(chan func(), 64),
		logger: logger,
	}
	go s.worker()
	return s
}

// Available reports whether the store is backed by a database.
func (s *Store) Available() bool {
	return s.db != nil
}

// Close stops the worker. Pending jobs still run; new calls panic.
func (s *Store) Close() {
	close(s.queue)
}

func (s *Store) worker() {
	for job := range s.queue {
		job()
	}
}

// do runs fn on the serial queue and blocks until it finishes or ctx is
// done. A cancelled caller abandons the job's result; the job itself still
// completes on the queue. degraded is the answer an unavailable store
// gives without touching the queue.
func (s *Store) do(ctx context.Context, degraded error, fn func(db *gorm.DB) error) error {
	if s.db == nil {
		return degraded
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	job := func() { done <- fn(s.db) }

	select {
	case s.queue <- job:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fetchAll loads a whole record family. Empty means ErrDataNotFound.
func fetchAll[T any](ctx context.Context, s *Store) ([]T, error) {
	var out []T
	err := s.do(ctx, ErrDataNotFound, func(db *gorm.DB) error {
		return db.Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrDataNotFound
	}
	return out, nil
}

// fetchWhere loads the records matching a predicate. Empty means
// ErrDataNotFound, same as fetchAll.
func fetchWhere[T any](ctx context.Context, s *Store, query string, args ...any) ([]T, error) {
	var out []T
	err := s.do(ctx, ErrDataNotFound, func(db *gorm.DB) error {
		return db.Where(query, args...).Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrDataNotFound
	}
	return out, nil
}

// upsertAll writes rows keyed on their primary key; existing rows are
// overwritten in place. A degraded store silently drops the write.
func upsertAll[T any](ctx context.Context, s *Store, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return s.do(ctx, nil, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
}

// Users returns all cached users.
func (s *Store) Users(ctx context.Context) ([]model.User, error) {
	return fetchAll[model.User](ctx, s)
}

// User returns one cached user by id.
func (s *Store) User(ctx context.Context, id int) (model.User, error) {
	rows, err := fetchWhere[model.User](ctx, s, "id = ?", id)
	if err != nil {
		return model.User{}, err
	}
	return rows[0], nil
}

// Posts returns all cached posts.
func (s *Store) Posts(ctx context.Context) ([]model.Post, error) {
	return fetchAll[model.Post](ctx, s)
}

// PostsByUser returns the cached posts authored by one user.
func (s *Store) PostsByUser(ctx context.Context, userID int) ([]model.Post, error) {
	return fetchWhere[model.Post](ctx, s, "user_id = ?", userID)
}

// Comments returns all cached comments.
func (s *Store) Comments(ctx context.Context) ([]model.Comment, error) {
	return fetchAll[model.Comment](ctx, s)
}

// CommentsByPost returns the cached comments attached to one post.
func (s *Store) CommentsByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	return fetchWhere[model.Comment](ctx, s, "post_id = ?", postID)
}

// Statuses returns all cached presence rows.
func (s *Store) Statuses(ctx context.Context) ([]model.PresenceStatus, error) {
	return fetchAll[model.PresenceStatus](ctx, s)
}

// SaveUsers upserts the user collection snapshot.
func (s *Store) SaveUsers(ctx context.Context, users []model.User) error {
	return upsertAll(ctx, s, users)
}

// SaveUser upserts a single user row.
func (s *Store) SaveUser(ctx context.Context, user model.User) error {
	return upsertAll(ctx, s, []model.User{user})
}

// SavePosts upserts the post collection snapshot.
func (s *Store) SavePosts(ctx context.Context, posts []model.Post) error {
	return upsertAll(ctx, s, posts)
}

// SavePost upserts a single post row.
func (s *Store) SavePost(ctx context.Context, post model.Post) error {
	return upsertAll(ctx, s, []model.Post{post})
}

// SaveComments upserts the comment collection snapshot.
func (s *Store) SaveComments(ctx context.Context, comments []model.Comment) error {
	return upsertAll(ctx, s, comments)
}

// SaveStatuses upserts the presence collection snapshot.
func (s *Store) SaveStatuses(ctx context.Context, statuses []model.PresenceStatus) error {
	return upsertAll(ctx, s, statuses)
}
