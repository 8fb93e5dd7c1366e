package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"family-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Collection prefixes inside the bucket. One JSON document per entity.
const (
	usersPrefix    = "users/"
	postsPrefix    = "posts/"
	commentsPrefix = "comments/"
	statusesPrefix = "statuses/"
)

// Client is the document store client. It is stateless with respect to the
// backend; the only state it carries is the per-collection snapshot of the
// last fresh listing, used to serve stale results while offline.
type Client struct {
	store  storage.Client
	bucket string
	logger *zap.Logger

	mu    sync.RWMutex
	snaps map[string]any
	sf    singleflight.Group
}

// NewClient creates a document store client over the given storage backend.
func NewClient(store storage.Client, bucket string, logger *zap.Logger) *Client {
	return &Client{
		store:  store,
		bucket: bucket,
		logger: logger,
		snaps:  make(map[string]any),
	}
}

// Probe checks backend reachability with a lightweight listing of the users
// collection. Every write goes through it first so "record absent" and
// "backend unreachable" stay distinguishable.
func (c *Client) Probe(ctx context.Context) error {
	objects := c.store.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:  usersPrefix,
		MaxKeys: 1,
	})
	for obj := range objects {
		if obj.Err != nil {
			return fmt.Errorf("%w: %v", ErrUnreachable, obj.Err)
		}
	}
	return nil
}

func (c *Client) snapshot(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.snaps[key]
	return v, ok
}

func (c *Client) remember(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps[key] = v
}

func (c *Client) forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snaps, key)
}

// fetchAll lists a collection and decodes every document in it. Concurrent
// refreshes of the same collection are collapsed through singleflight. On
// transport failure the last fresh listing, if any, is served stale.
func fetchAll[T any](ctx context.Context, c *Client, prefix string) Result[[]T] {
	v, _, _ := c.sf.Do(prefix, func() (any, error) {
		return fetchAllUncollapsed[T](ctx, c, prefix), nil
	})
	return v.(Result[[]T])
}

func fetchAllUncollapsed[T any](ctx context.Context, c *Client, prefix string) Result[[]T] {
	out := make([]T, 0)

	objects := c.store.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: prefix})
	for obj := range objects {
		if obj.Err != nil {
			return degrade[[]T](c, prefix, classify(obj.Err))
		}

		entity, err := getDocument[T](ctx, c, obj.Key)
		if err != nil {
			if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
				// Deleted between listing and read; skip.
				continue
			}
			if errors.Is(err, ErrParsing) {
				return Fail[[]T](err)
			}
			return degrade[[]T](c, prefix, classify(err))
		}
		out = append(out, entity)
	}

	c.remember(prefix, out)
	return Ok(out)
}

// fetchOne reads a single document. A missing or undecodable document is a
// parse failure; transport failures degrade to the snapshot like fetchAll.
func fetchOne[T any](ctx context.Context, c *Client, key string) Result[T] {
	entity, err := getDocument[T](ctx, c, key)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return Fail[T](fmt.Errorf("%w: %s", ErrParsing, key))
		}
		if errors.Is(err, ErrParsing) {
			return Fail[T](err)
		}
		return degrade[T](c, key, classify(err))
	}

	c.remember(key, entity)
	return Ok(entity)
}

// degrade serves the snapshot for key if one exists, otherwise fails.
func degrade[T any](c *Client, key string, err error) Result[T] {
	if snap, ok := c.snapshot(key); ok {
		c.logger.Debug("serving stale snapshot", zap.String("key", key), zap.Error(err))
		return Cached(snap.(T))
	}
	return Fail[T](err)
}

func getDocument[T any](ctx context.Context, c *Client, key string) (T, error) {
	var entity T

	rc, err := c.store.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return entity, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return entity, err
	}

	if err := json.Unmarshal(data, &entity); err != nil {
		return entity, fmt.Errorf("%w: %s: %v", ErrParsing, key, err)
	}
	return entity, nil
}

// put probes, uploads one document, and invalidates the collection snapshot
// so the next listing refetches.
func put[T any](ctx context.Context, c *Client, prefix, key string, v T) error {
	if err := c.Probe(ctx); err != nil {
		return err
	}
	return putUnprobed(ctx, c, prefix, key, v)
}

func putUnprobed[T any](ctx context.Context, c *Client, prefix, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParsing, key, err)
	}

	_, err = c.store.PutObject(ctx, c.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetching, err)
	}

	c.forget(prefix)
	c.forget(key)
	return nil
}
