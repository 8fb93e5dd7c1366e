package cmd

import (
	"context"
	"fmt"
	"sync"

	"family-sync/core/cache"
	"family-sync/core/config"
	"family-sync/core/logger"
	"family-sync/core/model"
	"family-sync/core/reconcile"
	"family-sync/core/remote"
	"family-sync/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// warmCmd pulls every collection once so the cache can serve a cold start
// offline. Useful right after provisioning a device or resetting the cache.
var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Warm the local cache from the remote document store",
	Long: `Fetches the user, post, comment and presence collections once and writes
them through to the local cache. Collections the remote cannot serve are
reported and skipped; the command fails only when nothing could be fetched.`,
	RunE: runWarm,
}

func init() {
	RootCmd.AddCommand(warmCmd)
}

func runWarm(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	store := cache.New(cfg.Database, l)
	defer store.Close()
	if !store.Available() {
		return fmt.Errorf("local cache unavailable, nothing to warm")
	}

	backend, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}
	rc := remote.NewClient(backend, cfg.Storage.Bucket, l)

	type outcome struct {
		name  string
		count int
		err   error
	}
	results := make([]outcome, 4)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		users, err := reconcile.Resolve(rc.FetchUsers(ctx),
			func(v []model.User) error { return store.SaveUsers(ctx, v) },
			func() ([]model.User, error) { return nil, remote.ErrFetching })
		results[0] = outcome{"users", len(users), err}
	}()
	go func() {
		defer wg.Done()
		posts, err := reconcile.Resolve(rc.FetchPosts(ctx),
			func(v []model.Post) error { return store.SavePosts(ctx, v) },
			func() ([]model.Post, error) { return nil, remote.ErrFetching })
		results[1] = outcome{"posts", len(posts), err}
	}()
	go func() {
		defer wg.Done()
		comments, err := reconcile.Resolve(rc.FetchComments(ctx),
			func(v []model.Comment) error { return store.SaveComments(ctx, v) },
			func() ([]model.Comment, error) { return nil, remote.ErrFetching })
		results[2] = outcome{"comments", len(comments), err}
	}()
	go func() {
		defer wg.Done()
		statuses, err := reconcile.Resolve(rc.FetchStatuses(ctx),
			func(v []model.PresenceStatus) error { return store.SaveStatuses(ctx, v) },
			func() ([]model.PresenceStatus, error) { return nil, remote.ErrFetching })
		results[3] = outcome{"statuses", len(statuses), err}
	}()
	wg.Wait()

	warmed := 0
	for _, r := range results {
		if r.err != nil {
			l.Warn("Collection skipped", zap.String("collection", r.name), zap.Error(r.err))
			continue
		}
		l.Info("Collection warmed", zap.String("collection", r.name), zap.Int("count", r.count))
		warmed++
	}

	if warmed == 0 {
		return fmt.Errorf("no collection could be fetched")
	}
	return nil
}
