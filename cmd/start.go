package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"family-sync/core/cache"
	"family-sync/core/config"
	"family-sync/core/loader"
	"family-sync/core/logger"
	"family-sync/core/middleware/auth"
	"family-sync/core/middleware/rayid"
	"family-sync/core/remote"
	"family-sync/core/session"
	"family-sync/core/storage"

	"family-sync/feature/family"
	"family-sync/feature/news"
	"family-sync/feature/post"
	"family-sync/feature/profile"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the family sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Open the Local Cache (degrades on failure, never fatal)
		store := cache.New(cfg.Database, logg)
		defer store.Close()
		if !store.Available() {
			logg.Warn("Running without a local cache; offline fallback disabled")
		}

		// 4. Initialize Storage
		backend, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		ensureBucket(backend, cfg.Storage, logg)

		rc := remote.NewClient(backend, cfg.Storage.Bucket, logg)
		uploader := storage.NewUploader(backend, cfg.Storage)

		// 5. Session Provider
		sess := session.FromConfig(cfg.Session)

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(news.NewFeature(rc, store, sess, logg))
		mgr.Register(post.NewFeature(rc, store, uploader, sess, logg))
		mgr.Register(family.NewFeature(rc, store, sess, cfg.Family, logg))
		mgr.Register(profile.NewFeature(rc, store, uploader, sess, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 8. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

// ensureBucket creates the documents bucket on first run. A backend that is
// unreachable at startup is logged, not fatal: the cache keeps the read
// paths alive until the backend comes back.
func ensureBucket(backend storage.Client, cfg storage.Config, logg *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := backend.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		logg.Warn("Bucket check failed, starting offline", zap.Error(err))
		return
	}
	if exists {
		return
	}
	if err := backend.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
		logg.Warn("Bucket creation failed", zap.Error(err))
		return
	}
	logg.Info("Created documents bucket", zap.String("bucket", cfg.Bucket))
}

func init() {
	RootCmd.AddCommand(startCmd)
}
