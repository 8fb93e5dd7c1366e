package post

import (
	"family-sync/core/cache"
	"family-sync/core/remote"
	"family-sync/core/session"
	"family-sync/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the post feature.
func NewFeature(rc *remote.Client, store *cache.Store, up *storage.Uploader, sess session.Provider, logger *zap.Logger) *Feature {
	svc := NewService(rc, store, up, sess, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "post"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
