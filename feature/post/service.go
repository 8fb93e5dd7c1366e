package post

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"family-sync/core/model"
	"family-sync/core/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyDraft is returned when a draft carries neither text nor media.
var ErrEmptyDraft = errors.New("a post needs text or media")

type remoteAPI interface {
	UpsertPost(ctx context.Context, p model.Post) error
}

type cacheAPI interface {
	SavePost(ctx context.Context, post model.Post) error
}

type uploaderAPI interface {
	UploadMedia(ctx context.Context, kind model.MediaKind, r io.Reader, contentType string) (string, error)
}

// Draft is the raw add-post input. Media is optional; when present, Kind
// and ContentType describe it.
type Draft struct {
	Text        string
	Media       io.Reader
	Kind        model.MediaKind
	ContentType string
}

// Service owns the add-post write path.
type Service struct {
	remote   remoteAPI
	cache    cacheAPI
	uploader uploaderAPI
	session  session.Provider
	logger   *zap.Logger
}

// NewService creates a new post service.
func NewService(rc remoteAPI, store cacheAPI, up uploaderAPI, sess session.Provider, logger *zap.Logger) *Service {
	return &Service{
		remote:   rc,
		cache:    store,
		uploader: up,
		session:  sess,
		logger:   logger,
	}
}

// Add uploads the draft's media (if any), then writes the post document.
// The media upload happens first so a post never references a URL that
// does not exist yet.
func (s *Service) Add(ctx context.Context, draft Draft) (model.Post, error) {
	acc := s.session.Account()
	if acc == nil {
		return model.Post{}, session.ErrNotSignedIn
	}

	text := strings.TrimSpace(draft.Text)
	if text == "" && draft.Media == nil {
		return model.Post{}, ErrEmptyDraft
	}

	p := model.Post{
		ID:     uuid.New().String(),
		UserID: acc.ID,
		Date:   model.FormatTime(time.Now()),
		Likes:  []int{},
	}
	if text != "" {
		p.Text = &text
	}

	if draft.Media != nil {
		url, err := s.uploader.UploadMedia(ctx, draft.Kind, draft.Media, draft.ContentType)
		if err != nil {
			return model.Post{}, err
		}
		kind := draft.Kind
		p.MediaURL = &url
		p.MediaKind = &kind
	}

	if err := s.remote.UpsertPost(ctx, p); err != nil {
		return model.Post{}, err
	}
	if err := s.cache.SavePost(ctx, p); err != nil {
		return model.Post{}, err
	}

	s.logger.Info("Post created",
		zap.String("post_id", p.ID),
		zap.Bool("has_media", p.MediaURL != nil))
	return p, nil
}
