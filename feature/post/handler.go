package post

import (
	"errors"
	"strings"

	"family-sync/core/logger"
	"family-sync/core/model"
	"family-sync/core/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the add-post screen.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the post routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/posts", h.HandleAdd)
}

// HandleAdd creates a post from a multipart form. The "text" field and the
// "media" file part are both optional, but at least one must be present.
func (h *Handler) HandleAdd(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	draft := Draft{Text: c.FormValue("text")}

	if fh, err := c.FormFile("media"); err == nil {
		file, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unreadable media part",
			})
		}
		defer file.Close()

		contentType := fh.Header.Get("Content-Type")
		kind, ok := kindFromContentType(contentType)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unsupported media type",
			})
		}
		draft.Media = file
		draft.Kind = kind
		draft.ContentType = contentType
	}

	created, err := h.service.Add(c.Context(), draft)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotSignedIn):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, ErrEmptyDraft):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			l.Error("Post create failed", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func kindFromContentType(contentType string) (model.MediaKind, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return model.MediaImage, true
	case strings.HasPrefix(contentType, "video/"):
		return model.MediaVideo, true
	case strings.HasPrefix(contentType, "audio/"):
		return model.MediaAudio, true
	default:
		return "", false
	}
}
