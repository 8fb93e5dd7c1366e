package news

import (
	"errors"
	"strings"

	"family-sync/core/logger"
	"family-sync/core/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the feed screen.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the news routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/news")
	group.Get("/feed", h.HandleFeed)
	group.Get("/posts/:id/comments", h.HandleComments)
	group.Post("/posts/:id/comments", h.HandleAddComment)
	group.Post("/posts/:id/like", h.HandleToggleLike)
}

// HandleFeed returns the assembled feed, newest first.
func (h *Handler) HandleFeed(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	items, err := h.service.Feed(c.Context())
	if err != nil {
		l.Error("Feed fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(items)
}

// HandleComments returns one post's comments with authors.
func (h *Handler) HandleComments(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	items, err := h.service.Comments(c.Context(), c.Params("id"))
	if err != nil {
		l.Error("Comments fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(items)
}

type addCommentRequest struct {
	Text string `json:"text"`
}

// HandleAddComment creates a comment on the given post.
func (h *Handler) HandleAddComment(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req addCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid body",
		})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "empty comment",
		})
	}

	cm, err := h.service.AddComment(c.Context(), c.Params("id"), req.Text)
	if err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Comment write failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(cm)
}

// HandleToggleLike flips the signed-in account's like on the given post.
func (h *Handler) HandleToggleLike(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	post, err := h.service.ToggleLike(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Like toggle failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(post)
}
