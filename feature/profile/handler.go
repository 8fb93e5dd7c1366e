package profile

import (
	"errors"

	"family-sync/core/logger"
	"family-sync/core/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the profile screens.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the profile routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/profile")
	group.Get("/:id", h.HandleProfile)
	group.Put("/", h.HandleUpdate)
	group.Post("/ensure", h.HandleEnsureAccount)
	group.Post("/pro", h.HandleSetPro)
}

// HandleProfile returns the user+posts aggregate.
func (h *Handler) HandleProfile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	view, err := h.service.Profile(c.Context(), id)
	if err != nil {
		l.Error("Profile fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(view)
}

// HandleUpdate rewrites the signed-in account's profile. The form carries
// "firstName", "lastName" and an optional "avatar" file part.
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	edit := Edit{
		FirstName: c.FormValue("firstName"),
		LastName:  c.FormValue("lastName"),
	}

	if fh, err := c.FormFile("avatar"); err == nil {
		file, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unreadable avatar part",
			})
		}
		defer file.Close()
		edit.Avatar = file
		edit.ContentType = fh.Header.Get("Content-Type")
	}

	user, err := h.service.Update(c.Context(), edit)
	if err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Profile update failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(user)
}

// HandleEnsureAccount creates the account's user document if absent.
func (h *Handler) HandleEnsureAccount(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	user, err := h.service.EnsureAccount(c.Context())
	if err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Account ensure failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(user)
}

type setProRequest struct {
	Pro bool `json:"pro"`
}

// HandleSetPro flips the premium flag.
func (h *Handler) HandleSetPro(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req setProRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid body",
		})
	}

	user, err := h.service.SetPro(c.Context(), req.Pro)
	if err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Pro flag update failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(user)
}
