package family

import (
	"errors"

	"family-sync/core/logger"
	"family-sync/core/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the family and map screens.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the family routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/family")
	group.Get("/members", h.HandleMembers)
	group.Get("/map", h.HandleMap)
	group.Post("/status", h.HandleReportStatus)
}

// HandleMembers returns the member list with derived statuses.
func (h *Handler) HandleMembers(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	members, err := h.service.Members(c.Context())
	if err != nil {
		l.Error("Members fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(members)
}

// HandleMap returns the map pins.
func (h *Handler) HandleMap(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	points, err := h.service.Positions(c.Context())
	if err != nil {
		l.Error("Map fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(points)
}

type reportStatusRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HandleReportStatus upserts the signed-in account's presence row.
func (h *Handler) HandleReportStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req reportStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid body",
		})
	}

	if err := h.service.ReportStatus(c.Context(), req.Latitude, req.Longitude); err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Status report failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
