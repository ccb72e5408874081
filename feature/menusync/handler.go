package menusync

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"menu-sync/core/logger"
	"menu-sync/core/middleware/rayid"
)

// Handler handles HTTP requests for menu synchronization.
type Handler struct {
	service  *Service
	notifier Notifier
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, notifier Notifier) *Handler {
	return &Handler{service: service, notifier: notifier}
}

// RegisterRoutes registers the menu sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/pos")
	group.Post("/menu/sync", h.HandleMenuSync)
}

// HandleMenuSync ingests one full-catalog snapshot from the POS partner.
// @Summary Sync POS Menu
// @Description Reconcile a full-catalog POS snapshot into the menu schema.
// @Tags menu
// @Accept json
// @Produce json
// @Success 200 {object} models.Report "Sync Report"
// @Failure 400 {object} map[string]string "Malformed Snapshot"
// @Failure 404 {object} map[string]string "Unknown Restaurant"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /pos/menu/sync [post]
func (h *Handler) HandleMenuSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	syncID := rayid.FromCtx(c)

	report, err := h.service.Sync(c.Context(), syncID, c.Body())
	if err != nil {
		h.notifier.NotifyFailure(c.Context(), syncID, err)
		status := fiber.StatusInternalServerError
		switch {
		case IsValidation(err), errors.Is(err, ErrMalformedSnapshot):
			status = fiber.StatusBadRequest
		case IsNotFound(err):
			status = fiber.StatusNotFound
		}
		l.Error("Menu sync failed", zap.Int("status", status), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}
