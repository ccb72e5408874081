package menusync

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"menu-sync/core/storage"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature wires the menu sync feature: service, handler, optional
// snapshot archiver and search refresher.
func NewFeature(db *gorm.DB, logger *zap.Logger, client storage.Client, bucket string, cfg Config, partner string) *Feature {
	var archiver *Archiver
	if client != nil {
		archiver = NewArchiver(client, bucket)
	}

	var refresher Refresher = NopRefresher{}
	if cfg.SearchRefreshURL != "" {
		timeout := time.Duration(cfg.RefreshTimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		refresher = NewHTTPRefresher(cfg.SearchRefreshURL, timeout)
	}

	svc := NewService(db, logger, archiver, refresher, partner)
	h := NewHandler(svc, NewLogNotifier(logger))
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "menusync"
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
