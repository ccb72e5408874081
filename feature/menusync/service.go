package menusync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"menu-sync/core/logger"
	"menu-sync/feature/menusync/models"
)

// Service runs menu sync passes: parse, archive, reconcile, refresh.
type Service struct {
	db        *gorm.DB
	norm      *Normalizer
	logger    *zap.Logger
	archiver  *Archiver
	refresher Refresher
	partner   string
}

// NewService wires a sync service. archiver may be nil when snapshot
// archiving is disabled; refresher must not be nil (use NopRefresher).
func NewService(db *gorm.DB, logger *zap.Logger, archiver *Archiver, refresher Refresher, partner string) *Service {
	return &Service{
		db:        db,
		norm:      NewNormalizer(partner),
		logger:    logger,
		archiver:  archiver,
		refresher: refresher,
		partner:   partner,
	}
}

// Sync processes one raw snapshot document end to end and returns the
// per-entity report. syncID correlates logs, the archived snapshot and
// the partner's retry, and is expected to be unique per attempt.
func (s *Service) Sync(ctx context.Context, syncID string, raw []byte) (*models.Report, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	posID := snap.RestaurantPosID()
	if posID == "" {
		return nil, fmt.Errorf("%w: no restaurant identifier", ErrMalformedSnapshot)
	}
	l := logger.WithSync(s.logger, syncID, posID)

	rest, err := NewRepository(s.db).FindRestaurantByPosID(ctx, posID, s.partner)
	if err != nil {
		return nil, err
	}

	s.archive(ctx, l, posID, syncID, raw)

	report, affected, err := Run(ctx, s.db, s.norm, l, rest, &snap)
	if err != nil {
		return nil, err
	}
	l.Info("menu sync committed",
		zap.Int("items_inserted", report.MenuItems.Inserted),
		zap.Int("items_updated", report.MenuItems.Updated),
		zap.Int("items_deleted", report.MenuItems.Deleted),
		zap.Int("items_affected", len(affected)))

	// Post-commit, fire and forget: the sync outcome is already durable.
	go s.refresh(l, rest.ID, affected)

	return report, nil
}

func (s *Service) archive(ctx context.Context, l *zap.Logger, posID, syncID string, raw []byte) {
	if s.archiver == nil {
		return
	}
	path, err := s.archiver.Store(ctx, posID, syncID, raw)
	if err != nil {
		l.Warn("snapshot archive failed", zap.Error(err))
		return
	}
	l.Debug("snapshot archived", zap.String("path", path))
}

func (s *Service) refresh(l *zap.Logger, restaurantID uint, affected []uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.refresher.Refresh(ctx, restaurantID, affected); err != nil {
		l.Warn("search refresh failed", zap.Error(err))
	}
}
