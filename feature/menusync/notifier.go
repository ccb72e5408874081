package menusync

import (
	"context"

	"go.uber.org/zap"
)

// Notifier alerts operators when a sync pass fails. Notification is
// advisory and never affects the sync outcome.
type Notifier interface {
	NotifyFailure(ctx context.Context, syncID string, err error)
}

// LogNotifier is the default notifier; it only writes a structured log
// line. Deployments wire a real alerting channel behind the same
// interface.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyFailure(_ context.Context, syncID string, err error) {
	n.log.Error("menu sync failed",
		zap.String("sync_id", syncID),
		zap.Error(err))
}
