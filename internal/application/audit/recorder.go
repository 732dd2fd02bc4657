// Package audit records domain events as an append-only log and serves
// it back per team.
package audit

import (
	"context"

	"github.com/assetdesk/backend/internal/domain/audit"
	"github.com/assetdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Recorder is an event handler that appends every event it receives to
// the audit log
type Recorder struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewRecorder creates a new Recorder
func NewRecorder(repo audit.Repository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger.Named("audit_recorder")}
}

// EventTypes returns nil, subscribing the recorder to all events
func (r *Recorder) EventTypes() []string {
	return nil
}

// Handle stores the event. A redelivered event is stored once.
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	entry, err := audit.NewEntryFromEvent(event)
	if err != nil {
		return err
	}
	if err := r.repo.Append(ctx, entry); err != nil {
		r.logger.Error("failed to append audit entry",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

var _ shared.EventHandler = (*Recorder)(nil)
