package telemetry

import (
	"context"
	"errors"

	"github.com/assetdesk/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AttachmentMetrics counts attachment side effects and event deliveries
type AttachmentMetrics struct {
	storedFiles     metric.Int64Counter
	storedBytes     metric.Int64Counter
	linked          metric.Int64Counter
	detached        metric.Int64Counter
	deleted         metric.Int64Counter
	compensated     metric.Int64Counter
	cleanupFailures metric.Int64Counter
	eventDeliveries metric.Int64Counter
}

// NewAttachmentMetrics creates the instruments on meter
func NewAttachmentMetrics(meter metric.Meter) (*AttachmentMetrics, error) {
	m := &AttachmentMetrics{}
	var errs []error
	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		errs = append(errs, err)
		return c
	}

	m.storedFiles = counter("attachment.files.stored", "Pool files stored", "{file}")
	m.storedBytes = counter("attachment.bytes.stored", "Bytes written to the blob store for pool files", "By")
	m.linked = counter("attachment.links.created", "Owner-file links created", "{link}")
	m.detached = counter("attachment.links.removed", "Owner-file links removed", "{link}")
	m.deleted = counter("attachment.files.deleted", "Pool files deleted", "{file}")
	m.compensated = counter("attachment.blobs.compensated", "Blobs removed after a failed transaction", "{blob}")
	m.cleanupFailures = counter("attachment.blob.cleanup_failures", "Blob deletes that failed and were skipped", "{failure}")
	m.eventDeliveries = counter("events.deliveries", "Domain event handler invocations", "{delivery}")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func teamAttr(teamID uuid.UUID) metric.AddOption {
	return metric.WithAttributes(attribute.String("team_id", teamID.String()))
}

// FileStored counts a stored pool file
func (m *AttachmentMetrics) FileStored(ctx context.Context, teamID uuid.UUID, bytes int64) {
	m.storedFiles.Add(ctx, 1, teamAttr(teamID))
	if bytes > 0 {
		m.storedBytes.Add(ctx, bytes, teamAttr(teamID))
	}
}

// FilesLinked counts created links
func (m *AttachmentMetrics) FilesLinked(ctx context.Context, teamID uuid.UUID, n int) {
	m.linked.Add(ctx, int64(n), teamAttr(teamID))
}

// FilesDetached counts removed links
func (m *AttachmentMetrics) FilesDetached(ctx context.Context, teamID uuid.UUID, n int) {
	m.detached.Add(ctx, int64(n), teamAttr(teamID))
}

// FilesDeleted counts deleted pool files
func (m *AttachmentMetrics) FilesDeleted(ctx context.Context, teamID uuid.UUID, n int) {
	m.deleted.Add(ctx, int64(n), teamAttr(teamID))
}

// BlobsCompensated counts blobs removed after a rollback
func (m *AttachmentMetrics) BlobsCompensated(ctx context.Context, n int) {
	m.compensated.Add(ctx, int64(n))
}

// BlobCleanupFailed counts a skipped blob delete
func (m *AttachmentMetrics) BlobCleanupFailed(ctx context.Context, op string) {
	m.cleanupFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// EventDelivered counts a handler invocation by outcome
func (m *AttachmentMetrics) EventDelivered(ctx context.Context, eventType string, err error) {
	m.eventDeliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.Bool("failed", err != nil),
	))
}

var _ event.DeliveryObserver = (*AttachmentMetrics)(nil)
