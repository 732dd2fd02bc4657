package attachment

import (
	"context"
	"errors"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/assetdesk/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Deletion reasons carried on AdditionalFileDeletedEvent
const (
	ReasonUnlinked = "unlinked"
	ReasonDeleted  = "deleted"
)

// ReconcileResult lists what a Reconcile call changed
type ReconcileResult struct {
	Added   []uuid.UUID
	Removed []uuid.UUID
	Deleted []uuid.UUID
}

// Manager owns the lifecycle of additional files: the records, their links
// to assets and kits, linked_count and blob cleanup. Every method that
// takes Repositories must run inside the caller's transaction, and the
// caller must pass the same Batch to Settle once the transaction ends.
type Manager struct {
	blobs          BlobStore
	policies       Policies
	logger         *zap.Logger
	metrics        MetricsRecorder
	eventPublisher shared.EventPublisher
}

// NewManager creates a new Manager
func NewManager(blobs BlobStore, policies Policies, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		blobs:    blobs,
		policies: policies,
		logger:   logger.Named("attachment"),
		metrics:  nopRecorder{},
	}
}

// SetEventPublisher sets the publisher used by Settle
func (m *Manager) SetEventPublisher(publisher shared.EventPublisher) {
	m.eventPublisher = publisher
}

// SetMetrics sets the metrics recorder
func (m *Manager) SetMetrics(metrics MetricsRecorder) {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	m.metrics = metrics
}

// Policies returns the upload policies
func (m *Manager) Policies() Policies {
	return m.policies
}

// URL returns the download URL of a blob, or "" for an empty key
func (m *Manager) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	url, err := m.blobs.URL(ctx, key)
	if err != nil {
		return "", shared.NewStorageError("url", err)
	}
	return url, nil
}

// Create stores the upload and creates a pool file record with the given
// linked_count, without attaching it to anything.
func (m *Manager) Create(
	ctx context.Context,
	repos Repositories,
	batch *Batch,
	teamID uuid.UUID,
	up Upload,
	initialLinkedCount int,
) (*inventory.AdditionalFile, error) {
	contentType, err := m.policies.File.Validate(up)
	if err != nil {
		return nil, err
	}

	id := shared.NewID()
	key := inventory.FileKey(teamID, id, up.Name)
	file, err := inventory.NewAdditionalFileWithID(id, teamID, key, up.Name, contentType, up.Size, up.Description, initialLinkedCount)
	if err != nil {
		return nil, err
	}

	if err := m.put(ctx, batch, key, contentType, up); err != nil {
		return nil, err
	}
	if err := repos.FileRepo().Save(ctx, file); err != nil {
		return nil, err
	}
	batch.Collect(file)

	m.metrics.FileStored(ctx, teamID, up.Size)
	return file, nil
}

// CreateAndAttach stores the upload, creates the record with
// initialLinkedCount and attaches it to the owner.
func (m *Manager) CreateAndAttach(
	ctx context.Context,
	repos Repositories,
	batch *Batch,
	owner inventory.AttachmentOwner,
	up Upload,
	initialLinkedCount int,
) (*inventory.AdditionalFile, error) {
	file, err := m.Create(ctx, repos, batch, owner.OwnerTeamID(), up, initialLinkedCount)
	if err != nil {
		return nil, err
	}
	if err := repos.AttachmentRepo().Attach(ctx, owner, file.ID); err != nil {
		return nil, err
	}
	batch.Record(inventory.NewAdditionalFileLinkedEvent(file, owner))
	m.metrics.FilesLinked(ctx, owner.OwnerTeamID(), 1)

	logger.Enrich(ctx, m.logger).Info("file uploaded and attached",
		zap.String("file_id", file.ID.String()),
		zap.String("owner_type", string(owner.OwnerType())),
		zap.String("owner_id", owner.OwnerID().String()),
	)
	return file, nil
}

// LinkExisting attaches a pool file to the owner and increments its
// linked_count. It reports false when the file was already attached.
func (m *Manager) LinkExisting(
	ctx context.Context,
	repos Repositories,
	batch *Batch,
	owner inventory.AttachmentOwner,
	fileID uuid.UUID,
) (bool, error) {
	file, err := m.lockOne(ctx, repos, fileID)
	if err != nil {
		return false, err
	}
	if file.TeamID != owner.OwnerTeamID() {
		return false, shared.NewCrossTeamError(resourceFile)
	}

	attached, err := repos.AttachmentRepo().Exists(ctx, owner, fileID)
	if err != nil {
		return false, err
	}
	if attached {
		return false, nil
	}

	if err := repos.AttachmentRepo().Attach(ctx, owner, fileID); err != nil {
		return false, err
	}
	if err := repos.FileRepo().AdjustLinkedCount(ctx, []uuid.UUID{fileID}, 1); err != nil {
		return false, err
	}
	file.Link()
	batch.Record(inventory.NewAdditionalFileLinkedEvent(file, owner))
	m.metrics.FilesLinked(ctx, owner.OwnerTeamID(), 1)
	return true, nil
}

// Reconcile moves the owner's attachments from current to exactly desired.
// Every touched file is locked in id order, counts move by one per link
// change, and removed files left with no owners are deleted. Any touched
// id without a file row fails the whole call with NotFound.
func (m *Manager) Reconcile(
	ctx context.Context,
	repos Repositories,
	batch *Batch,
	owner inventory.AttachmentOwner,
	current, desired []uuid.UUID,
) (*ReconcileResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "attachment.reconcile",
		attribute.String("owner_type", string(owner.OwnerType())),
		attribute.String("owner_id", owner.OwnerID().String()),
	)
	result, err := m.reconcile(ctx, repos, batch, owner, current, desired)
	telemetry.EndSpan(span, err)
	return result, err
}

func (m *Manager) reconcile(
	ctx context.Context,
	repos Repositories,
	batch *Batch,
	owner inventory.AttachmentOwner,
	current, desired []uuid.UUID,
) (*ReconcileResult, error) {
	toAdd, toRemove := inventory.FileSetDiff(current, desired)
	result := &ReconcileResult{Added: toAdd, Removed: toRemove}
	if len(toAdd) == 0 && len(toRemove) == 0 {
		return result, nil
	}

	touched := append(append([]uuid.UUID{}, toAdd...), toRemove...)
	files, err := m.lock(ctx, repos, touched)
	if err != nil {
		return nil, err
	}

	for _, id := range touched {
		if _, ok := files[id]; !ok {
			return nil, shared.NewNotFoundError(resourceFile)
		}
	}
	for _, id := range toAdd {
		if files[id].TeamID != owner.OwnerTeamID() {
			return nil, shared.NewCrossTeamError(resourceFile)
		}
	}

	fileRepo := repos.FileRepo()
	if err := fileRepo.AdjustLinkedCount(ctx, toAdd, 1); err != nil {
		return nil, err
	}
	if err := fileRepo.AdjustLinkedCount(ctx, toRemove, -1); err != nil {
		return nil, err
	}
	if err := repos.AttachmentRepo().Replace(ctx, owner, inventory.UniqueIDs(desired)); err != nil {
		return nil, err
	}

	for _, id := range toAdd {
		file := files[id]
		file.Link()
		batch.Record(inventory.NewAdditionalFileLinkedEvent(file, owner))
	}
	for _, id := range toRemove {
		file := files[id]
		orphaned := file.Unlink()
		batch.Record(inventory.NewAdditionalFileDetachedEvent(file, owner))
		if !orphaned {
			continue
		}
		if err := m.deleteFile(ctx, repos, batch, file, ReasonUnlinked); err != nil {
			return nil, err
		}
		result.Deleted = append(result.Deleted, id)
	}

	m.metrics.FilesLinked(ctx, owner.OwnerTeamID(), len(toAdd))
	m.metrics.FilesDetached(ctx, owner.OwnerTeamID(), len(toRemove))

	logger.Enrich(ctx, m.logger).Info("attachments reconciled",
		zap.String("owner_type", string(owner.OwnerType())),
		zap.String("owner_id", owner.OwnerID().String()),
		zap.Int("added", len(result.Added)),
		zap.Int("removed", len(result.Removed)),
		zap.Int("deleted", len(result.Deleted)),
	)
	return result, nil
}

// Detach removes one link and decrements linked_count. With deletePhysical
// a file left with no owners is deleted along with its blob. It reports
// whether the file was deleted.
func (m *Manager) Detach(
	ctx context.Context,
	repos Repositories,
	batch *Batch,
	owner inventory.AttachmentOwner,
	fileID uuid.UUID,
	deletePhysical bool,
) (bool, error) {
	file, err := m.lockOne(ctx, repos, fileID)
	if err != nil {
		return false, err
	}
	if file.TeamID != owner.OwnerTeamID() {
		return false, shared.NewNotFoundError(resourceAttachment)
	}

	existed, err := repos.AttachmentRepo().Detach(ctx, owner, fileID)
	if err != nil {
		return false, err
	}
	if !existed {
		return false, shared.NewNotFoundError(resourceAttachment)
	}
	if err := repos.FileRepo().AdjustLinkedCount(ctx, []uuid.UUID{fileID}, -1); err != nil {
		return false, err
	}

	orphaned := file.Unlink()
	batch.Record(inventory.NewAdditionalFileDetachedEvent(file, owner))
	m.metrics.FilesDetached(ctx, owner.OwnerTeamID(), 1)

	if !deletePhysical || !orphaned {
		return false, nil
	}
	if err := m.deleteFile(ctx, repos, batch, file, ReasonUnlinked); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteUnconditional deletes a pool file whatever its linked_count. Every
// link row of the file is removed first; the detached owners are returned.
func (m *Manager) DeleteUnconditional(
	ctx context.Context,
	repos Repositories,
	batch *Batch,
	teamID, fileID uuid.UUID,
) ([]inventory.OwnerRef, error) {
	ctx, span := telemetry.StartSpan(ctx, "attachment.delete", attribute.String("file_id", fileID.String()))
	owners, err := m.deleteUnconditional(ctx, repos, batch, teamID, fileID)
	telemetry.EndSpan(span, err)
	return owners, err
}

func (m *Manager) deleteUnconditional(
	ctx context.Context,
	repos Repositories,
	batch *Batch,
	teamID, fileID uuid.UUID,
) ([]inventory.OwnerRef, error) {
	file, err := m.lockOne(ctx, repos, fileID)
	if err != nil {
		return nil, err
	}
	if file.TeamID != teamID {
		return nil, shared.NewNotFoundError(resourceFile)
	}

	rows, err := repos.AttachmentRepo().DetachAllForFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	owners := make([]inventory.OwnerRef, 0, len(rows))
	for _, row := range rows {
		owner := inventory.NewOwnerRef(row.OwnerType, row.OwnerID, file.TeamID)
		owners = append(owners, owner)
		batch.Record(inventory.NewAdditionalFileDetachedEvent(file, owner))
	}

	if err := repos.FileRepo().Delete(ctx, fileID); err != nil {
		return nil, err
	}
	file.MarkDeleted(ReasonDeleted)
	batch.Collect(file)
	batch.Release(file.FilePath)
	m.metrics.FilesDetached(ctx, teamID, len(rows))
	m.metrics.FilesDeleted(ctx, teamID, 1)

	logger.Enrich(ctx, m.logger).Info("file deleted",
		zap.String("file_id", fileID.String()),
		zap.Int("detached_owners", len(owners)),
	)
	return owners, nil
}

// ReplaceImage stores a new image under namespace and releases current.
// The new blob is written first so a failed upload leaves current intact.
func (m *Manager) ReplaceImage(
	ctx context.Context,
	batch *Batch,
	namespace string,
	teamID uuid.UUID,
	current string,
	up Upload,
) (string, error) {
	policy := m.policies.Image
	if namespace == NamespaceTeamLogos {
		policy = m.policies.Logo
	}
	contentType, err := policy.Validate(up)
	if err != nil {
		return "", err
	}

	key := ImageKey(namespace, teamID, up.Name)
	if err := m.put(ctx, batch, key, contentType, up); err != nil {
		return "", err
	}
	batch.Release(current)
	return key, nil
}

// Settle finishes a batch once its transaction has ended. On failure the
// blobs written by the batch are removed. On success the released blobs
// are removed and the queued events are published. Blob delete failures
// are logged and skipped.
func (m *Manager) Settle(ctx context.Context, batch *Batch, txErr error) {
	if batch == nil {
		return
	}
	// Cleanup must run even if the request was cancelled
	ctx = context.WithoutCancel(ctx)
	log := logger.Enrich(ctx, m.logger)

	if txErr != nil {
		for _, key := range batch.WrittenKeys() {
			m.deleteBlob(ctx, log, "compensate", key)
		}
		if n := len(batch.WrittenKeys()); n > 0 {
			m.metrics.BlobsCompensated(ctx, n)
			log.Warn("removed blobs of failed transaction", zap.Int("count", n), zap.Error(txErr))
		}
		return
	}

	for _, key := range batch.ReleasedKeys() {
		m.deleteBlob(ctx, log, "release", key)
	}
	if m.eventPublisher != nil && len(batch.Events()) > 0 {
		// Publish errors are logged by the bus
		_ = m.eventPublisher.Publish(ctx, batch.Events()...)
	}
}

// Run executes fn in a transaction and settles the batch afterwards
func (m *Manager) Run(ctx context.Context, scope TransactionScope, fn func(repos Repositories, batch *Batch) error) error {
	batch := NewBatch()
	err := scope.Execute(ctx, func(repos Repositories) error {
		return fn(repos, batch)
	})
	m.Settle(ctx, batch, err)
	return err
}

// ==================== Helper Methods ====================

const (
	resourceFile       = "Additional file"
	resourceAttachment = "Attachment"
)

func (m *Manager) put(ctx context.Context, batch *Batch, key, contentType string, up Upload) error {
	if err := m.blobs.Put(ctx, key, contentType, up.Body, up.Size); err != nil {
		return shared.NewStorageError("put", err)
	}
	batch.Written(key)
	return nil
}

func (m *Manager) deleteBlob(ctx context.Context, log *zap.Logger, op, key string) {
	if err := m.blobs.Delete(ctx, key); err != nil {
		m.metrics.BlobCleanupFailed(ctx, op)
		log.Error("blob cleanup failed",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// lock takes row locks on the files in id order and returns the ones that exist
func (m *Manager) lock(ctx context.Context, repos Repositories, ids []uuid.UUID) (map[uuid.UUID]*inventory.AdditionalFile, error) {
	ids = inventory.UniqueIDs(ids)
	inventory.SortIDs(ids)

	files, err := repos.FileRepo().LockByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*inventory.AdditionalFile, len(files))
	for i := range files {
		if files[i].LinkedCount < 0 {
			return nil, shared.NewIntegrityError("linked_count of file " + files[i].ID.String() + " is negative")
		}
		byID[files[i].ID] = &files[i]
	}
	return byID, nil
}

func (m *Manager) lockOne(ctx context.Context, repos Repositories, id uuid.UUID) (*inventory.AdditionalFile, error) {
	files, err := m.lock(ctx, repos, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	file, ok := files[id]
	if !ok {
		return nil, shared.NewNotFoundError(resourceFile)
	}
	return file, nil
}

// deleteFile removes an orphaned file record and schedules its blob
func (m *Manager) deleteFile(ctx context.Context, repos Repositories, batch *Batch, file *inventory.AdditionalFile, reason string) error {
	stale, err := repos.AttachmentRepo().DetachAllForFile(ctx, file.ID)
	if err != nil {
		return err
	}
	if len(stale) > 0 {
		logger.Enrich(ctx, m.logger).Warn("orphaned file still had link rows",
			zap.String("file_id", file.ID.String()),
			zap.Int("rows", len(stale)),
		)
	}
	if err := repos.FileRepo().Delete(ctx, file.ID); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	file.MarkDeleted(reason)
	batch.Collect(file)
	batch.Release(file.FilePath)
	m.metrics.FilesDeleted(ctx, file.TeamID, 1)
	return nil
}
