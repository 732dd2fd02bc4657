package inventory

import (
	"context"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/assetdesk/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// All repository operations inside fn are committed or rolled back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories an asset
// or kit write touches. All of them share the same database transaction.
//
// The embedded attachment repositories are handed to the attachment
// manager, so file links and linked_count change in the same transaction
// as the owner.
type TransactionalRepositories interface {
	attachment.Repositories
	// AssetRepo returns the asset repository scoped to the current transaction
	AssetRepo() inventory.AssetRepository
	// KitRepo returns the kit repository scoped to the current transaction
	KitRepo() inventory.KitRepository
	// CustomFieldValueRepo returns the custom value repository scoped to the current transaction
	CustomFieldValueRepo() inventory.CustomFieldValueRepository
}

// NoOpTransactionScope runs the function without a transaction.
// This is useful for tests against mocked repositories.
type NoOpTransactionScope struct {
	assetRepo      inventory.AssetRepository
	kitRepo        inventory.KitRepository
	fileRepo       inventory.AdditionalFileRepository
	attachmentRepo inventory.AttachmentRepository
	valueRepo      inventory.CustomFieldValueRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	assetRepo inventory.AssetRepository,
	kitRepo inventory.KitRepository,
	fileRepo inventory.AdditionalFileRepository,
	attachmentRepo inventory.AttachmentRepository,
	valueRepo inventory.CustomFieldValueRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		assetRepo:      assetRepo,
		kitRepo:        kitRepo,
		fileRepo:       fileRepo,
		attachmentRepo: attachmentRepo,
		valueRepo:      valueRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) AssetRepo() inventory.AssetRepository { return s.assetRepo }
func (s *NoOpTransactionScope) KitRepo() inventory.KitRepository     { return s.kitRepo }
func (s *NoOpTransactionScope) FileRepo() inventory.AdditionalFileRepository {
	return s.fileRepo
}
func (s *NoOpTransactionScope) AttachmentRepo() inventory.AttachmentRepository {
	return s.attachmentRepo
}
func (s *NoOpTransactionScope) CustomFieldValueRepo() inventory.CustomFieldValueRepository {
	return s.valueRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

// runInTransaction executes fn in one transaction with a fresh blob batch
// and settles the batch with the transaction's outcome.
func runInTransaction(
	ctx context.Context,
	scope TransactionScope,
	files *attachment.Manager,
	fn func(repos TransactionalRepositories, batch *attachment.Batch) error,
) error {
	batch := attachment.NewBatch()
	err := scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return fn(repos, batch)
	})
	files.Settle(ctx, batch, err)
	return err
}
