package persistence

import (
	"context"

	"github.com/assetdesk/backend/internal/application/attachment"
	appinv "github.com/assetdesk/backend/internal/application/inventory"
	"github.com/assetdesk/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormTransactionScope implements the inventory TransactionScope using
// GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormAttachmentTransactionScope implements the attachment TransactionScope
// for operations on the file pool alone.
type GormAttachmentTransactionScope struct {
	db *gorm.DB
}

// NewGormAttachmentTransactionScope creates a new GormAttachmentTransactionScope.
func NewGormAttachmentTransactionScope(db *gorm.DB) *GormAttachmentTransactionScope {
	return &GormAttachmentTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormAttachmentTransactionScope) Execute(ctx context.Context, fn func(repos attachment.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// AssetRepo returns the asset repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AssetRepo() inventory.AssetRepository {
	return NewGormAssetRepository(r.tx)
}

// KitRepo returns the kit repository scoped to the current transaction.
func (r *gormTransactionalRepositories) KitRepo() inventory.KitRepository {
	return NewGormKitRepository(r.tx)
}

// FileRepo returns the additional file repository scoped to the current transaction.
func (r *gormTransactionalRepositories) FileRepo() inventory.AdditionalFileRepository {
	return NewGormAdditionalFileRepository(r.tx)
}

// AttachmentRepo returns the attachment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AttachmentRepo() inventory.AttachmentRepository {
	return NewGormAttachmentRepository(r.tx)
}

// CustomFieldValueRepo returns the custom value repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CustomFieldValueRepo() inventory.CustomFieldValueRepository {
	return NewGormCustomFieldValueRepository(r.tx)
}

// Ensure the scopes implement their interfaces
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)
var _ attachment.TransactionScope = (*GormAttachmentTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
