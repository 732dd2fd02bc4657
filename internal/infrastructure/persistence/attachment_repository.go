package persistence

import (
	"context"
	"fmt"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAttachmentRepository implements AttachmentRepository over the
// asset_additional_files and kit_additional_files tables
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a new GormAttachmentRepository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// attachmentTable returns the link table and owner column of an owner type
func attachmentTable(ownerType inventory.OwnerType) (table, ownerColumn string, err error) {
	switch ownerType {
	case inventory.OwnerTypeAsset:
		return "asset_additional_files", "asset_id", nil
	case inventory.OwnerTypeKit:
		return "kit_additional_files", "kit_id", nil
	default:
		return "", "", shared.NewValidationError("INVALID_OWNER_TYPE", fmt.Sprintf("unknown attachment owner type %q", ownerType))
	}
}

func attachmentModel(ownerType inventory.OwnerType) interface{} {
	if ownerType == inventory.OwnerTypeKit {
		return &models.KitAdditionalFileModel{}
	}
	return &models.AssetAdditionalFileModel{}
}

func newAttachmentRow(owner inventory.AttachmentOwner, fileID uuid.UUID) interface{} {
	if owner.OwnerType() == inventory.OwnerTypeKit {
		return &models.KitAdditionalFileModel{KitID: owner.OwnerID(), AdditionalFileID: fileID}
	}
	return &models.AssetAdditionalFileModel{AssetID: owner.OwnerID(), AdditionalFileID: fileID}
}

// ListFileIDs returns the ids of files attached to the owner
func (r *GormAttachmentRepository) ListFileIDs(ctx context.Context, owner inventory.AttachmentOwner) ([]uuid.UUID, error) {
	table, ownerCol, err := attachmentTable(owner.OwnerType())
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Table(table).
		Where(ownerCol+" = ?", owner.OwnerID()).
		Order("additional_file_id ASC").
		Pluck("additional_file_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Exists reports whether the owner has the file attached
func (r *GormAttachmentRepository) Exists(ctx context.Context, owner inventory.AttachmentOwner, fileID uuid.UUID) (bool, error) {
	table, ownerCol, err := attachmentTable(owner.OwnerType())
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Table(table).
		Where(ownerCol+" = ? AND additional_file_id = ?", owner.OwnerID(), fileID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Attach creates the link row, ignoring an existing one
func (r *GormAttachmentRepository) Attach(ctx context.Context, owner inventory.AttachmentOwner, fileID uuid.UUID) error {
	if _, _, err := attachmentTable(owner.OwnerType()); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(newAttachmentRow(owner, fileID)).Error
}

// Detach removes the link row and reports whether one existed
func (r *GormAttachmentRepository) Detach(ctx context.Context, owner inventory.AttachmentOwner, fileID uuid.UUID) (bool, error) {
	_, ownerCol, err := attachmentTable(owner.OwnerType())
	if err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).
		Where(ownerCol+" = ? AND additional_file_id = ?", owner.OwnerID(), fileID).
		Delete(attachmentModel(owner.OwnerType()))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Replace makes the owner's link rows exactly fileIDs. Rows that stay keep
// their identity and timestamps.
func (r *GormAttachmentRepository) Replace(ctx context.Context, owner inventory.AttachmentOwner, fileIDs []uuid.UUID) error {
	_, ownerCol, err := attachmentTable(owner.OwnerType())
	if err != nil {
		return err
	}
	desired := inventory.UniqueIDs(fileIDs)

	del := r.db.WithContext(ctx).Where(ownerCol+" = ?", owner.OwnerID())
	if len(desired) > 0 {
		del = del.Where("additional_file_id NOT IN ?", desired)
	}
	if err := del.Delete(attachmentModel(owner.OwnerType())).Error; err != nil {
		return err
	}

	current, err := r.ListFileIDs(ctx, owner)
	if err != nil {
		return err
	}
	toAdd, _ := inventory.FileSetDiff(current, desired)
	for _, id := range toAdd {
		if err := r.Attach(ctx, owner, id); err != nil {
			return err
		}
	}
	return nil
}

// DetachAllForFile removes every link row of the file and returns them
func (r *GormAttachmentRepository) DetachAllForFile(ctx context.Context, fileID uuid.UUID) ([]inventory.Attachment, error) {
	db := r.db.WithContext(ctx)

	var assetRows []models.AssetAdditionalFileModel
	if err := db.Where("additional_file_id = ?", fileID).Find(&assetRows).Error; err != nil {
		return nil, err
	}
	var kitRows []models.KitAdditionalFileModel
	if err := db.Where("additional_file_id = ?", fileID).Find(&kitRows).Error; err != nil {
		return nil, err
	}

	if err := db.Where("additional_file_id = ?", fileID).Delete(&models.AssetAdditionalFileModel{}).Error; err != nil {
		return nil, err
	}
	if err := db.Where("additional_file_id = ?", fileID).Delete(&models.KitAdditionalFileModel{}).Error; err != nil {
		return nil, err
	}

	removed := make([]inventory.Attachment, 0, len(assetRows)+len(kitRows))
	for i := range assetRows {
		removed = append(removed, assetRows[i].ToDomain())
	}
	for i := range kitRows {
		removed = append(removed, kitRows[i].ToDomain())
	}
	return removed, nil
}

// CountForFile counts link rows across both owner types
func (r *GormAttachmentRepository) CountForFile(ctx context.Context, fileID uuid.UUID) (int64, error) {
	var assets, kits int64
	if err := r.db.WithContext(ctx).Model(&models.AssetAdditionalFileModel{}).
		Where("additional_file_id = ?", fileID).Count(&assets).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.KitAdditionalFileModel{}).
		Where("additional_file_id = ?", fileID).Count(&kits).Error; err != nil {
		return 0, err
	}
	return assets + kits, nil
}

var _ inventory.AttachmentRepository = (*GormAttachmentRepository)(nil)
