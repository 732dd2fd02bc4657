package persistence

import (
	"context"
	"time"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const resourceKit = "Kit"

// GormKitRepository implements KitRepository using GORM
type GormKitRepository struct {
	db *gorm.DB
}

// NewGormKitRepository creates a new GormKitRepository
func NewGormKitRepository(db *gorm.DB) *GormKitRepository {
	return &GormKitRepository{db: db}
}

// ==================== KitReader Interface ====================

// FindByIDForTeam finds a kit by ID within a team
func (r *GormKitRepository) FindByIDForTeam(ctx context.Context, teamID, id uuid.UUID) (*inventory.Kit, error) {
	var model models.KitModel
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND id = ?", teamID, id).
		First(&model).Error; err != nil {
		return nil, notFoundAs(err, resourceKit)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a kit within a team with SELECT ... FOR UPDATE
func (r *GormKitRepository) FindByIDForUpdate(ctx context.Context, teamID, id uuid.UUID) (*inventory.Kit, error) {
	var model models.KitModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("team_id = ? AND id = ?", teamID, id).
		First(&model).Error; err != nil {
		return nil, notFoundAs(err, resourceKit)
	}
	return model.ToDomain(), nil
}

// ==================== KitFinder Interface ====================

// FindAllForTeam lists a team's kits. Filters: status.
func (r *GormKitRepository) FindAllForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) ([]inventory.Kit, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.KitModel{}).Where("team_id = ?", teamID), filter)
	query = applyPageAndOrder(query, filter, KitSortFields, "created_at DESC")

	var kitModels []models.KitModel
	if err := query.Find(&kitModels).Error; err != nil {
		return nil, err
	}
	kits := make([]inventory.Kit, len(kitModels))
	for i := range kitModels {
		kits[i] = *kitModels[i].ToDomain()
	}
	return kits, nil
}

// CountForTeam counts a team's kits matching the filter
func (r *GormKitRepository) CountForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.KitModel{}).Where("team_id = ?", teamID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ==================== KitWriter Interface ====================

// Save creates or updates a kit
func (r *GormKitRepository) Save(ctx context.Context, kit *inventory.Kit) error {
	model := models.KitModelFromDomain(kit)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes the kit row with its membership, attachment and custom value rows
func (r *GormKitRepository) Delete(ctx context.Context, teamID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("kit_id = ?", id).Delete(&models.KitAssetModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("kit_id = ?", id).Delete(&models.KitAdditionalFileModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_type = ? AND owner_id = ?", inventory.OwnerTypeKit, id).
			Delete(&models.CustomFieldValueModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.KitModel{}, "team_id = ? AND id = ?", teamID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError(resourceKit)
		}
		return nil
	})
}

// ==================== KitMembershipRepository Interface ====================

// HasAsset reports whether the asset is a member of the kit
func (r *GormKitRepository) HasAsset(ctx context.Context, kitID, assetID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.KitAssetModel{}).
		Where("kit_id = ? AND asset_id = ?", kitID, assetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddAsset inserts a membership row; an existing row reports false
func (r *GormKitRepository) AddAsset(ctx context.Context, kitID, assetID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.KitAssetModel{KitID: kitID, AssetID: assetID, CreatedAt: time.Now()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RemoveAsset deletes a membership row and reports whether one existed
func (r *GormKitRepository) RemoveAsset(ctx context.Context, kitID, assetID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("kit_id = ? AND asset_id = ?", kitID, assetID).
		Delete(&models.KitAssetModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListAssetIDs returns the members of a kit in insertion order
func (r *GormKitRepository) ListAssetIDs(ctx context.Context, kitID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.KitAssetModel{}).
		Where("kit_id = ?", kitID).
		Order("created_at ASC").
		Pluck("asset_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FindKitIDsByAsset returns the kits containing an asset
func (r *GormKitRepository) FindKitIDsByAsset(ctx context.Context, assetID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.KitAssetModel{}).
		Where("asset_id = ?", assetID).
		Order("kit_id ASC").
		Pluck("kit_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListForTeam returns every membership row of the team's kits
func (r *GormKitRepository) ListForTeam(ctx context.Context, teamID uuid.UUID) ([]inventory.KitMembership, error) {
	var rows []models.KitAssetModel
	if err := r.db.WithContext(ctx).
		Model(&models.KitAssetModel{}).
		Joins("JOIN kits ON kits.id = kit_assets.kit_id").
		Where("kits.team_id = ?", teamID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]inventory.KitMembership, len(rows))
	for i, row := range rows {
		out[i] = inventory.KitMembership{KitID: row.KitID, AssetID: row.AssetID}
	}
	return out, nil
}

// AdjustAssetCount adds delta to asset_count with a floor of zero
func (r *GormKitRepository) AdjustAssetCount(ctx context.Context, kitID uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.KitModel{}).
		Where("id = ?", kitID).
		Updates(map[string]interface{}{
			"asset_count": gorm.Expr("CASE WHEN asset_count + ? < 0 THEN 0 ELSE asset_count + ? END", delta, delta),
			"updated_at":  time.Now(),
		}).Error
}

// CountMembers counts membership rows of a kit
func (r *GormKitRepository) CountMembers(ctx context.Context, kitID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.KitAssetModel{}).
		Where("kit_id = ?", kitID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ==================== Helper Methods ====================

func (r *GormKitRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "name", "custom_id", "description")
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// Compile-time interface compliance checks
var _ inventory.KitRepository = (*GormKitRepository)(nil)
var _ inventory.KitReader = (*GormKitRepository)(nil)
var _ inventory.KitFinder = (*GormKitRepository)(nil)
var _ inventory.KitWriter = (*GormKitRepository)(nil)
var _ inventory.KitMembershipRepository = (*GormKitRepository)(nil)
