package persistence

import (
	"context"
	"time"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const resourceAsset = "Asset"

// GormAssetRepository implements AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// ==================== AssetReader Interface ====================

// FindByID finds an asset by its ID
func (r *GormAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Asset, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, resourceAsset)
	}
	return r.withTags(ctx, &model)
}

// FindByIDForTeam finds an asset by ID within a team
func (r *GormAssetRepository) FindByIDForTeam(ctx context.Context, teamID, id uuid.UUID) (*inventory.Asset, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND id = ?", teamID, id).
		First(&model).Error; err != nil {
		return nil, notFoundAs(err, resourceAsset)
	}
	return r.withTags(ctx, &model)
}

// FindByIDs finds the team's assets with the given ids
func (r *GormAssetRepository) FindByIDs(ctx context.Context, teamID uuid.UUID, ids []uuid.UUID) ([]inventory.Asset, error) {
	if len(ids) == 0 {
		return []inventory.Asset{}, nil
	}
	var assetModels []models.AssetModel
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND id IN ?", teamID, ids).
		Order("name ASC").
		Find(&assetModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainAssets(ctx, assetModels)
}

// ==================== AssetFinder Interface ====================

// FindAllForTeam lists a team's assets
func (r *GormAssetRepository) FindAllForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) ([]inventory.Asset, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AssetModel{}).Where("team_id = ?", teamID), filter)
	query = applyPageAndOrder(query, filter, AssetSortFields, "created_at DESC")

	var assetModels []models.AssetModel
	if err := query.Find(&assetModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainAssets(ctx, assetModels)
}

// CountForTeam counts a team's assets matching the filter
func (r *GormAssetRepository) CountForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AssetModel{}).Where("team_id = ?", teamID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ==================== AssetWriter Interface ====================

// Save creates or updates an asset and replaces its tag rows
func (r *GormAssetRepository) Save(ctx context.Context, asset *inventory.Asset) error {
	model := models.AssetModelFromDomain(asset)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", asset.ID).Delete(&models.AssetTagModel{}).Error; err != nil {
			return err
		}
		tagIDs := inventory.UniqueIDs(asset.TagIDs)
		if len(tagIDs) == 0 {
			return nil
		}
		now := time.Now()
		rows := make([]models.AssetTagModel, len(tagIDs))
		for i, tagID := range tagIDs {
			rows[i] = models.AssetTagModel{AssetID: asset.ID, TagID: tagID, CreatedAt: now}
		}
		return tx.Create(&rows).Error
	})
}

// Delete removes tag links and the asset row. Membership, attachment and
// custom value rows are removed with it; linked_count on the attached
// files is left as is.
func (r *GormAssetRepository) Delete(ctx context.Context, teamID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("asset_id = ?", id).Delete(&models.AssetTagModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", id).Delete(&models.KitAssetModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", id).Delete(&models.AssetAdditionalFileModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_type = ? AND owner_id = ?", inventory.OwnerTypeAsset, id).
			Delete(&models.CustomFieldValueModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.AssetModel{}, "team_id = ? AND id = ?", teamID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError(resourceAsset)
		}
		return nil
	})
}

// ==================== Helper Methods ====================

func (r *GormAssetRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "name", "custom_id", "description")
	for key, value := range filter.Filters {
		switch key {
		case "category_id":
			query = query.Where("category_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "tag_id":
			query = query.Where("id IN (?)", r.db.Model(&models.AssetTagModel{}).Select("asset_id").Where("tag_id = ?", value))
		}
	}
	return query
}

func (r *GormAssetRepository) withTags(ctx context.Context, model *models.AssetModel) (*inventory.Asset, error) {
	tags, err := r.loadTags(ctx, []uuid.UUID{model.ID})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(tags[model.ID]), nil
}

func (r *GormAssetRepository) toDomainAssets(ctx context.Context, assetModels []models.AssetModel) ([]inventory.Asset, error) {
	ids := make([]uuid.UUID, len(assetModels))
	for i := range assetModels {
		ids[i] = assetModels[i].ID
	}
	tags, err := r.loadTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	assets := make([]inventory.Asset, len(assetModels))
	for i := range assetModels {
		assets[i] = *assetModels[i].ToDomain(tags[assetModels[i].ID])
	}
	return assets, nil
}

func (r *GormAssetRepository) loadTags(ctx context.Context, assetIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(assetIDs))
	if len(assetIDs) == 0 {
		return out, nil
	}
	var rows []models.AssetTagModel
	if err := r.db.WithContext(ctx).
		Where("asset_id IN ?", assetIDs).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AssetID] = append(out[row.AssetID], row.TagID)
	}
	return out, nil
}

// Compile-time interface compliance checks
var _ inventory.AssetRepository = (*GormAssetRepository)(nil)
var _ inventory.AssetReader = (*GormAssetRepository)(nil)
var _ inventory.AssetFinder = (*GormAssetRepository)(nil)
var _ inventory.AssetWriter = (*GormAssetRepository)(nil)
