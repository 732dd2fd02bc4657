package persistence

import (
	"context"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/domain/taxonomy"
	"github.com/assetdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	resourceCategory = "Category"
	resourceTag      = "Tag"
	resourceLocation = "Location"
)

// GormCategoryRepository implements CategoryRepository using GORM.
// Soft deletion uses gorm.DeletedAt, so the default scope hides trashed rows.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a live category regardless of team
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*taxonomy.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, resourceCategory)
	}
	return model.ToDomain(), nil
}

// FindByIDForTeam finds a live category within a team
func (r *GormCategoryRepository) FindByIDForTeam(ctx context.Context, teamID, id uuid.UUID) (*taxonomy.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND id = ?", teamID, id).
		First(&model).Error; err != nil {
		return nil, notFoundAs(err, resourceCategory)
	}
	return model.ToDomain(), nil
}

// FindByIDWithTrashed finds a category within a team including soft deleted rows
func (r *GormCategoryRepository) FindByIDWithTrashed(ctx context.Context, teamID, id uuid.UUID) (*taxonomy.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).
		Unscoped().
		Where("team_id = ? AND id = ?", teamID, id).
		First(&model).Error; err != nil {
		return nil, notFoundAs(err, resourceCategory)
	}
	return model.ToDomain(), nil
}

// FindAllForTeam lists live categories, or only trashed ones
func (r *GormCategoryRepository) FindAllForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter, trashed bool) ([]taxonomy.Category, error) {
	query := r.scoped(ctx, teamID, filter, trashed)
	query = applyPageAndOrder(query, filter, CategorySortFields, "name ASC")

	var categoryModels []models.CategoryModel
	if err := query.Find(&categoryModels).Error; err != nil {
		return nil, err
	}
	categories := make([]taxonomy.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = *categoryModels[i].ToDomain()
	}
	return categories, nil
}

// CountForTeam counts live or trashed categories
func (r *GormCategoryRepository) CountForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter, trashed bool) (int64, error) {
	var count int64
	if err := r.scoped(ctx, teamID, filter, trashed).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a category. Unscoped so trashed rows can be
// restored and trashing writes deleted_at.
func (r *GormCategoryRepository) Save(ctx context.Context, category *taxonomy.Category) error {
	model := models.CategoryModelFromDomain(category)
	return r.db.WithContext(ctx).Unscoped().Save(model).Error
}

func (r *GormCategoryRepository) scoped(ctx context.Context, teamID uuid.UUID, filter shared.Filter, trashed bool) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.CategoryModel{})
	if trashed {
		query = query.Unscoped().Where("deleted_at IS NOT NULL")
	}
	query = query.Where("team_id = ?", teamID)
	return applySearch(query, filter.Search, "name", "description")
}

// GormTagRepository implements TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GormTagRepository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// FindByIDForTeam finds a tag within a team
func (r *GormTagRepository) FindByIDForTeam(ctx context.Context, teamID, id uuid.UUID) (*taxonomy.Tag, error) {
	var model models.TagModel
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND id = ?", teamID, id).
		First(&model).Error; err != nil {
		return nil, notFoundAs(err, resourceTag)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds tags by id regardless of team
func (r *GormTagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]taxonomy.Tag, error) {
	if len(ids) == 0 {
		return []taxonomy.Tag{}, nil
	}
	var tagModels []models.TagModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&tagModels).Error; err != nil {
		return nil, err
	}
	return toDomainTags(tagModels), nil
}

// FindAllForTeam lists a team's tags
func (r *GormTagRepository) FindAllForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) ([]taxonomy.Tag, error) {
	query := applySearch(r.db.WithContext(ctx).Model(&models.TagModel{}).Where("team_id = ?", teamID), filter.Search, "name", "description")
	query = applyPageAndOrder(query, filter, TagSortFields, "name ASC")

	var tagModels []models.TagModel
	if err := query.Find(&tagModels).Error; err != nil {
		return nil, err
	}
	return toDomainTags(tagModels), nil
}

// CountForTeam counts a team's tags
func (r *GormTagRepository) CountForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&models.TagModel{}).Where("team_id = ?", teamID), filter.Search, "name", "description")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a tag
func (r *GormTagRepository) Save(ctx context.Context, tag *taxonomy.Tag) error {
	return r.db.WithContext(ctx).Save(models.TagModelFromDomain(tag)).Error
}

// DeleteForTeam deletes a tag and its asset links
func (r *GormTagRepository) DeleteForTeam(ctx context.Context, teamID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.TagModel{}, "team_id = ? AND id = ?", teamID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError(resourceTag)
		}
		return tx.Where("tag_id = ?", id).Delete(&models.AssetTagModel{}).Error
	})
}

func toDomainTags(tagModels []models.TagModel) []taxonomy.Tag {
	tags := make([]taxonomy.Tag, len(tagModels))
	for i := range tagModels {
		tags[i] = *tagModels[i].ToDomain()
	}
	return tags
}

// GormLocationRepository implements LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a location regardless of team
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*taxonomy.Location, error) {
	var model models.LocationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, resourceLocation)
	}
	return model.ToDomain(), nil
}

// FindByIDForTeam finds a location within a team
func (r *GormLocationRepository) FindByIDForTeam(ctx context.Context, teamID, id uuid.UUID) (*taxonomy.Location, error) {
	var model models.LocationModel
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND id = ?", teamID, id).
		First(&model).Error; err != nil {
		return nil, notFoundAs(err, resourceLocation)
	}
	return model.ToDomain(), nil
}

// FindAllForTeam lists a team's locations
func (r *GormLocationRepository) FindAllForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) ([]taxonomy.Location, error) {
	query := applySearch(r.db.WithContext(ctx).Model(&models.LocationModel{}).Where("team_id = ?", teamID), filter.Search, "name", "description", "address")
	query = applyPageAndOrder(query, filter, LocationSortFields, "name ASC")

	var locationModels []models.LocationModel
	if err := query.Find(&locationModels).Error; err != nil {
		return nil, err
	}
	locations := make([]taxonomy.Location, len(locationModels))
	for i := range locationModels {
		locations[i] = *locationModels[i].ToDomain()
	}
	return locations, nil
}

// CountForTeam counts a team's locations
func (r *GormLocationRepository) CountForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&models.LocationModel{}).Where("team_id = ?", teamID), filter.Search, "name", "description", "address")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, location *taxonomy.Location) error {
	return r.db.WithContext(ctx).Save(models.LocationModelFromDomain(location)).Error
}

// DeleteForTeam deletes a location and clears it from the team's assets
func (r *GormLocationRepository) DeleteForTeam(ctx context.Context, teamID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AssetModel{}).
			Where("team_id = ? AND location_id = ?", teamID, id).
			Update("location_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.LocationModel{}, "team_id = ? AND id = ?", teamID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError(resourceLocation)
		}
		return nil
	})
}

// Compile-time interface compliance checks
var _ taxonomy.CategoryRepository = (*GormCategoryRepository)(nil)
var _ taxonomy.TagRepository = (*GormTagRepository)(nil)
var _ taxonomy.LocationRepository = (*GormLocationRepository)(nil)
