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

const resourceCustomField = "Custom field"

// GormCustomFieldRepository implements CustomFieldRepository using GORM
type GormCustomFieldRepository struct {
	db *gorm.DB
}

// NewGormCustomFieldRepository creates a new GormCustomFieldRepository
func NewGormCustomFieldRepository(db *gorm.DB) *GormCustomFieldRepository {
	return &GormCustomFieldRepository{db: db}
}

// FindByID finds a field with its options and categories
func (r *GormCustomFieldRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.CustomField, error) {
	var model models.CustomFieldModel
	if err := r.preloaded(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, resourceCustomField)
	}
	fields, err := r.toDomainFields(ctx, []models.CustomFieldModel{model})
	if err != nil {
		return nil, err
	}
	return &fields[0], nil
}

// FindByIDs finds the fields with the given ids
func (r *GormCustomFieldRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.CustomField, error) {
	if len(ids) == 0 {
		return []inventory.CustomField{}, nil
	}
	var fieldModels []models.CustomFieldModel
	if err := r.preloaded(ctx).Where("id IN ?", ids).Order("name ASC").Find(&fieldModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainFields(ctx, fieldModels)
}

// FindAll lists field definitions. Filters: type, active.
func (r *GormCustomFieldRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.CustomField, error) {
	query := r.applyFilter(r.preloaded(ctx).Model(&models.CustomFieldModel{}), filter)
	query = applyPageAndOrder(query, filter, CustomFieldSortFields, "name ASC")

	var fieldModels []models.CustomFieldModel
	if err := query.Find(&fieldModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainFields(ctx, fieldModels)
}

// Count counts field definitions matching the filter
func (r *GormCustomFieldRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomFieldModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindActive lists all active fields ordered by name
func (r *GormCustomFieldRepository) FindActive(ctx context.Context) ([]inventory.CustomField, error) {
	var fieldModels []models.CustomFieldModel
	if err := r.preloaded(ctx).Where("active = ?", true).Order("name ASC").Find(&fieldModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainFields(ctx, fieldModels)
}

// Save writes the definition and replaces its options and category links
func (r *GormCustomFieldRepository) Save(ctx context.Context, field *inventory.CustomField) error {
	model := models.CustomFieldModelFromDomain(field)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options").Save(model).Error; err != nil {
			return err
		}

		if err := tx.Where("custom_field_id = ?", field.ID).Delete(&models.CustomFieldOptionModel{}).Error; err != nil {
			return err
		}
		if len(field.Options) > 0 {
			options := make([]models.CustomFieldOptionModel, len(field.Options))
			for i, o := range field.Options {
				options[i] = models.CustomFieldOptionModel{
					ID:            o.ID,
					CustomFieldID: field.ID,
					Value:         o.Value,
					SortOrder:     o.SortOrder,
				}
			}
			if err := tx.Create(&options).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("custom_field_id = ?", field.ID).Delete(&models.CustomFieldCategoryModel{}).Error; err != nil {
			return err
		}
		if len(field.CategoryIDs) > 0 {
			links := make([]models.CustomFieldCategoryModel, len(field.CategoryIDs))
			for i, categoryID := range field.CategoryIDs {
				links[i] = models.CustomFieldCategoryModel{CustomFieldID: field.ID, CategoryID: categoryID}
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a field together with its options, category links and values
func (r *GormCustomFieldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("custom_field_id = ?", id).Delete(&models.CustomFieldValueModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("custom_field_id = ?", id).Delete(&models.CustomFieldOptionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("custom_field_id = ?", id).Delete(&models.CustomFieldCategoryModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CustomFieldModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError(resourceCustomField)
		}
		return nil
	})
}

func (r *GormCustomFieldRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") })
}

func (r *GormCustomFieldRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "name", "description")
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}
	return query
}

func (r *GormCustomFieldRepository) toDomainFields(ctx context.Context, fieldModels []models.CustomFieldModel) ([]inventory.CustomField, error) {
	ids := make([]uuid.UUID, len(fieldModels))
	for i := range fieldModels {
		ids[i] = fieldModels[i].ID
	}
	categories := make(map[uuid.UUID][]uuid.UUID, len(ids))
	if len(ids) > 0 {
		var links []models.CustomFieldCategoryModel
		if err := r.db.WithContext(ctx).
			Where("custom_field_id IN ?", ids).
			Order("category_id ASC").
			Find(&links).Error; err != nil {
			return nil, err
		}
		for _, l := range links {
			categories[l.CustomFieldID] = append(categories[l.CustomFieldID], l.CategoryID)
		}
	}

	fields := make([]inventory.CustomField, len(fieldModels))
	for i := range fieldModels {
		fields[i] = *fieldModels[i].ToDomain(categories[fieldModels[i].ID])
	}
	return fields, nil
}

// GormCustomFieldValueRepository implements CustomFieldValueRepository using GORM
type GormCustomFieldValueRepository struct {
	db *gorm.DB
}

// NewGormCustomFieldValueRepository creates a new GormCustomFieldValueRepository
func NewGormCustomFieldValueRepository(db *gorm.DB) *GormCustomFieldValueRepository {
	return &GormCustomFieldValueRepository{db: db}
}

// ListByOwner returns the owner's values
func (r *GormCustomFieldValueRepository) ListByOwner(ctx context.Context, ownerType inventory.OwnerType, ownerID uuid.UUID) ([]inventory.CustomFieldValue, error) {
	var rows []models.CustomFieldValueModel
	if err := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", string(ownerType), ownerID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	values := make([]inventory.CustomFieldValue, len(rows))
	for i := range rows {
		values[i] = rows[i].ToDomain()
	}
	return values, nil
}

// Upsert inserts the value or updates the existing (owner, field) row
func (r *GormCustomFieldValueRepository) Upsert(ctx context.Context, value *inventory.CustomFieldValue) error {
	now := time.Now()
	if value.ID == uuid.Nil {
		value.ID = shared.NewID()
	}
	if value.CreatedAt.IsZero() {
		value.CreatedAt = now
	}
	value.UpdatedAt = now

	row := &models.CustomFieldValueModel{
		ID:            value.ID,
		OwnerType:     string(value.OwnerType),
		OwnerID:       value.OwnerID,
		CustomFieldID: value.CustomFieldID,
		Value:         value.Value,
		CreatedAt:     value.CreatedAt,
		UpdatedAt:     value.UpdatedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_type"}, {Name: "owner_id"}, {Name: "custom_field_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(row).Error
}

// Delete removes the value for (owner, field); a missing row is not an error
func (r *GormCustomFieldValueRepository) Delete(ctx context.Context, ownerType inventory.OwnerType, ownerID, fieldID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ? AND custom_field_id = ?", string(ownerType), ownerID, fieldID).
		Delete(&models.CustomFieldValueModel{}).Error
}

// Compile-time interface compliance checks
var _ inventory.CustomFieldRepository = (*GormCustomFieldRepository)(nil)
var _ inventory.CustomFieldValueRepository = (*GormCustomFieldValueRepository)(nil)
