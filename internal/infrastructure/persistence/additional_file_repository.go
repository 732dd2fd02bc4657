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

const resourceAdditionalFile = "Additional file"

// GormAdditionalFileRepository implements AdditionalFileRepository using GORM
type GormAdditionalFileRepository struct {
	db *gorm.DB
}

// NewGormAdditionalFileRepository creates a new GormAdditionalFileRepository
func NewGormAdditionalFileRepository(db *gorm.DB) *GormAdditionalFileRepository {
	return &GormAdditionalFileRepository{db: db}
}

// ==================== AdditionalFileReader Interface ====================

// FindByID finds a file by its ID
func (r *GormAdditionalFileRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.AdditionalFile, error) {
	var model models.AdditionalFileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, resourceAdditionalFile)
	}
	return model.ToDomain(), nil
}

// FindByIDForTeam finds a file by ID within a team
func (r *GormAdditionalFileRepository) FindByIDForTeam(ctx context.Context, teamID, id uuid.UUID) (*inventory.AdditionalFile, error) {
	var model models.AdditionalFileModel
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND id = ?", teamID, id).
		First(&model).Error; err != nil {
		return nil, notFoundAs(err, resourceAdditionalFile)
	}
	return model.ToDomain(), nil
}

// FindByOwner lists the files attached to an owner, oldest attachment first
func (r *GormAdditionalFileRepository) FindByOwner(ctx context.Context, ownerType inventory.OwnerType, ownerID uuid.UUID) ([]inventory.AdditionalFile, error) {
	table, ownerCol, err := attachmentTable(ownerType)
	if err != nil {
		return nil, err
	}

	var fileModels []models.AdditionalFileModel
	if err := r.db.WithContext(ctx).
		Table("additional_files").
		Select("additional_files.*").
		Joins("JOIN "+table+" ON "+table+".additional_file_id = additional_files.id").
		Where(table+"."+ownerCol+" = ?", ownerID).
		Order(table + ".created_at ASC").
		Find(&fileModels).Error; err != nil {
		return nil, err
	}
	return toDomainFiles(fileModels), nil
}

// ==================== AdditionalFileFinder Interface ====================

// FindAllForTeam lists the team's file pool. Filters: mime_prefix, orphaned.
func (r *GormAdditionalFileRepository) FindAllForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) ([]inventory.AdditionalFile, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AdditionalFileModel{}).Where("team_id = ?", teamID), filter)
	query = applyPageAndOrder(query, filter, AdditionalFileSortFields, "created_at DESC")

	var fileModels []models.AdditionalFileModel
	if err := query.Find(&fileModels).Error; err != nil {
		return nil, err
	}
	return toDomainFiles(fileModels), nil
}

// CountForTeam counts the team's files matching the filter
func (r *GormAdditionalFileRepository) CountForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AdditionalFileModel{}).Where("team_id = ?", teamID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ==================== AdditionalFileWriter Interface ====================

// LockByIDs loads files with SELECT ... FOR UPDATE in id order
func (r *GormAdditionalFileRepository) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.AdditionalFile, error) {
	ids = inventory.UniqueIDs(ids)
	if len(ids) == 0 {
		return []inventory.AdditionalFile{}, nil
	}

	var fileModels []models.AdditionalFileModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&fileModels).Error; err != nil {
		return nil, err
	}
	return toDomainFiles(fileModels), nil
}

// AdjustLinkedCount adds delta to linked_count with a floor of zero
func (r *GormAdditionalFileRepository) AdjustLinkedCount(ctx context.Context, ids []uuid.UUID, delta int) error {
	ids = inventory.UniqueIDs(ids)
	if len(ids) == 0 || delta == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.AdditionalFileModel{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"linked_count": gorm.Expr("CASE WHEN linked_count + ? < 0 THEN 0 ELSE linked_count + ? END", delta, delta),
			"updated_at":   time.Now(),
		}).Error
}

// Save creates or updates a file record
func (r *GormAdditionalFileRepository) Save(ctx context.Context, file *inventory.AdditionalFile) error {
	model := models.AdditionalFileModelFromDomain(file)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete permanently deletes a file record
func (r *GormAdditionalFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AdditionalFileModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(resourceAdditionalFile)
	}
	return nil
}

// ==================== Helper Methods ====================

func (r *GormAdditionalFileRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "name", "description")
	for key, value := range filter.Filters {
		switch key {
		case "mime_prefix":
			if prefix, ok := value.(string); ok && prefix != "" {
				query = query.Where("mime_type LIKE ?", prefix+"%")
			}
		case "orphaned":
			if orphaned, ok := value.(bool); ok && orphaned {
				query = query.Where("linked_count <= 0")
			}
		}
	}
	return query
}

func toDomainFiles(fileModels []models.AdditionalFileModel) []inventory.AdditionalFile {
	files := make([]inventory.AdditionalFile, len(fileModels))
	for i := range fileModels {
		files[i] = *fileModels[i].ToDomain()
	}
	return files
}

// Compile-time interface compliance checks
var _ inventory.AdditionalFileRepository = (*GormAdditionalFileRepository)(nil)
var _ inventory.AdditionalFileReader = (*GormAdditionalFileRepository)(nil)
var _ inventory.AdditionalFileFinder = (*GormAdditionalFileRepository)(nil)
var _ inventory.AdditionalFileWriter = (*GormAdditionalFileRepository)(nil)
