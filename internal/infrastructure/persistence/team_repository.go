package persistence

import (
	"context"
	"time"

	"github.com/assetdesk/backend/internal/domain/audit"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/domain/team"
	"github.com/assetdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeamRepository implements team.Repository using GORM
type GormTeamRepository struct {
	db *gorm.DB
}

// NewGormTeamRepository creates a new GormTeamRepository
func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

// FindByID finds a team by its ID
func (r *GormTeamRepository) FindByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	var model models.TeamModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, "Team")
	}
	return model.ToDomain(), nil
}

// Save creates or updates a team
func (r *GormTeamRepository) Save(ctx context.Context, t *team.Team) error {
	return r.db.WithContext(ctx).Save(models.TeamModelFromDomain(t)).Error
}

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append stores an entry, ignoring one with an existing id
func (r *GormAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(models.AuditEntryModelFromDomain(entry)).Error
}

// FindByAggregate lists the entries of one aggregate, oldest first
func (r *GormAuditRepository) FindByAggregate(ctx context.Context, teamID uuid.UUID, aggregateType string, aggregateID uuid.UUID) ([]audit.Entry, error) {
	var rows []models.AuditEntryModel
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND aggregate_type = ? AND aggregate_id = ?", teamID, aggregateType, aggregateID).
		Order("occurred_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(rows), nil
}

// FindForTeam lists a team's entries, newest first. Filters: event_type, aggregate_type.
func (r *GormAuditRepository) FindForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) ([]audit.Entry, error) {
	query := r.db.WithContext(ctx).Where("team_id = ?", teamID)
	for key, value := range filter.Filters {
		switch key {
		case "event_type":
			query = query.Where("event_type = ?", value)
		case "aggregate_type":
			query = query.Where("aggregate_type = ?", value)
		}
	}
	query = query.Order("occurred_at DESC, id DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.AuditEntryModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(rows), nil
}

// PurgeBefore deletes entries older than cutoff
func (r *GormAuditRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("occurred_at < ?", cutoff).Delete(&models.AuditEntryModel{})
	return result.RowsAffected, result.Error
}

func toDomainEntries(rows []models.AuditEntryModel) []audit.Entry {
	entries := make([]audit.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries
}

// Compile-time interface compliance checks
var _ team.Repository = (*GormTeamRepository)(nil)
var _ audit.Repository = (*GormAuditRepository)(nil)
