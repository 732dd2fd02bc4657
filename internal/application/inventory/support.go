package inventory

import (
	"context"
	"errors"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/domain/taxonomy"
	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxPageSize = 100

// Readers holds the repositories used outside write transactions: for
// reference checks before a write and for building responses after it.
type Readers struct {
	Assets       inventory.AssetRepository
	Kits         inventory.KitRepository
	Files        inventory.AdditionalFileRepository
	CustomFields inventory.CustomFieldRepository
	CustomValues inventory.CustomFieldValueRepository
	Categories   taxonomy.CategoryRepository
	Tags         taxonomy.TagRepository
	Locations    taxonomy.LocationRepository
}

// checkReferences verifies that category, location and tags exist and
// belong to the team
func (r Readers) checkReferences(ctx context.Context, teamID uuid.UUID, categoryID, locationID *uuid.UUID, tagIDs []uuid.UUID) error {
	if categoryID != nil && *categoryID != uuid.Nil {
		category, err := r.Categories.FindByID(ctx, *categoryID)
		if err != nil {
			return err
		}
		if category.TeamID != teamID {
			return shared.NewCrossTeamError("Category")
		}
	}
	if locationID != nil && *locationID != uuid.Nil {
		location, err := r.Locations.FindByID(ctx, *locationID)
		if err != nil {
			return err
		}
		if location.TeamID != teamID {
			return shared.NewCrossTeamError("Location")
		}
	}

	tagIDs = inventory.UniqueIDs(tagIDs)
	if len(tagIDs) == 0 {
		return nil
	}
	tags, err := r.Tags.FindByIDs(ctx, tagIDs)
	if err != nil {
		return err
	}
	if len(tags) != len(tagIDs) {
		return shared.NewNotFoundError("Tag")
	}
	for _, tag := range tags {
		if tag.TeamID != teamID {
			return shared.NewCrossTeamError("Tag")
		}
	}
	return nil
}

// customValuePlan is a validated set of custom field values
type customValuePlan struct {
	upserts map[uuid.UUID]string
	deletes []uuid.UUID
}

// planCustomValues validates submitted values against the field
// definitions. Unknown fields are NotFound. Fields that do not apply to the
// owner's category are rejected. With requireAll every required applicable
// field must be present.
func (r Readers) planCustomValues(ctx context.Context, categoryID *uuid.UUID, values map[uuid.UUID]string, requireAll bool) (*customValuePlan, error) {
	plan := &customValuePlan{upserts: make(map[uuid.UUID]string, len(values))}

	if len(values) > 0 {
		ids := make([]uuid.UUID, 0, len(values))
		for id := range values {
			ids = append(ids, id)
		}
		fields, err := r.CustomFields.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if len(fields) != len(inventory.UniqueIDs(ids)) {
			return nil, shared.NewNotFoundError("Custom field")
		}
		for i := range fields {
			field := &fields[i]
			if !field.AppliesTo(categoryID) {
				return nil, shared.NewValidationError("CUSTOM_FIELD_NOT_APPLICABLE", field.Name+" does not apply here")
			}
			v, err := field.ValidateValue(values[field.ID])
			if err != nil {
				return nil, err
			}
			if v == "" {
				plan.deletes = append(plan.deletes, field.ID)
				continue
			}
			plan.upserts[field.ID] = v
		}
	}

	if !requireAll {
		return plan, nil
	}
	active, err := r.CustomFields.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	for i := range active {
		field := &active[i]
		if !field.Required || !field.AppliesTo(categoryID) {
			continue
		}
		if _, ok := plan.upserts[field.ID]; !ok {
			return nil, shared.NewValidationError("CUSTOM_FIELD_REQUIRED", field.Name+" is required")
		}
	}
	return plan, nil
}

func (p *customValuePlan) apply(ctx context.Context, repo inventory.CustomFieldValueRepository, owner inventory.AttachmentOwner) error {
	if p == nil {
		return nil
	}
	for fieldID, v := range p.upserts {
		if err := repo.Upsert(ctx, &inventory.CustomFieldValue{
			OwnerType:     owner.OwnerType(),
			OwnerID:       owner.OwnerID(),
			CustomFieldID: fieldID,
			Value:         v,
		}); err != nil {
			return err
		}
	}
	for _, fieldID := range p.deletes {
		if err := repo.Delete(ctx, owner.OwnerType(), owner.OwnerID(), fieldID); err != nil {
			return err
		}
	}
	return nil
}

// customValueResponses lists an owner's values with their field names
func (r Readers) customValueResponses(ctx context.Context, owner inventory.AttachmentOwner) ([]CustomFieldValueResponse, error) {
	values, err := r.CustomValues.ListByOwner(ctx, owner.OwnerType(), owner.OwnerID())
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return []CustomFieldValueResponse{}, nil
	}

	ids := make([]uuid.UUID, len(values))
	for i, v := range values {
		ids[i] = v.CustomFieldID
	}
	fields, err := r.CustomFields.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*inventory.CustomField, len(fields))
	for i := range fields {
		byID[fields[i].ID] = &fields[i]
	}

	responses := make([]CustomFieldValueResponse, 0, len(values))
	for _, v := range values {
		resp := CustomFieldValueResponse{CustomFieldID: v.CustomFieldID, Value: v.Value}
		if field, ok := byID[v.CustomFieldID]; ok {
			resp.Name = field.Name
			resp.Type = string(field.Type)
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// fileIntents are the file changes of an aggregate write
type fileIntents struct {
	existing []uuid.UUID
	selected *[]uuid.UUID
	remove   []uuid.UUID
	uploads  []attachment.Upload
}

// applyFileIntents applies file changes to an owner in this order:
// reconcile to the selected set, detach the removal list, link existing
// pool files, attach new uploads. Removal entries that are already gone are
// logged and skipped.
func applyFileIntents(
	ctx context.Context,
	files *attachment.Manager,
	repos attachment.Repositories,
	batch *attachment.Batch,
	owner inventory.AttachmentOwner,
	intents fileIntents,
	log *zap.Logger,
) error {
	if intents.selected != nil {
		current, err := repos.AttachmentRepo().ListFileIDs(ctx, owner)
		if err != nil {
			return err
		}
		if _, err := files.Reconcile(ctx, repos, batch, owner, current, *intents.selected); err != nil {
			return err
		}
	}

	for _, fileID := range inventory.UniqueIDs(intents.remove) {
		if _, err := files.Detach(ctx, repos, batch, owner, fileID, true); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				logger.Enrich(ctx, log).Info("file to remove is not attached, skipping",
					zap.String("file_id", fileID.String()),
					zap.String("owner_id", owner.OwnerID().String()),
				)
				continue
			}
			return err
		}
	}

	for _, fileID := range inventory.UniqueIDs(intents.existing) {
		if _, err := files.LinkExisting(ctx, repos, batch, owner, fileID); err != nil {
			return err
		}
	}

	for _, up := range intents.uploads {
		if _, err := files.CreateAndAttach(ctx, repos, batch, owner, up, 1); err != nil {
			return err
		}
	}
	return nil
}

// pageFilter builds a normalized domain filter
func pageFilter(search string, page, perPage int, orderBy, orderDir string) shared.Filter {
	return shared.Filter{
		Page:     page,
		PageSize: perPage,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   search,
	}.Normalize(maxPageSize)
}
