package inventory

import (
	"context"
	"errors"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssetService handles asset writes and reads. Each write runs in one
// transaction; file changes go through the attachment manager.
type AssetService struct {
	scope   TransactionScope
	files   *attachment.Manager
	readers Readers
	logger  *zap.Logger
}

// NewAssetService creates a new AssetService
func NewAssetService(scope TransactionScope, files *attachment.Manager, readers Readers, logger *zap.Logger) *AssetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetService{
		scope:   scope,
		files:   files,
		readers: readers,
		logger:  logger.Named("asset_service"),
	}
}

// Create creates an asset with its tags, image, files and custom values
func (s *AssetService) Create(ctx context.Context, teamID uuid.UUID, req CreateAssetRequest) (*AssetResponse, error) {
	if err := s.readers.checkReferences(ctx, teamID, req.CategoryID, req.LocationID, req.TagIDs); err != nil {
		return nil, err
	}
	asset, err := inventory.NewAsset(teamID, req.fields())
	if err != nil {
		return nil, err
	}
	asset.SetTags(req.TagIDs)

	values, err := s.readers.planCustomValues(ctx, asset.CategoryID, req.CustomFields, true)
	if err != nil {
		return nil, err
	}

	err = runInTransaction(ctx, s.scope, s.files, func(repos TransactionalRepositories, batch *attachment.Batch) error {
		if req.Image != nil {
			key, err := s.files.ReplaceImage(ctx, batch, attachment.NamespaceAssets, teamID, "", *req.Image)
			if err != nil {
				return err
			}
			asset.SetImage(key)
		}
		if err := repos.AssetRepo().Save(ctx, asset); err != nil {
			return err
		}
		if err := applyFileIntents(ctx, s.files, repos, batch, asset, fileIntents{
			existing: req.ExistingFileIDs,
			uploads:  req.NewFiles,
		}, s.logger); err != nil {
			return err
		}
		if err := values.apply(ctx, repos.CustomFieldValueRepo(), asset); err != nil {
			return err
		}
		batch.Collect(asset)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("asset created", zap.String("asset_id", asset.ID.String()))
	return s.GetByID(ctx, teamID, asset.ID)
}

// Update applies fields, image, tags, file intents and custom values to an asset
func (s *AssetService) Update(ctx context.Context, teamID, assetID uuid.UUID, req UpdateAssetRequest) (*AssetResponse, error) {
	var tagIDs []uuid.UUID
	if req.TagIDs != nil {
		tagIDs = *req.TagIDs
	}
	if err := s.readers.checkReferences(ctx, teamID, req.CategoryID, req.LocationID, tagIDs); err != nil {
		return nil, err
	}

	var values *customValuePlan
	if req.CustomFields != nil {
		var err error
		values, err = s.readers.planCustomValues(ctx, req.CategoryID, req.CustomFields, true)
		if err != nil {
			return nil, err
		}
	}

	err := runInTransaction(ctx, s.scope, s.files, func(repos TransactionalRepositories, batch *attachment.Batch) error {
		asset, err := repos.AssetRepo().FindByIDForTeam(ctx, teamID, assetID)
		if err != nil {
			return err
		}
		if err := asset.Update(req.fields()); err != nil {
			return err
		}
		if req.Image != nil {
			key, err := s.files.ReplaceImage(ctx, batch, attachment.NamespaceAssets, teamID, asset.Image, *req.Image)
			if err != nil {
				return err
			}
			asset.SetImage(key)
		}
		if req.TagIDs != nil {
			asset.SetTags(*req.TagIDs)
		}
		if err := repos.AssetRepo().Save(ctx, asset); err != nil {
			return err
		}
		if err := applyFileIntents(ctx, s.files, repos, batch, asset, fileIntents{
			selected: req.SelectedFileIDs,
			remove:   req.RemoveFileIDs,
			uploads:  req.NewFiles,
		}, s.logger); err != nil {
			return err
		}
		if err := values.apply(ctx, repos.CustomFieldValueRepo(), asset); err != nil {
			return err
		}
		batch.Collect(asset)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("asset updated", zap.String("asset_id", assetID.String()))
	return s.GetByID(ctx, teamID, assetID)
}

// Destroy deletes an asset. Its tag, membership, attachment and custom
// value rows go with it, and kits that contained it lose one from
// asset_count. linked_count of its files is left as it was.
func (s *AssetService) Destroy(ctx context.Context, teamID, assetID uuid.UUID) error {
	err := runInTransaction(ctx, s.scope, s.files, func(repos TransactionalRepositories, batch *attachment.Batch) error {
		asset, err := repos.AssetRepo().FindByIDForTeam(ctx, teamID, assetID)
		if err != nil {
			return err
		}
		kitIDs, err := repos.KitRepo().FindKitIDsByAsset(ctx, assetID)
		if err != nil {
			return err
		}
		inventory.SortIDs(kitIDs)

		if err := repos.AssetRepo().Delete(ctx, teamID, assetID); err != nil {
			return err
		}
		// the link rows cascade with the asset; linked_count of its files stays as it was
		for _, kitID := range kitIDs {
			if err := repos.KitRepo().AdjustAssetCount(ctx, kitID, -1); err != nil {
				return err
			}
		}

		batch.Release(asset.Image)
		asset.MarkDeleted()
		batch.Collect(asset)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Enrich(ctx, s.logger).Info("asset deleted", zap.String("asset_id", assetID.String()))
	return nil
}

// GetByID retrieves an asset with category, location, tags, files, custom values and kits
func (s *AssetService) GetByID(ctx context.Context, teamID, assetID uuid.UUID) (*AssetResponse, error) {
	asset, err := s.readers.Assets.FindByIDForTeam(ctx, teamID, assetID)
	if err != nil {
		return nil, err
	}
	response := ToAssetResponse(asset)
	response.ImageURL, _ = s.files.URL(ctx, asset.Image)

	if asset.CategoryID != nil {
		category, err := s.readers.Categories.FindByIDForTeam(ctx, teamID, *asset.CategoryID)
		switch {
		case err == nil:
			response.Category = &NamedRef{ID: category.ID, Name: category.Name, Color: category.Color}
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}
	if asset.LocationID != nil {
		location, err := s.readers.Locations.FindByIDForTeam(ctx, teamID, *asset.LocationID)
		switch {
		case err == nil:
			response.Location = &NamedRef{ID: location.ID, Name: location.Name}
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}
	if len(asset.TagIDs) > 0 {
		tags, err := s.readers.Tags.FindByIDs(ctx, asset.TagIDs)
		if err != nil {
			return nil, err
		}
		for _, tag := range tags {
			response.Tags = append(response.Tags, NamedRef{ID: tag.ID, Name: tag.Name})
		}
	}

	files, err := s.readers.Files.FindByOwner(ctx, inventory.OwnerTypeAsset, asset.ID)
	if err != nil {
		return nil, err
	}
	response.Files = s.files.ToFileResponses(ctx, files)

	response.CustomFields, err = s.readers.customValueResponses(ctx, asset)
	if err != nil {
		return nil, err
	}

	kitIDs, err := s.readers.Kits.FindKitIDsByAsset(ctx, asset.ID)
	if err != nil {
		return nil, err
	}
	if kitIDs != nil {
		response.KitIDs = kitIDs
	}
	return &response, nil
}

// List lists the team's assets
func (s *AssetService) List(ctx context.Context, teamID uuid.UUID, filter AssetListFilter) ([]AssetListResponse, int64, error) {
	domainFilter := pageFilter(filter.Search, filter.Page, filter.PerPage, filter.OrderBy, filter.OrderDir)
	for key, raw := range map[string]string{
		"category_id": filter.CategoryID,
		"location_id": filter.LocationID,
		"tag_id":      filter.TagID,
	} {
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, 0, shared.NewValidationError("INVALID_FILTER", key+" must be a UUID")
		}
		domainFilter = domainFilter.Where(key, id)
	}
	if filter.Status != "" {
		domainFilter = domainFilter.Where("status", filter.Status)
	}

	assets, err := s.readers.Assets.FindAllForTeam(ctx, teamID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.readers.Assets.CountForTeam(ctx, teamID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AssetListResponse, len(assets))
	for i := range assets {
		responses[i] = ToAssetListResponse(&assets[i])
	}
	return responses, total, nil
}
