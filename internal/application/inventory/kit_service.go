package inventory

import (
	"context"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KitService handles kit writes, reads and kit membership
type KitService struct {
	scope   TransactionScope
	files   *attachment.Manager
	readers Readers
	logger  *zap.Logger
}

// NewKitService creates a new KitService
func NewKitService(scope TransactionScope, files *attachment.Manager, readers Readers, logger *zap.Logger) *KitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KitService{
		scope:   scope,
		files:   files,
		readers: readers,
		logger:  logger.Named("kit_service"),
	}
}

// Create creates an empty kit with its image, files and custom values
func (s *KitService) Create(ctx context.Context, teamID uuid.UUID, req CreateKitRequest) (*KitResponse, error) {
	kit, err := inventory.NewKit(teamID, req.fields())
	if err != nil {
		return nil, err
	}
	values, err := s.readers.planCustomValues(ctx, nil, req.CustomFields, true)
	if err != nil {
		return nil, err
	}

	err = runInTransaction(ctx, s.scope, s.files, func(repos TransactionalRepositories, batch *attachment.Batch) error {
		if req.Image != nil {
			key, err := s.files.ReplaceImage(ctx, batch, attachment.NamespaceKits, teamID, "", *req.Image)
			if err != nil {
				return err
			}
			kit.SetImage(key)
		}
		if err := repos.KitRepo().Save(ctx, kit); err != nil {
			return err
		}
		if err := applyFileIntents(ctx, s.files, repos, batch, kit, fileIntents{
			existing: req.ExistingFileIDs,
			uploads:  req.NewFiles,
		}, s.logger); err != nil {
			return err
		}
		if err := values.apply(ctx, repos.CustomFieldValueRepo(), kit); err != nil {
			return err
		}
		batch.Collect(kit)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("kit created", zap.String("kit_id", kit.ID.String()))
	return s.GetByID(ctx, teamID, kit.ID)
}

// Update applies fields, image, file intents and custom values to a kit
func (s *KitService) Update(ctx context.Context, teamID, kitID uuid.UUID, req UpdateKitRequest) (*KitResponse, error) {
	var values *customValuePlan
	if req.CustomFields != nil {
		var err error
		values, err = s.readers.planCustomValues(ctx, nil, req.CustomFields, true)
		if err != nil {
			return nil, err
		}
	}

	err := runInTransaction(ctx, s.scope, s.files, func(repos TransactionalRepositories, batch *attachment.Batch) error {
		kit, err := repos.KitRepo().FindByIDForUpdate(ctx, teamID, kitID)
		if err != nil {
			return err
		}
		if err := kit.Update(req.fields()); err != nil {
			return err
		}
		if req.Image != nil {
			key, err := s.files.ReplaceImage(ctx, batch, attachment.NamespaceKits, teamID, kit.Image, *req.Image)
			if err != nil {
				return err
			}
			kit.SetImage(key)
		}
		if err := repos.KitRepo().Save(ctx, kit); err != nil {
			return err
		}
		if err := applyFileIntents(ctx, s.files, repos, batch, kit, fileIntents{
			selected: req.SelectedFileIDs,
			remove:   req.RemoveFileIDs,
			uploads:  req.NewFiles,
		}, s.logger); err != nil {
			return err
		}
		if err := values.apply(ctx, repos.CustomFieldValueRepo(), kit); err != nil {
			return err
		}
		batch.Collect(kit)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("kit updated", zap.String("kit_id", kitID.String()))
	return s.GetByID(ctx, teamID, kitID)
}

// Destroy deletes a kit. Its files are detached through the attachment
// manager, so files left without owners are deleted; its image blob is
// released after commit.
func (s *KitService) Destroy(ctx context.Context, teamID, kitID uuid.UUID) error {
	err := runInTransaction(ctx, s.scope, s.files, func(repos TransactionalRepositories, batch *attachment.Batch) error {
		kit, err := repos.KitRepo().FindByIDForUpdate(ctx, teamID, kitID)
		if err != nil {
			return err
		}
		current, err := repos.AttachmentRepo().ListFileIDs(ctx, kit)
		if err != nil {
			return err
		}
		if _, err := s.files.Reconcile(ctx, repos, batch, kit, current, nil); err != nil {
			return err
		}
		if err := repos.KitRepo().Delete(ctx, teamID, kitID); err != nil {
			return err
		}

		batch.Release(kit.Image)
		kit.MarkDeleted()
		batch.Collect(kit)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Enrich(ctx, s.logger).Info("kit deleted", zap.String("kit_id", kitID.String()))
	return nil
}

// AddAssetToKit makes the asset a member of the kit. Adding a member
// again changes nothing.
func (s *KitService) AddAssetToKit(ctx context.Context, teamID, kitID, assetID uuid.UUID) (*KitMembershipResult, error) {
	result := &KitMembershipResult{KitID: kitID, AssetID: assetID}

	err := runInTransaction(ctx, s.scope, s.files, func(repos TransactionalRepositories, batch *attachment.Batch) error {
		kit, err := repos.KitRepo().FindByIDForUpdate(ctx, teamID, kitID)
		if err != nil {
			return err
		}
		asset, err := repos.AssetRepo().FindByID(ctx, assetID)
		if err != nil {
			return err
		}
		if err := kit.CanContain(asset); err != nil {
			return err
		}

		added, err := repos.KitRepo().AddAsset(ctx, kitID, assetID)
		if err != nil {
			return err
		}
		if added {
			if err := repos.KitRepo().AdjustAssetCount(ctx, kitID, 1); err != nil {
				return err
			}
			kit.AssetAdded(assetID)
			batch.Collect(kit)
		}
		result.Changed = added
		result.AssetCount = kit.AssetCount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveAssetFromKit removes the asset from the kit if it is a member
func (s *KitService) RemoveAssetFromKit(ctx context.Context, teamID, kitID, assetID uuid.UUID) (*KitMembershipResult, error) {
	result := &KitMembershipResult{KitID: kitID, AssetID: assetID}

	err := runInTransaction(ctx, s.scope, s.files, func(repos TransactionalRepositories, batch *attachment.Batch) error {
		kit, err := repos.KitRepo().FindByIDForUpdate(ctx, teamID, kitID)
		if err != nil {
			return err
		}
		removed, err := repos.KitRepo().RemoveAsset(ctx, kitID, assetID)
		if err != nil {
			return err
		}
		if removed {
			if err := repos.KitRepo().AdjustAssetCount(ctx, kitID, -1); err != nil {
				return err
			}
			kit.AssetRemoved(assetID)
			batch.Collect(kit)
		}
		result.Changed = removed
		result.AssetCount = kit.AssetCount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a kit with its assets, files, custom values and the
// team's unavailable assets
func (s *KitService) GetByID(ctx context.Context, teamID, kitID uuid.UUID) (*KitResponse, error) {
	kit, err := s.readers.Kits.FindByIDForTeam(ctx, teamID, kitID)
	if err != nil {
		return nil, err
	}
	response := ToKitResponse(kit)
	response.ImageURL, _ = s.files.URL(ctx, kit.Image)

	assetIDs, err := s.readers.Kits.ListAssetIDs(ctx, kitID)
	if err != nil {
		return nil, err
	}
	if len(assetIDs) > 0 {
		assets, err := s.readers.Assets.FindByIDs(ctx, teamID, assetIDs)
		if err != nil {
			return nil, err
		}
		for i := range assets {
			response.Assets = append(response.Assets, ToAssetListResponse(&assets[i]))
		}
	}

	files, err := s.readers.Files.FindByOwner(ctx, inventory.OwnerTypeKit, kitID)
	if err != nil {
		return nil, err
	}
	response.Files = s.files.ToFileResponses(ctx, files)

	response.CustomFields, err = s.readers.customValueResponses(ctx, kit)
	if err != nil {
		return nil, err
	}

	memberships, err := s.readers.Kits.ListForTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	for _, m := range memberships {
		response.Unavailable = append(response.Unavailable, KitMembershipResponse{KitID: m.KitID, AssetID: m.AssetID})
	}
	return &response, nil
}

// List lists the team's kits
func (s *KitService) List(ctx context.Context, teamID uuid.UUID, filter KitListFilter) ([]KitListResponse, int64, error) {
	domainFilter := pageFilter(filter.Search, filter.Page, filter.PerPage, filter.OrderBy, filter.OrderDir)
	if filter.Status != "" {
		domainFilter = domainFilter.Where("status", filter.Status)
	}

	kits, err := s.readers.Kits.FindAllForTeam(ctx, teamID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.readers.Kits.CountForTeam(ctx, teamID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]KitListResponse, len(kits))
	for i := range kits {
		responses[i] = ToKitListResponse(&kits[i])
	}
	return responses, total, nil
}
