package usecase

import (
	"context"
	"errors"

	"github.com/hyvewyre/lead-api/internal/entity"
)

// CatalogUseCase serves the campaign and tag lists shown next to the leads table.
type CatalogUseCase struct {
	Campaigns entity.CampaignRepositoryInterface
	Tags      entity.TagRepositoryInterface
	Cache     SnapshotCache
}

func NewCatalogUseCase(campaigns entity.CampaignRepositoryInterface, tags entity.TagRepositoryInterface, cache SnapshotCache) *CatalogUseCase {
	return &CatalogUseCase{Campaigns: campaigns, Tags: tags, Cache: cache}
}

func (uc *CatalogUseCase) ListCampaigns(ctx context.Context, userID string) ([]*entity.Campaign, error) {
	list, err := uc.Campaigns.ListByUser(ctx, userID)
	if err != nil {
		return nil, dbError("failed to load campaigns", err)
	}
	return list, nil
}

func (uc *CatalogUseCase) ListTags(ctx context.Context, userID string) ([]entity.Tag, error) {
	list, err := uc.Tags.ListByUser(ctx, userID)
	if err != nil {
		return nil, dbError("failed to load tags", err)
	}
	return list, nil
}

// DeleteCampaign detaches its leads (campaign_id is nulled by the FK) and
// drops the cached lists.
func (uc *CatalogUseCase) DeleteCampaign(ctx context.Context, userID, id string) error {
	if err := uc.Campaigns.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, entity.ErrCampaignNotFound) {
			return notFound("campaign not found")
		}
		return dbError("failed to delete campaign", err)
	}
	invalidate(ctx, uc.Cache, userID)
	return nil
}
