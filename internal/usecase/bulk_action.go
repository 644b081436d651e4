package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hyvewyre/lead-api/internal/entity"
	"github.com/hyvewyre/lead-api/internal/events"
	"github.com/hyvewyre/lead-api/internal/infra/queue"
)

type BulkActionUseCase struct {
	Leads     entity.LeadRepositoryInterface
	FollowUps entity.FollowUpRepositoryInterface
	// Jobs is optional; without it re-drip runs inline.
	Jobs   JobPublisher
	Cache  SnapshotCache
	Events *events.Bus
	Now    func() time.Time
}

func NewBulkActionUseCase(
	leads entity.LeadRepositoryInterface,
	followUps entity.FollowUpRepositoryInterface,
	jobs JobPublisher,
	cache SnapshotCache,
	bus *events.Bus,
) *BulkActionUseCase {
	return &BulkActionUseCase{
		Leads:     leads,
		FollowUps: followUps,
		Jobs:      jobs,
		Cache:     cache,
		Events:    bus,
		Now:       time.Now,
	}
}

func (uc *BulkActionUseCase) Execute(ctx context.Context, userID string, in BulkActionInput) (*BulkActionOutput, error) {
	ids := NewSelection(in.LeadIDs...).IDs()
	if len(ids) == 0 {
		return nil, &DomainError{Code: CodeEmptySelection, Message: "no leads selected"}
	}
	if errs := ValidateIDs("lead_ids", ids...); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	var (
		n   int
		err error
	)
	switch in.Action {
	case ActionStatus:
		s := entity.LeadStatus(in.Status)
		if s == "" || !s.Valid() {
			return nil, validationFailed([]ValidationError{{"status", "is not a known status"}})
		}
		n, err = uc.Leads.BulkSetStatus(ctx, userID, ids, s)

	case ActionDisposition:
		d := entity.Disposition(in.Disposition)
		if !d.Valid() {
			return nil, validationFailed([]ValidationError{{"disposition", "is not a known disposition"}})
		}
		n, err = uc.Leads.BulkSetDisposition(ctx, userID, ids, d)

	case ActionAddTags, ActionRemoveTags:
		tags := NormalizeTags(in.Tags)
		if len(tags) == 0 {
			return nil, validationFailed([]ValidationError{{"tags", "must not be empty"}})
		}
		if in.Action == ActionAddTags {
			n, err = uc.Leads.BulkAddTags(ctx, userID, ids, tags)
		} else {
			n, err = uc.Leads.BulkRemoveTags(ctx, userID, ids, tags)
		}

	case ActionReplaceTags:
		remove, add := NormalizeTags(in.RemoveTags), NormalizeTags(in.AddTags)
		if len(remove) == 0 && len(add) == 0 {
			return nil, validationFailed([]ValidationError{{"tags", "remove_tags or add_tags is required"}})
		}
		n, err = uc.Leads.BulkReplaceTags(ctx, userID, ids, remove, add)

	case ActionCreateFollowUps:
		if in.DueAt == nil || in.DueAt.IsZero() {
			return nil, validationFailed([]ValidationError{{"due_at", "is required"}})
		}
		followUps := make([]*entity.FollowUp, 0, len(ids))
		for _, id := range ids {
			followUps = append(followUps, entity.NewFollowUp(userID, id, *in.DueAt, in.Note))
		}
		n, err = uc.FollowUps.CreateMany(ctx, followUps)

	case ActionReDrip:
		if in.CampaignID == "" {
			return nil, validationFailed([]ValidationError{{"campaign_id", "is required"}})
		}
		if errs := ValidateIDs("campaign_id", in.CampaignID); len(errs) > 0 {
			return nil, validationFailed(errs)
		}
		if uc.Jobs != nil {
			job := queue.Job{Type: queue.JobReDrip, UserID: userID, CampaignID: in.CampaignID, LeadIDs: ids}
			if err := uc.Jobs.PublishJob(ctx, job); err != nil {
				return nil, &TechnicalError{Code: CodeQueue, Message: "failed to enqueue re-drip", Err: err}
			}
			return &BulkActionOutput{UpdatedCount: len(ids), Queued: true}, nil
		}
		n, err = uc.Leads.BulkReDrip(ctx, userID, in.CampaignID, ids)

	case ActionAIToggle:
		if in.Enabled == nil {
			return nil, validationFailed([]ValidationError{{"enabled", "is required"}})
		}
		n, err = uc.Leads.BulkSetAIEnabled(ctx, userID, ids, *in.Enabled)
		if err == nil && uc.Events != nil {
			uc.Events.AIToggled.Publish(events.AIToggled{
				UserID:    userID,
				Enabled:   *in.Enabled,
				LeadCount: n,
				At:        uc.Now().UTC(),
			})
		}

	default:
		return nil, &DomainError{Code: CodeUnknownAction, Message: fmt.Sprintf("unknown action %q", in.Action)}
	}

	if err != nil {
		return nil, dbError(fmt.Sprintf("bulk %s failed", in.Action), err)
	}

	uc.changed(ctx, userID, string(in.Action), n)
	return &BulkActionOutput{UpdatedCount: n}, nil
}

func (uc *BulkActionUseCase) Delete(ctx context.Context, userID string, leadIDs []string) (int, error) {
	ids := NewSelection(leadIDs...).IDs()
	if len(ids) == 0 {
		return 0, &DomainError{Code: CodeEmptySelection, Message: "no leads selected"}
	}
	if errs := ValidateIDs("lead_ids", ids...); len(errs) > 0 {
		return 0, validationFailed(errs)
	}
	n, err := uc.Leads.BulkDelete(ctx, userID, ids)
	if err != nil {
		return 0, dbError("bulk delete failed", err)
	}
	uc.changed(ctx, userID, "delete", n)
	return n, nil
}

func (uc *BulkActionUseCase) changed(ctx context.Context, userID, reason string, count int) {
	invalidate(ctx, uc.Cache, userID)
	if uc.Events != nil {
		uc.Events.LeadsChanged.Publish(events.LeadsChanged{
			UserID: userID,
			Reason: reason,
			Count:  count,
			At:     uc.Now().UTC(),
		})
	}
}
