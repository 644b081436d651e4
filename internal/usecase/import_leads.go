package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hyvewyre/lead-api/internal/entity"
	"github.com/hyvewyre/lead-api/internal/events"
)

type ImportLeadsUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Campaigns entity.CampaignRepositoryInterface
	Tags      entity.TagRepositoryInterface
	DNC       entity.DNCRepositoryInterface
	Settings  entity.SettingsRepositoryInterface
	Cache     SnapshotCache
	Events    *events.Bus
	Notifier  ImportNotifier

	DefaultInference entity.NameInference
	Now              func() time.Time
}

func NewImportLeadsUseCase(
	leads entity.LeadRepositoryInterface,
	campaigns entity.CampaignRepositoryInterface,
	tags entity.TagRepositoryInterface,
	dnc entity.DNCRepositoryInterface,
	settings entity.SettingsRepositoryInterface,
	cache SnapshotCache,
	bus *events.Bus,
	notifier ImportNotifier,
	defaultInference entity.NameInference,
) *ImportLeadsUseCase {
	return &ImportLeadsUseCase{
		Leads:            leads,
		Campaigns:        campaigns,
		Tags:             tags,
		DNC:              dnc,
		Settings:         settings,
		Cache:            cache,
		Events:           bus,
		Notifier:         notifier,
		DefaultInference: defaultInference,
		Now:              time.Now,
	}
}

func (uc *ImportLeadsUseCase) Execute(ctx context.Context, in ImportInput) (*ImportOutput, error) {
	if in.UserID == "" {
		return nil, validationFailed([]ValidationError{{"user_id", "is required"}})
	}
	if len(in.Rows) == 0 {
		return nil, validationFailed([]ValidationError{{"rows", "must not be empty"}})
	}
	if in.Mapping == nil {
		in.Mapping = Mapping{}
	}
	if err := in.Mapping.Validate(in.Columns); err != nil {
		return nil, err
	}
	if !in.Mapping.Has(FieldPhone) {
		return nil, &DomainError{Code: CodeBadMapping, Message: "a column must be mapped to phone"}
	}

	settings := uc.loadSettings(ctx, in.UserID)
	strategy := settings.NameInference
	if strategy == "" {
		strategy = uc.DefaultInference
	}

	rows := TransformRows(in.Rows, in.Mapping, TransformOptions{
		NameInference: strategy,
		ExtraTags:     in.Tags,
	})

	out := &ImportOutput{}
	candidates := make([]ImportRow, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		switch {
		case r.Phone == "":
			out.Invalid++
		case seen[r.Phone]:
			out.Duplicates++
		default:
			seen[r.Phone] = true
			candidates = append(candidates, r)
		}
	}

	keep, err := uc.skipDNC(ctx, in.UserID, candidates, out)
	if err != nil {
		return nil, err
	}

	var campaign *entity.Campaign
	if strings.TrimSpace(in.CampaignName) != "" {
		campaign, err = entity.NewCampaign(in.UserID, in.CampaignName, NormalizeTags(in.Tags))
		if err != nil {
			return nil, validationFailed([]ValidationError{{"campaign_name", err.Error()}})
		}
	}

	leads := make([]*entity.Lead, 0, len(keep))
	for _, r := range keep {
		l := entity.NewLead(in.UserID, r.FirstName, r.LastName, r.Phone)
		l.Email = r.Email
		l.State = r.State
		l.ZipCode = r.ZipCode
		l.Tags = r.Tags
		l.Status = r.Status
		if r.UnknownStatus != "" {
			out.UnknownStatus++
			l.Tags = mergeTags(l.Tags, []string{r.UnknownStatus})
		}
		if campaign != nil {
			id := campaign.ID
			l.CampaignID = &id
		}
		leads = append(leads, l)
	}

	tx := NewTransaction()
	if campaign != nil {
		tx.AddOperation("create_campaign", func(ctx context.Context) error {
			return uc.Campaigns.Create(ctx, campaign)
		})
		tx.AddCompensation("delete_campaign", func(ctx context.Context) error {
			return uc.Campaigns.Delete(ctx, in.UserID, campaign.ID)
		})
	}
	if len(leads) > 0 {
		tx.AddOperation("upsert_leads", func(ctx context.Context) error {
			n, err := uc.Leads.BulkUpsert(ctx, in.UserID, leads)
			out.Imported = n
			return err
		})
	}
	if err := tx.Execute(ctx); err != nil {
		return nil, dbError("import failed", err)
	}
	if campaign != nil {
		out.CampaignID = campaign.ID
	}

	snap, err := uc.refresh(ctx, in.UserID)
	if err != nil {
		slog.Warn("post-import refresh failed", "user_id", in.UserID, "err", err)
	} else {
		out.Refreshed = true
		out.Snapshot = snap
	}

	if uc.Events != nil {
		uc.Events.LeadsChanged.Publish(events.LeadsChanged{
			UserID: in.UserID,
			Reason: "import",
			Count:  out.Imported,
			At:     uc.Now().UTC(),
		})
	}

	uc.notify(settings, in.CampaignName, out)

	slog.Info("import finished",
		"user_id", in.UserID,
		"imported", out.Imported,
		"duplicates", out.Duplicates,
		"invalid", out.Invalid,
		"dnc_skipped", out.DNCSkipped,
		"unknown_status", out.UnknownStatus,
	)
	return out, nil
}

// skipDNC drops rows whose phone is on the user's DNC list and records a
// "blocked" history entry for each.
func (uc *ImportLeadsUseCase) skipDNC(ctx context.Context, userID string, rows []ImportRow, out *ImportOutput) ([]ImportRow, error) {
	if len(rows) == 0 || uc.DNC == nil {
		return rows, nil
	}

	phones := make([]string, len(rows))
	for i, r := range rows {
		phones[i] = r.Phone
	}
	blocked, err := uc.DNC.ContainsAny(ctx, userID, phones)
	if err != nil {
		return nil, dbError("failed to check DNC list", err)
	}

	keep := make([]ImportRow, 0, len(rows))
	var history []*entity.DNCHistoryEntry
	for _, r := range rows {
		if blocked[r.Phone] {
			out.DNCSkipped++
			history = append(history, entity.NewDNCHistoryEntry(userID, r.Phone, entity.DNCActionBlocked,
				map[string]string{"source": "import"}))
			continue
		}
		keep = append(keep, r)
	}

	if len(history) > 0 {
		if err := uc.DNC.AppendHistory(ctx, history...); err != nil {
			slog.Warn("failed to record blocked DNC history", "user_id", userID, "count", len(history), "err", err)
		}
	}
	return keep, nil
}

// refresh reloads leads, campaigns and tags in sequence. Nothing is cached
// unless all three loads succeed.
func (uc *ImportLeadsUseCase) refresh(ctx context.Context, userID string) (*entity.Snapshot, error) {
	leads, err := uc.Leads.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	campaigns, err := uc.Campaigns.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	tags, err := uc.Tags.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ApplyTemperature(leads)
	snap := &entity.Snapshot{
		UserID:      userID,
		Leads:       leads,
		Campaigns:   campaigns,
		Tags:        tags,
		RefreshedAt: uc.Now().UTC(),
	}

	if uc.Cache != nil {
		if err := uc.Cache.StoreSnapshot(ctx, snap); err != nil {
			slog.Warn("failed to cache import snapshot", "user_id", userID, "err", err)
		}
	}
	return snap, nil
}

func (uc *ImportLeadsUseCase) loadSettings(ctx context.Context, userID string) *entity.Settings {
	// Unsaved settings leave name inference to the service default.
	fallback := entity.DefaultSettings(userID)
	fallback.NameInference = ""
	if uc.Settings == nil {
		return fallback
	}
	s, err := uc.Settings.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, entity.ErrSettingsNotFound) {
			slog.Warn("failed to load settings, using defaults", "user_id", userID, "err", err)
		}
		return fallback
	}
	return s
}

func (uc *ImportLeadsUseCase) notify(s *entity.Settings, campaignName string, out *ImportOutput) {
	if uc.Notifier == nil || s.NotificationEmail == "" {
		return
	}
	if err := uc.Notifier.SendImportSummary(s.NotificationEmail, campaignName,
		out.Imported, out.Duplicates, out.Invalid, out.DNCSkipped); err != nil {
		slog.Warn("failed to send import summary", "to", s.NotificationEmail, "err", err)
	}
}
