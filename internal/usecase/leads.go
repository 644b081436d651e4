package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hyvewyre/lead-api/internal/entity"
	"github.com/hyvewyre/lead-api/internal/events"
	"github.com/hyvewyre/lead-api/internal/infra/parser"
	"github.com/hyvewyre/lead-api/internal/infra/queue"
)

type LeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Cache  SnapshotCache
	Events *events.Bus
	Jobs   JobPublisher
	Now    func() time.Time
}

func NewLeadUseCase(repo entity.LeadRepositoryInterface, cache SnapshotCache, bus *events.Bus, jobs JobPublisher) *LeadUseCase {
	return &LeadUseCase{
		Repo:   repo,
		Cache:  cache,
		Events: bus,
		Jobs:   jobs,
		Now:    time.Now,
	}
}

func (uc *LeadUseCase) List(ctx context.Context, userID string, f LeadFilter) ([]*entity.Lead, error) {
	all, err := uc.all(ctx, userID)
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}

// all returns the user's full lead list, cache first.
func (uc *LeadUseCase) all(ctx context.Context, userID string) ([]*entity.Lead, error) {
	if uc.Cache != nil {
		leads, ok, err := uc.Cache.GetLeads(ctx, userID)
		if err != nil {
			slog.Warn("lead cache read failed", "user_id", userID, "err", err)
		} else if ok {
			return leads, nil
		}
	}

	leads, err := uc.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, dbError("failed to list leads", err)
	}
	ApplyTemperature(leads)

	if uc.Cache != nil {
		if err := uc.Cache.StoreLeads(ctx, userID, leads); err != nil {
			slog.Warn("lead cache write failed", "user_id", userID, "err", err)
		}
	}
	return leads, nil
}

func (uc *LeadUseCase) Get(ctx context.Context, userID, id string) (*entity.Lead, error) {
	l, err := uc.Repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, notFound("lead not found")
		}
		return nil, dbError("failed to load lead", err)
	}
	l.Temperature = TemperatureFor(l.Score)
	return l, nil
}

func (uc *LeadUseCase) Create(ctx context.Context, userID string, in LeadInput) (*entity.Lead, error) {
	if errs := ValidateLeadInput(in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	phone := entity.NormalizePhone(in.Phone)
	existing, err := uc.Repo.FindByPhone(ctx, userID, phone)
	switch {
	case err == nil && existing != nil:
		return nil, leadExists(existing.ID)
	case err != nil && !errors.Is(err, entity.ErrLeadNotFound):
		return nil, dbError("failed to check for duplicate lead", err)
	}

	l := entity.NewLead(userID, "", "", phone)
	applyLeadInput(l, in)

	if err := uc.Repo.Create(ctx, l); err != nil {
		if errors.Is(err, entity.ErrLeadAlreadyExists) {
			// Lost a race with a concurrent insert of the same phone.
			return nil, uc.duplicateOf(ctx, userID, phone)
		}
		return nil, dbError("failed to create lead", err)
	}

	uc.changed(ctx, userID, "create", 1)
	return l, nil
}

// duplicateOf builds LEAD_EXISTS carrying the id of the lead that already
// holds phone. The id is left empty when the lookup fails.
func (uc *LeadUseCase) duplicateOf(ctx context.Context, userID, phone string) error {
	var id string
	if other, err := uc.Repo.FindByPhone(ctx, userID, phone); err == nil && other != nil {
		id = other.ID
	}
	return leadExists(id)
}

// Update replaces the editable fields of a lead with in.
func (uc *LeadUseCase) Update(ctx context.Context, userID, id string, in LeadInput) (*entity.Lead, error) {
	if errs := ValidateLeadInput(in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	l, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	l.Phone = entity.NormalizePhone(in.Phone)
	applyLeadInput(l, in)
	l.UpdatedAt = uc.Now().UTC()

	if err := uc.Repo.Update(ctx, l); err != nil {
		switch {
		case errors.Is(err, entity.ErrLeadAlreadyExists):
			return nil, uc.duplicateOf(ctx, userID, l.Phone)
		case errors.Is(err, entity.ErrLeadNotFound):
			return nil, notFound("lead not found")
		}
		return nil, dbError("failed to update lead", err)
	}

	uc.changed(ctx, userID, "update", 1)
	return l, nil
}

func (uc *LeadUseCase) Delete(ctx context.Context, userID, id string) error {
	if err := uc.Repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return notFound("lead not found")
		}
		return dbError("failed to delete lead", err)
	}
	uc.changed(ctx, userID, "delete", 1)
	return nil
}

var exportHeader = []string{
	"id", "first_name", "last_name", "phone", "email", "state", "zip_code",
	"tags", "status", "disposition", "score", "temperature", "campaign_id", "created_at",
}

// Export renders the selected leads (all leads when none are selected).
func (uc *LeadUseCase) Export(ctx context.Context, userID string, in ExportInput) (*ExportOutput, error) {
	format := strings.ToLower(in.Format)
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		return nil, validationFailed([]ValidationError{{"format", "must be csv or json"}})
	}

	all, err := uc.all(ctx, userID)
	if err != nil {
		return nil, err
	}
	leads := all
	if len(in.LeadIDs) > 0 {
		sel := NewSelection(in.LeadIDs...)
		leads = make([]*entity.Lead, 0, sel.Len())
		for _, l := range all {
			if sel.Has(l.ID) {
				leads = append(leads, l)
			}
		}
	}

	stamp := uc.Now().UTC().Format("20060102-150405")
	if format == "json" {
		body, err := json.Marshal(leads)
		if err != nil {
			return nil, err
		}
		return &ExportOutput{Filename: "leads-" + stamp + ".json", ContentType: "application/json", Body: body}, nil
	}

	records := make([][]string, 0, len(leads)+1)
	records = append(records, exportHeader)
	for _, l := range leads {
		score, campaign := "", ""
		if l.Score != nil {
			score = strconv.Itoa(*l.Score)
		}
		if l.CampaignID != nil {
			campaign = *l.CampaignID
		}
		records = append(records, []string{
			l.ID, l.FirstName, l.LastName, l.Phone, l.Email, l.State, l.ZipCode,
			strings.Join(l.Tags, ","), string(l.Status), string(l.Disposition),
			score, string(TemperatureFor(l.Score)), campaign, l.CreatedAt.Format(time.RFC3339),
		})
	}

	var buf bytes.Buffer
	if err := parser.WriteCSV(&buf, records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return &ExportOutput{Filename: "leads-" + stamp + ".csv", ContentType: "text/csv", Body: buf.Bytes()}, nil
}

// QueueRescore enqueues a scoring job, or scores inline when no broker is
// configured.
func (uc *LeadUseCase) QueueRescore(ctx context.Context, userID string) (*BulkActionOutput, error) {
	if uc.Jobs != nil {
		err := uc.Jobs.PublishJob(ctx, queue.Job{Type: queue.JobRecalculateScores, UserID: userID})
		if err != nil {
			return nil, &TechnicalError{Code: CodeQueue, Message: "failed to enqueue scoring job", Err: err}
		}
		return &BulkActionOutput{Queued: true}, nil
	}
	n, err := uc.RecalculateScores(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BulkActionOutput{UpdatedCount: n}, nil
}

// RecalculateScores rescores every lead of the user.
func (uc *LeadUseCase) RecalculateScores(ctx context.Context, userID string) (int, error) {
	leads, err := uc.Repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, dbError("failed to list leads", err)
	}
	if len(leads) == 0 {
		return 0, nil
	}

	now := uc.Now()
	scores := make(map[string]int, len(leads))
	for _, l := range leads {
		scores[l.ID] = ScoreLead(l, now)
	}

	n, err := uc.Repo.UpdateScores(ctx, userID, scores)
	if err != nil {
		return 0, dbError("failed to save scores", err)
	}
	uc.changed(ctx, userID, "rescore", n)
	return n, nil
}

// ApplyReDrip moves the leads into campaignID and resets their drip state.
func (uc *LeadUseCase) ApplyReDrip(ctx context.Context, userID, campaignID string, leadIDs []string) (int, error) {
	n, err := uc.Repo.BulkReDrip(ctx, userID, campaignID, leadIDs)
	if err != nil {
		return 0, dbError("failed to re-drip leads", err)
	}
	uc.changed(ctx, userID, "re_drip", n)
	return n, nil
}

// changed drops the cached list and tells subscribers the user's leads moved.
func (uc *LeadUseCase) changed(ctx context.Context, userID, reason string, count int) {
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

func invalidate(ctx context.Context, c SnapshotCache, userID string) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx, userID); err != nil {
		slog.Warn("cache invalidation failed", "user_id", userID, "err", err)
	}
}

func leadExists(existingID string) error {
	return &DomainError{
		Code:       CodeLeadExists,
		Message:    "a lead with this phone number already exists",
		ExistingID: existingID,
	}
}

func applyLeadInput(l *entity.Lead, in LeadInput) {
	l.FirstName = strings.TrimSpace(in.FirstName)
	l.LastName = strings.TrimSpace(in.LastName)
	l.Email = strings.TrimSpace(in.Email)
	l.State = strings.ToUpper(strings.TrimSpace(in.State))
	l.ZipCode = strings.TrimSpace(in.ZipCode)
	l.Tags = NormalizeTags(in.Tags)
	if in.Status != "" {
		l.Status = entity.LeadStatus(in.Status)
	}
	l.Disposition = entity.Disposition(in.Disposition)
	if in.CampaignID != nil {
		if *in.CampaignID == "" {
			l.CampaignID = nil
		} else {
			id := *in.CampaignID
			l.CampaignID = &id
		}
	}
	if in.AIEnabled != nil {
		l.AIEnabled = *in.AIEnabled
	}
}
