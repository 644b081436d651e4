package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyvewyre/lead-api/internal/entity"
	"github.com/hyvewyre/lead-api/internal/infra/parser"
)

const (
	DNCPageSize     = 50
	dncExportBatch  = 500
	dncRecentWindow = 7 * 24 * time.Hour
)

type DNCUseCase struct {
	Repo entity.DNCRepositoryInterface
	Now  func() time.Time
}

func NewDNCUseCase(repo entity.DNCRepositoryInterface) *DNCUseCase {
	return &DNCUseCase{Repo: repo, Now: time.Now}
}

func (uc *DNCUseCase) Stats(ctx context.Context, userID string) (*entity.DNCStats, error) {
	st, err := uc.Repo.Stats(ctx, userID, uc.Now().Add(-dncRecentWindow))
	if err != nil {
		return nil, dbError("failed to load DNC stats", err)
	}
	if st.ByReason == nil {
		st.ByReason = map[entity.DNCReason]int{}
	}
	return st, nil
}

func (uc *DNCUseCase) List(ctx context.Context, userID, search string, page int) (*DNCListOutput, error) {
	if page < 0 {
		page = 0
	}
	entries, total, err := uc.Repo.List(ctx, userID, strings.TrimSpace(search), DNCPageSize, page*DNCPageSize)
	if err != nil {
		return nil, dbError("failed to list DNC entries", err)
	}
	if entries == nil {
		entries = []*entity.DNCEntry{}
	}
	return &DNCListOutput{
		Entries:  entries,
		Total:    total,
		Page:     page,
		PageSize: DNCPageSize,
		HasNext:  hasNext(page, DNCPageSize, total),
	}, nil
}

// Export renders the whole list as CSV.
func (uc *DNCUseCase) Export(ctx context.Context, userID string) ([]byte, error) {
	records := [][]string{{"phone_number", "normalized_phone", "reason", "source", "notes", "created_at"}}
	for offset := 0; ; offset += dncExportBatch {
		entries, total, err := uc.Repo.List(ctx, userID, "", dncExportBatch, offset)
		if err != nil {
			return nil, dbError("failed to export DNC list", err)
		}
		for _, e := range entries {
			records = append(records, []string{
				e.PhoneNumber, e.NormalizedPhone, string(e.Reason), e.Source, e.Notes,
				e.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		if len(entries) == 0 || offset+len(entries) >= total {
			break
		}
	}

	var buf bytes.Buffer
	if err := parser.WriteCSV(&buf, records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (uc *DNCUseCase) History(ctx context.Context, userID, action, phone string, page int) (*DNCHistoryOutput, error) {
	if page < 0 {
		page = 0
	}
	a := entity.DNCAction(action)
	if a != "" && !a.Valid() {
		return nil, validationFailed([]ValidationError{{"action", "is not a known action"}})
	}
	// partial numbers match anywhere in the stored phone
	phone = entity.PhoneDigits(phone)

	hist, total, err := uc.Repo.History(ctx, entity.DNCHistoryFilter{
		UserID: userID,
		Action: a,
		Phone:  phone,
		Limit:  DNCPageSize,
		Offset: page * DNCPageSize,
	})
	if err != nil {
		return nil, dbError("failed to load DNC history", err)
	}
	if hist == nil {
		hist = []*entity.DNCHistoryEntry{}
	}
	return &DNCHistoryOutput{
		History:  hist,
		Total:    total,
		Page:     page,
		PageSize: DNCPageSize,
		HasNext:  hasNext(page, DNCPageSize, total),
	}, nil
}

func (uc *DNCUseCase) Add(ctx context.Context, userID string, in DNCAddInput) (*entity.DNCEntry, error) {
	e, err := entity.NewDNCEntry(userID, strings.TrimSpace(in.PhoneNumber), entity.DNCReason(in.Reason), in.Source, in.Notes)
	if err != nil {
		return nil, validationFailed([]ValidationError{{"phone_number", err.Error()}})
	}
	if err := uc.Repo.Add(ctx, e); err != nil {
		if errors.Is(err, entity.ErrDNCExists) {
			return nil, &DomainError{Code: CodeDNCExists, Message: entity.ErrDNCExists.Error()}
		}
		return nil, dbError("failed to add DNC entry", err)
	}
	return e, nil
}

// BulkAdd adds every valid number. Numbers already listed, or repeated in
// the request, are counted as skipped.
func (uc *DNCUseCase) BulkAdd(ctx context.Context, userID string, in DNCBulkAddInput) (*DNCBulkAddOutput, error) {
	reason := entity.DNCReason(in.Reason)
	if reason != "" && !reason.Valid() {
		return nil, validationFailed([]ValidationError{{"reason", "is not a known reason"}})
	}

	out := &DNCBulkAddOutput{}
	seen := make(map[string]bool, len(in.PhoneNumbers))
	entries := make([]*entity.DNCEntry, 0, len(in.PhoneNumbers))
	for _, p := range in.PhoneNumbers {
		e, err := entity.NewDNCEntry(userID, strings.TrimSpace(p), reason, in.Source, "")
		if err != nil {
			out.Invalid++
			continue
		}
		if seen[e.NormalizedPhone] {
			out.Skipped++
			continue
		}
		seen[e.NormalizedPhone] = true
		entries = append(entries, e)
	}

	if len(entries) > 0 {
		n, err := uc.Repo.BulkAdd(ctx, userID, entries)
		if err != nil {
			return nil, dbError("failed to bulk add DNC entries", err)
		}
		out.Added = n
		out.Skipped += len(entries) - n
	}
	return out, nil
}

func (uc *DNCUseCase) Remove(ctx context.Context, userID, phone string) error {
	normalized := entity.NormalizePhone(phone)
	if normalized == "" {
		return validationFailed([]ValidationError{{"phone_number", "is required"}})
	}
	if err := uc.Repo.Remove(ctx, userID, normalized); err != nil {
		if errors.Is(err, entity.ErrDNCNotFound) {
			return notFound(entity.ErrDNCNotFound.Error())
		}
		return dbError("failed to remove DNC entry", err)
	}
	return nil
}

// Check reports whether phone is blocked and records the lookup in history.
func (uc *DNCUseCase) Check(ctx context.Context, userID, phone string) (*DNCCheckOutput, error) {
	normalized := entity.NormalizePhone(phone)
	if normalized == "" {
		return nil, validationFailed([]ValidationError{{"phone_number", "is required"}})
	}

	out := &DNCCheckOutput{}
	e, err := uc.Repo.FindByPhone(ctx, userID, normalized)
	switch {
	case err == nil:
		out.Blocked = true
		out.Entry = e
	case errors.Is(err, entity.ErrDNCNotFound):
	default:
		return nil, dbError("failed to check DNC list", err)
	}

	h := entity.NewDNCHistoryEntry(userID, normalized, entity.DNCActionChecked,
		map[string]string{"blocked": fmt.Sprint(out.Blocked)})
	if err := uc.Repo.AppendHistory(ctx, h); err != nil {
		return nil, dbError("failed to record DNC check", err)
	}
	return out, nil
}

func hasNext(page, pageSize, total int) bool {
	return (page+1)*pageSize < total
}
