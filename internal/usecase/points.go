package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hyvewyre/lead-api/internal/entity"
	"github.com/hyvewyre/lead-api/internal/events"
)

type PointsUseCase struct {
	Repo     entity.PointsRepositoryInterface
	Settings *SettingsUseCase
	Events   *events.Bus
	Now      func() time.Time
}

func NewPointsUseCase(repo entity.PointsRepositoryInterface, settings *SettingsUseCase, bus *events.Bus) *PointsUseCase {
	return &PointsUseCase{Repo: repo, Settings: settings, Events: bus, Now: time.Now}
}

func (uc *PointsUseCase) Balance(ctx context.Context, userID string) (*PointsOutput, error) {
	b, err := uc.Repo.Balance(ctx, userID)
	if err != nil {
		return nil, dbError("failed to load points balance", err)
	}
	return &PointsOutput{Balance: b}, nil
}

// Spend debits amount. If auto refill is on and the balance falls below the
// threshold, the refill amount is credited right away.
func (uc *PointsUseCase) Spend(ctx context.Context, userID string, amount int, reason string) (*PointsOutput, error) {
	if amount <= 0 {
		return nil, validationFailed([]ValidationError{{"amount", "must be greater than zero"}})
	}
	if reason == "" {
		reason = "spend"
	}

	balance, err := uc.Repo.Adjust(ctx, userID, -amount, reason)
	if err != nil {
		if errors.Is(err, entity.ErrInsufficientPoints) {
			return nil, &DomainError{Code: CodeInsufficient, Message: err.Error()}
		}
		return nil, dbError("failed to spend points", err)
	}
	uc.publish(userID, balance, -amount, reason, false)

	out := &PointsOutput{Balance: balance}

	if uc.Settings == nil {
		return out, nil
	}
	s, err := uc.Settings.Get(ctx, userID)
	if err != nil {
		slog.Warn("auto refill skipped, settings unavailable", "user_id", userID, "err", err)
		return out, nil
	}
	ar := s.AutoRefill
	if !ar.Enabled || ar.RefillPoints <= 0 || balance >= ar.ThresholdPoints {
		return out, nil
	}

	refilled, err := uc.Repo.Adjust(ctx, userID, ar.RefillPoints, "auto_refill")
	if err != nil {
		slog.Error("auto refill failed", "user_id", userID, "err", err)
		return out, nil
	}
	uc.publish(userID, refilled, ar.RefillPoints, "auto_refill", true)
	out.Balance = refilled
	out.Refilled = true
	return out, nil
}

func (uc *PointsUseCase) publish(userID string, balance, delta int, reason string, refilled bool) {
	if uc.Events == nil {
		return
	}
	uc.Events.PointsUpdated.Publish(events.PointsUpdated{
		UserID:   userID,
		Balance:  balance,
		Delta:    delta,
		Reason:   reason,
		At:       uc.Now().UTC(),
		Refilled: refilled,
	})
}
