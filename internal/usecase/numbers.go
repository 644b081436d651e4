package usecase

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/hyvewyre/lead-api/internal/entity"
	"github.com/hyvewyre/lead-api/internal/infra/integration/telnyx"
)

var areaCodeRe = regexp.MustCompile(`^[2-9]\d{2}$`)

type NumbersUseCase struct {
	Provider NumberProvider
	Settings *SettingsUseCase
}

func NewNumbersUseCase(provider NumberProvider, settings *SettingsUseCase) *NumbersUseCase {
	return &NumbersUseCase{Provider: provider, Settings: settings}
}

func (uc *NumbersUseCase) Search(ctx context.Context, areaCode string) ([]telnyx.AvailableNumber, error) {
	if uc.Provider == nil {
		return nil, &DomainError{Code: CodeNotConfigured, Message: "number provider is not configured"}
	}
	if !areaCodeRe.MatchString(areaCode) {
		return nil, validationFailed([]ValidationError{{"area_code", "must be a 3 digit US area code"}})
	}
	nums, err := uc.Provider.SearchNumbers(ctx, areaCode)
	if err != nil {
		return nil, &TechnicalError{Code: CodeIntegration, Message: "number search failed", Err: err}
	}
	return nums, nil
}

// Claim orders phone from the carrier and records it on the user's settings.
// Claiming a number the user already holds does not place a second order.
func (uc *NumbersUseCase) Claim(ctx context.Context, userID, phone string) (*ClaimOutput, error) {
	if uc.Provider == nil {
		return nil, &DomainError{Code: CodeNotConfigured, Message: "number provider is not configured"}
	}
	normalized := entity.NormalizePhone(phone)
	if len(normalized) < 11 {
		return nil, validationFailed([]ValidationError{{"phone_number", "is invalid"}})
	}

	s, err := uc.Settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, n := range s.ClaimedNumbers {
		if n == normalized {
			return &ClaimOutput{PhoneNumber: normalized, ClaimedNumbers: s.ClaimedNumbers}, nil
		}
	}

	orderID, err := uc.Provider.OrderNumber(ctx, normalized)
	if err != nil {
		return nil, &TechnicalError{Code: CodeIntegration, Message: "number order failed", Err: err}
	}

	s.ClaimedNumbers = append(s.ClaimedNumbers, normalized)
	saved, err := uc.Settings.Save(ctx, userID, s)
	if err != nil {
		slog.Error("number ordered but not recorded", "user_id", userID, "phone", normalized, "order_id", orderID, "err", err)
		return nil, err
	}
	return &ClaimOutput{PhoneNumber: normalized, OrderID: orderID, ClaimedNumbers: saved.ClaimedNumbers}, nil
}
