package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/hyvewyre/lead-api/internal/entity"
)

type SettingsUseCase struct {
	Repo             entity.SettingsRepositoryInterface
	DefaultInference entity.NameInference
	Now              func() time.Time
}

func NewSettingsUseCase(repo entity.SettingsRepositoryInterface, defaultInference entity.NameInference) *SettingsUseCase {
	return &SettingsUseCase{Repo: repo, DefaultInference: defaultInference, Now: time.Now}
}

// Get returns the stored settings, or defaults when the user never saved any.
func (uc *SettingsUseCase) Get(ctx context.Context, userID string) (*entity.Settings, error) {
	s, err := uc.Repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrSettingsNotFound) {
			return uc.defaults(userID), nil
		}
		return nil, dbError("failed to load settings", err)
	}
	if s.ClaimedNumbers == nil {
		s.ClaimedNumbers = []string{}
	}
	return s, nil
}

// Save validates and stores the whole settings object.
func (uc *SettingsUseCase) Save(ctx context.Context, userID string, s *entity.Settings) (*entity.Settings, error) {
	s.UserID = userID
	if s.ClaimedNumbers == nil {
		s.ClaimedNumbers = []string{}
	}
	if s.NameInference == "" {
		s.NameInference = uc.defaults(userID).NameInference
	}
	if errs := ValidateSettings(s); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	s.UpdatedAt = uc.Now().UTC()

	if err := uc.Repo.Save(ctx, s); err != nil {
		return nil, dbError("failed to save settings", err)
	}
	return s, nil
}

func (uc *SettingsUseCase) GetQuietHours(ctx context.Context, userID string) (*entity.QuietHours, error) {
	s, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &s.QuietHours, nil
}

func (uc *SettingsUseCase) SaveQuietHours(ctx context.Context, userID string, q entity.QuietHours) (*entity.QuietHours, error) {
	if err := q.Validate(); err != nil {
		return nil, validationFailed([]ValidationError{{"quiet_hours", err.Error()}})
	}
	s, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.QuietHours = q
	saved, err := uc.Save(ctx, userID, s)
	if err != nil {
		return nil, err
	}
	return &saved.QuietHours, nil
}

func (uc *SettingsUseCase) defaults(userID string) *entity.Settings {
	s := entity.DefaultSettings(userID)
	if uc.DefaultInference.Valid() {
		s.NameInference = uc.DefaultInference
	}
	return s
}
