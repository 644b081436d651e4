package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyvewyre/lead-api/internal/entity"
)

// SettingsRepository keeps one JSONB document per user.
type SettingsRepository struct {
	DB *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

func (r *SettingsRepository) Get(ctx context.Context, userID string) (*entity.Settings, error) {
	var raw []byte
	err := r.DB.QueryRowContext(ctx, `SELECT data FROM user_settings WHERE user_id = $1`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSettingsNotFound
	}
	if err != nil {
		return nil, err
	}

	var s entity.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	s.UserID = userID
	return &s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *entity.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`, s.UserID, raw, s.UpdatedAt)
	return err
}
