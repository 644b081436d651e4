package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hyvewyre/lead-api/internal/entity"
)

type PointsRepository struct {
	DB *sql.DB
}

func NewPointsRepository(db *sql.DB) *PointsRepository {
	return &PointsRepository{DB: db}
}

// Balance is 0 for users that never had points.
func (r *PointsRepository) Balance(ctx context.Context, userID string) (int, error) {
	var balance int
	err := r.DB.QueryRowContext(ctx, `SELECT balance FROM user_points WHERE user_id = $1`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return balance, err
}

func (r *PointsRepository) Adjust(ctx context.Context, userID string, delta int, reason string) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer rollback(tx)

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_points (user_id, balance) VALUES ($1, 0) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return 0, err
	}

	var balance int
	if err := tx.QueryRowContext(ctx,
		`SELECT balance FROM user_points WHERE user_id = $1 FOR UPDATE`, userID).Scan(&balance); err != nil {
		return 0, err
	}

	next := balance + delta
	if next < 0 {
		return balance, entity.ErrInsufficientPoints
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE user_points SET balance = $2, updated_at = NOW() WHERE user_id = $1`, userID, next); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO points_ledger (user_id, delta, reason, balance_after) VALUES ($1, $2, $3, $4)
	`, userID, delta, reason, next); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return next, nil
}
