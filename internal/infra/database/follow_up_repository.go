package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hyvewyre/lead-api/internal/entity"
)

type FollowUpRepository struct {
	DB *sql.DB
}

func NewFollowUpRepository(db *sql.DB) *FollowUpRepository {
	return &FollowUpRepository{DB: db}
}

func (r *FollowUpRepository) CreateMany(ctx context.Context, followUps []*entity.FollowUp) (int, error) {
	if len(followUps) == 0 {
		return 0, nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer rollback(tx)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO follow_ups (id, user_id, lead_id, due_at, note, status, created_at)
		SELECT $1, $2, l.id, $4, $5, $6, $7 FROM leads l WHERE l.id = $3 AND l.user_id = $2
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	created := 0
	for _, f := range followUps {
		res, err := stmt.ExecContext(ctx, f.ID, f.UserID, f.LeadID, f.DueAt, nullString(f.Note), f.Status, f.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("insert follow-up for lead %s: %w", f.LeadID, err)
		}
		n, _ := res.RowsAffected()
		created += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return created, nil
}

func (r *FollowUpRepository) MarkDue(ctx context.Context, now time.Time) ([]*entity.FollowUp, error) {
	rows, err := r.DB.QueryContext(ctx, `
		UPDATE follow_ups SET status = $1
		WHERE status = $2 AND due_at <= $3
		RETURNING id, user_id, lead_id, due_at, COALESCE(note, ''), status, created_at
	`, entity.FollowUpDue, entity.FollowUpPending, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.FollowUp
	for rows.Next() {
		var (
			f      entity.FollowUp
			status string
		)
		if err := rows.Scan(&f.ID, &f.UserID, &f.LeadID, &f.DueAt, &f.Note, &status, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Status = entity.FollowUpStatus(status)
		out = append(out, &f)
	}
	return out, rows.Err()
}
