package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type FollowUpStatus string

const (
	FollowUpPending FollowUpStatus = "pending"
	FollowUpDue     FollowUpStatus = "due"
	FollowUpDone    FollowUpStatus = "done"
)

type FollowUp struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	LeadID    string         `json:"lead_id"`
	DueAt     time.Time      `json:"due_at"`
	Note      string         `json:"note,omitempty"`
	Status    FollowUpStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewFollowUp(userID, leadID string, dueAt time.Time, note string) *FollowUp {
	return &FollowUp{
		ID:        uuid.New().String(),
		UserID:    userID,
		LeadID:    leadID,
		DueAt:     dueAt.UTC(),
		Note:      note,
		Status:    FollowUpPending,
		CreatedAt: time.Now().UTC(),
	}
}

type FollowUpRepositoryInterface interface {
	CreateMany(ctx context.Context, followUps []*FollowUp) (int, error)
	// MarkDue flips pending follow-ups with due_at <= now and returns them.
	MarkDue(ctx context.Context, now time.Time) ([]*FollowUp, error)
}
