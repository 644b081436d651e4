package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrCampaignNotFound = errors.New("campaign not found")

type Campaign struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	TagsApplied []string  `json:"tags_applied"`
	LeadCount   int       `json:"lead_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewCampaign(userID, name string, tags []string) (*Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("campaign name is required")
	}
	if tags == nil {
		tags = []string{}
	}
	now := time.Now().UTC()
	return &Campaign{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		TagsApplied: tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *Campaign) error
	FindByID(ctx context.Context, userID, id string) (*Campaign, error)
	ListByUser(ctx context.Context, userID string) ([]*Campaign, error)
	Delete(ctx context.Context, userID, id string) error
}

// Tag is an aggregate over leads.tags, not a stored row.
type Tag struct {
	Name      string `json:"name"`
	LeadCount int    `json:"lead_count"`
}

type TagRepositoryInterface interface {
	ListByUser(ctx context.Context, userID string) ([]Tag, error)
}
