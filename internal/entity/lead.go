package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrLeadAlreadyExists = errors.New("lead with this phone number already exists")
)

type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusContacted LeadStatus = "contacted"
	StatusQualified LeadStatus = "qualified"
	StatusConverted LeadStatus = "converted"
	StatusLost      LeadStatus = "lost"
	StatusArchived  LeadStatus = "archived"

	// StatusActive is what the import pipeline writes when no status column is mapped.
	StatusActive LeadStatus = "Active"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost, StatusArchived, StatusActive:
		return true
	}
	return false
}

type Disposition string

const (
	DispositionNone          Disposition = ""
	DispositionSold          Disposition = "sold"
	DispositionNotInterested Disposition = "not_interested"
	DispositionCallback      Disposition = "callback"
	DispositionQualified     Disposition = "qualified"
	DispositionNurture       Disposition = "nurture"
)

func (d Disposition) Valid() bool {
	switch d {
	case DispositionNone, DispositionSold, DispositionNotInterested, DispositionCallback, DispositionQualified, DispositionNurture:
		return true
	}
	return false
}

type Temperature string

const (
	TemperatureHot  Temperature = "hot"
	TemperatureWarm Temperature = "warm"
	TemperatureCold Temperature = "cold"
)

type Lead struct {
	ID                string      `json:"id"`
	UserID            string      `json:"user_id"`
	FirstName         string      `json:"first_name"`
	LastName          string      `json:"last_name"`
	Phone             string      `json:"phone"`
	Email             string      `json:"email,omitempty"`
	State             string      `json:"state,omitempty"`
	ZipCode           string      `json:"zip_code,omitempty"`
	Tags              []string    `json:"tags"`
	Status            LeadStatus  `json:"status"`
	Disposition       Disposition `json:"disposition,omitempty"`
	Score             *int        `json:"score,omitempty"`
	Temperature       Temperature `json:"temperature,omitempty"`
	CampaignID        *string     `json:"campaign_id,omitempty"`
	AIEnabled         bool        `json:"ai_enabled"`
	LastInteractionAt *time.Time  `json:"last_interaction_at,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

func NewLead(userID, firstName, lastName, phone string) *Lead {
	now := time.Now().UTC()
	return &Lead{
		ID:        uuid.New().String(),
		UserID:    userID,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Tags:      []string{},
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// HasTag compares case-insensitively; tags are user-typed.
func (l *Lead) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (l *Lead) IsArchived() bool {
	return l.Status == StatusArchived
}

func (l *Lead) Validate() error {
	if l.UserID == "" {
		return errors.New("user_id is required")
	}
	if l.Phone == "" {
		return errors.New("phone is required")
	}
	if !l.Status.Valid() {
		return errors.New("status is invalid")
	}
	if !l.Disposition.Valid() {
		return errors.New("disposition is invalid")
	}
	return nil
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, userID, id string) (*Lead, error)
	FindByPhone(ctx context.Context, userID, phone string) (*Lead, error)
	ListByUser(ctx context.Context, userID string) ([]*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, userID, id string) error

	BulkUpsert(ctx context.Context, userID string, leads []*Lead) (int, error)
	BulkSetStatus(ctx context.Context, userID string, ids []string, status LeadStatus) (int, error)
	BulkSetDisposition(ctx context.Context, userID string, ids []string, d Disposition) (int, error)
	BulkAddTags(ctx context.Context, userID string, ids []string, tags []string) (int, error)
	BulkRemoveTags(ctx context.Context, userID string, ids []string, tags []string) (int, error)
	BulkReplaceTags(ctx context.Context, userID string, ids []string, remove, add []string) (int, error)
	// BulkReDrip moves leads into campaignID and restarts its drip sequence.
	BulkReDrip(ctx context.Context, userID, campaignID string, ids []string) (int, error)
	BulkSetAIEnabled(ctx context.Context, userID string, ids []string, enabled bool) (int, error)
	BulkDelete(ctx context.Context, userID string, ids []string) (int, error)
	UpdateScores(ctx context.Context, userID string, scores map[string]int) (int, error)
}
