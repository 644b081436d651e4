package usecase

import (
	"time"

	"github.com/hyvewyre/lead-api/internal/entity"
)

type LeadInput struct {
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	State       string   `json:"state"`
	ZipCode     string   `json:"zip_code"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
	Disposition string   `json:"disposition"`
	CampaignID  *string  `json:"campaign_id,omitempty"`
	AIEnabled   *bool    `json:"ai_enabled,omitempty"`
}

type ParseOutput struct {
	DetectedType string   `json:"detectedType"`
	Total        int      `json:"total"`
	Columns      []string `json:"columns"`
	Preview      []RawRow `json:"preview"`
	All          []RawRow `json:"all"`
	InitialMap   Mapping  `json:"initialMap"`
	ArchiveKey   string   `json:"archive_key,omitempty"`
}

type ImportInput struct {
	UserID       string   `json:"-"`
	Rows         []RawRow `json:"rows"`
	Mapping      Mapping  `json:"mapping"`
	Columns      []string `json:"columns,omitempty"`
	CampaignName string   `json:"campaign_name,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

type ImportOutput struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
	DNCSkipped int `json:"dnc_skipped"`
	// UnknownStatus counts imported rows whose status was not recognized.
	// Those leads are Active and carry the source value as a tag.
	UnknownStatus int              `json:"unknown_status"`
	CampaignID    string           `json:"campaign_id,omitempty"`
	Refreshed     bool             `json:"refreshed"`
	Snapshot      *entity.Snapshot `json:"snapshot,omitempty"`
}

type BulkAction string

const (
	ActionStatus          BulkAction = "status"
	ActionDisposition     BulkAction = "disposition"
	ActionAddTags         BulkAction = "addTags"
	ActionRemoveTags      BulkAction = "removeTags"
	ActionReplaceTags     BulkAction = "replace"
	ActionCreateFollowUps BulkAction = "createFollowUps"
	ActionReDrip          BulkAction = "reDrip"
	ActionAIToggle        BulkAction = "aiToggle"
)

// BulkActionInput carries the union of all action payloads; which fields are
// read depends on Action.
type BulkActionInput struct {
	Action      BulkAction `json:"action"`
	LeadIDs     []string   `json:"lead_ids"`
	Status      string     `json:"status,omitempty"`
	Disposition string     `json:"disposition,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	RemoveTags  []string   `json:"remove_tags,omitempty"`
	AddTags     []string   `json:"add_tags,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Note        string     `json:"note,omitempty"`
	CampaignID  string     `json:"campaign_id,omitempty"`
	Enabled     *bool      `json:"enabled,omitempty"`
}

type BulkActionOutput struct {
	UpdatedCount int  `json:"updatedCount"`
	Queued       bool `json:"queued,omitempty"`
}

type ExportInput struct {
	LeadIDs []string `json:"lead_ids,omitempty"`
	Format  string   `json:"format"`
}

type ExportOutput struct {
	Filename    string
	ContentType string
	Body        []byte
}

type DNCAddInput struct {
	PhoneNumber string `json:"phone_number"`
	Reason      string `json:"reason"`
	Source      string `json:"source,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type DNCBulkAddInput struct {
	PhoneNumbers []string `json:"phone_numbers"`
	Reason       string   `json:"reason"`
	Source       string   `json:"source,omitempty"`
}

type DNCBulkAddOutput struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Invalid int `json:"invalid"`
}

type DNCListOutput struct {
	Entries  []*entity.DNCEntry `json:"entries"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	HasNext  bool               `json:"has_next"`
}

type DNCHistoryOutput struct {
	History  []*entity.DNCHistoryEntry `json:"history"`
	Total    int                       `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
	HasNext  bool                      `json:"has_next"`
}

type DNCCheckOutput struct {
	Blocked bool             `json:"blocked"`
	Entry   *entity.DNCEntry `json:"entry,omitempty"`
}

type PointsOutput struct {
	Balance  int  `json:"balance"`
	Refilled bool `json:"refilled,omitempty"`
}

type ClaimOutput struct {
	PhoneNumber    string   `json:"phone_number"`
	OrderID        string   `json:"order_id,omitempty"`
	ClaimedNumbers []string `json:"claimed_numbers"`
}
