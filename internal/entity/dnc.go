package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDNCNotFound = errors.New("phone number is not on the DNC list")
	ErrDNCExists   = errors.New("phone number is already on the DNC list")
)

type DNCReason string

const (
	DNCReasonManual    DNCReason = "manual"
	DNCReasonOptOut    DNCReason = "opt_out"
	DNCReasonComplaint DNCReason = "complaint"
	DNCReasonLegal     DNCReason = "legal"
)

func (r DNCReason) Valid() bool {
	switch r {
	case DNCReasonManual, DNCReasonOptOut, DNCReasonComplaint, DNCReasonLegal:
		return true
	}
	return false
}

type DNCAction string

const (
	DNCActionAdded   DNCAction = "added"
	DNCActionRemoved DNCAction = "removed"
	DNCActionChecked DNCAction = "checked"
	DNCActionBlocked DNCAction = "blocked"
	DNCActionUpdated DNCAction = "updated"
)

func (a DNCAction) Valid() bool {
	switch a {
	case DNCActionAdded, DNCActionRemoved, DNCActionChecked, DNCActionBlocked, DNCActionUpdated:
		return true
	}
	return false
}

type DNCEntry struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	PhoneNumber     string    `json:"phone_number"`
	NormalizedPhone string    `json:"normalized_phone"`
	Reason          DNCReason `json:"reason"`
	Source          string    `json:"source"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewDNCEntry(userID, phone string, reason DNCReason, source, notes string) (*DNCEntry, error) {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return nil, errors.New("phone number has no digits")
	}
	if reason == "" {
		reason = DNCReasonManual
	}
	if !reason.Valid() {
		return nil, errors.New("reason is invalid")
	}
	if source == "" {
		source = "manual"
	}
	return &DNCEntry{
		ID:              uuid.New().String(),
		UserID:          userID,
		PhoneNumber:     phone,
		NormalizedPhone: normalized,
		Reason:          reason,
		Source:          source,
		Notes:           notes,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

type DNCHistoryEntry struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	PhoneNumber string            `json:"phone_number"`
	Action      DNCAction         `json:"action"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func NewDNCHistoryEntry(userID, phone string, action DNCAction, metadata map[string]string) *DNCHistoryEntry {
	return &DNCHistoryEntry{
		ID:          uuid.New().String(),
		UserID:      userID,
		PhoneNumber: phone,
		Action:      action,
		Metadata:    metadata,
		CreatedAt:   time.Now().UTC(),
	}
}

type DNCHistoryFilter struct {
	UserID string
	Action DNCAction
	Phone  string
	Limit  int
	Offset int
}

type DNCStats struct {
	Total         int               `json:"total"`
	ByReason      map[DNCReason]int `json:"by_reason"`
	AddedRecently int               `json:"added_last_7_days"`
	BlockedRecent int               `json:"blocked_last_7_days"`
}

type DNCRepositoryInterface interface {
	// Add inserts the entry and its "added" history row atomically.
	Add(ctx context.Context, e *DNCEntry) error
	BulkAdd(ctx context.Context, userID string, entries []*DNCEntry) (int, error)
	Remove(ctx context.Context, userID, normalizedPhone string) error
	FindByPhone(ctx context.Context, userID, normalizedPhone string) (*DNCEntry, error)
	ContainsAny(ctx context.Context, userID string, normalizedPhones []string) (map[string]bool, error)
	List(ctx context.Context, userID, search string, limit, offset int) ([]*DNCEntry, int, error)
	History(ctx context.Context, f DNCHistoryFilter) ([]*DNCHistoryEntry, int, error)
	AppendHistory(ctx context.Context, entries ...*DNCHistoryEntry) error
	Stats(ctx context.Context, userID string, since time.Time) (*DNCStats, error)
}
