package entity

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrSettingsNotFound = errors.New("settings not found")

type NameInference string

const (
	NameInferenceShorterFirst NameInference = "shorter_first"
	NameInferenceOrdered      NameInference = "ordered"
	NameInferenceOff          NameInference = "off"
)

func (n NameInference) Valid() bool {
	return n == NameInferenceShorterFirst || n == NameInferenceOrdered || n == NameInferenceOff
}

type SpamProtection struct {
	Enabled            bool `json:"enabled"`
	MaxMessagesPerHour int  `json:"max_messages_per_hour"`
	MaxMessagesPerDay  int  `json:"max_messages_per_day"`
	MinDelaySeconds    int  `json:"min_delay_seconds"`
}

type AutoRefill struct {
	Enabled         bool `json:"enabled"`
	ThresholdPoints int  `json:"threshold_points"`
	RefillPoints    int  `json:"refill_points"`
}

type EmailProvider struct {
	Provider    string `json:"provider"`
	FromAddress string `json:"from_address"`
	SMTPHost    string `json:"smtp_host,omitempty"`
	SMTPPort    int    `json:"smtp_port,omitempty"`
	SMTPUser    string `json:"smtp_user,omitempty"`
}

type AIHandoff struct {
	Enabled        bool `json:"enabled"`
	HandoffOnReply bool `json:"handoff_on_reply"`
}

type QuietHours struct {
	Enabled  bool   `json:"enabled"`
	Start    string `json:"start"` // HH:MM
	End      string `json:"end"`   // HH:MM
	Timezone string `json:"timezone"`
}

func (q QuietHours) Validate() error {
	if !q.Enabled {
		return nil
	}
	if _, err := time.Parse("15:04", q.Start); err != nil {
		return fmt.Errorf("quiet_hours.start must be HH:MM")
	}
	if _, err := time.Parse("15:04", q.End); err != nil {
		return fmt.Errorf("quiet_hours.end must be HH:MM")
	}
	if _, err := time.LoadLocation(q.Timezone); err != nil {
		return fmt.Errorf("quiet_hours.timezone is not a known time zone")
	}
	return nil
}

// Contains reports whether t falls inside the window. Windows where start is
// after end wrap past midnight; start == end means the whole day.
func (q QuietHours) Contains(t time.Time) bool {
	if !q.Enabled {
		return false
	}
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return false
	}
	start, err1 := time.Parse("15:04", q.Start)
	end, err2 := time.Parse("15:04", q.End)
	if err1 != nil || err2 != nil {
		return false
	}
	local := t.In(loc)
	minute := local.Hour()*60 + local.Minute()
	s := start.Hour()*60 + start.Minute()
	e := end.Hour()*60 + end.Minute()
	switch {
	case s == e:
		return true
	case s < e:
		return minute >= s && minute < e
	default:
		return minute >= s || minute < e
	}
}

type Settings struct {
	UserID         string         `json:"user_id"`
	SpamProtection SpamProtection `json:"spam_protection"`
	AutoRefill     AutoRefill     `json:"auto_refill"`
	EmailProvider  EmailProvider  `json:"email_provider"`
	QuietHours     QuietHours     `json:"quiet_hours"`
	OptOutKeyword  string         `json:"opt_out_keyword"`
	AIHandoff      AIHandoff      `json:"ai_handoff"`
	ClaimedNumbers []string       `json:"claimed_numbers"`
	NameInference  NameInference  `json:"name_inference"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// NotificationEmail receives import summaries; empty disables them.
	NotificationEmail string `json:"notification_email,omitempty"`
}

func DefaultSettings(userID string) *Settings {
	return &Settings{
		UserID: userID,
		SpamProtection: SpamProtection{
			Enabled:            true,
			MaxMessagesPerHour: 200,
			MaxMessagesPerDay:  1000,
			MinDelaySeconds:    3,
		},
		AutoRefill: AutoRefill{ThresholdPoints: 100, RefillPoints: 1000},
		QuietHours: QuietHours{
			Start:    "21:00",
			End:      "08:00",
			Timezone: "America/New_York",
		},
		OptOutKeyword:  "STOP",
		ClaimedNumbers: []string{},
		NameInference:  NameInferenceShorterFirst,
	}
}

type SettingsRepositoryInterface interface {
	Get(ctx context.Context, userID string) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}
