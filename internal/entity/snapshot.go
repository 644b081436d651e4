package entity

import "time"

// Snapshot is the leads/campaigns/tags view refreshed together after bulk
// changes so the dashboard never mixes old and new lists.
type Snapshot struct {
	UserID      string      `json:"user_id"`
	Leads       []*Lead     `json:"leads"`
	Campaigns   []*Campaign `json:"campaigns"`
	Tags        []Tag       `json:"tags"`
	RefreshedAt time.Time   `json:"refreshed_at"`
}
