package usecase

import (
	"time"

	"github.com/hyvewyre/lead-api/internal/entity"
)

const (
	HotScoreThreshold  = 70
	WarmScoreThreshold = 40
	MaxScore           = 100
)

// TemperatureFor buckets a score. Unscored leads have no temperature.
func TemperatureFor(score *int) entity.Temperature {
	if score == nil {
		return ""
	}
	switch {
	case *score >= HotScoreThreshold:
		return entity.TemperatureHot
	case *score >= WarmScoreThreshold:
		return entity.TemperatureWarm
	default:
		return entity.TemperatureCold
	}
}

// ApplyTemperature fills the derived Temperature field in place.
func ApplyTemperature(leads []*entity.Lead) {
	for _, l := range leads {
		l.Temperature = TemperatureFor(l.Score)
	}
}

var statusWeights = map[entity.LeadStatus]int{
	entity.StatusNew:       10,
	entity.StatusActive:    10,
	entity.StatusContacted: 25,
	entity.StatusQualified: 50,
	entity.StatusConverted: 80,
	entity.StatusLost:      0,
	entity.StatusArchived:  0,
}

var dispositionWeights = map[entity.Disposition]int{
	entity.DispositionSold:          20,
	entity.DispositionQualified:     15,
	entity.DispositionCallback:      10,
	entity.DispositionNurture:       5,
	entity.DispositionNotInterested: -20,
}

// ScoreLead computes the engagement score in [0, MaxScore] from status,
// disposition and how recently the lead interacted.
func ScoreLead(l *entity.Lead, now time.Time) int {
	score := statusWeights[l.Status] + dispositionWeights[l.Disposition]

	if l.LastInteractionAt != nil {
		age := now.Sub(*l.LastInteractionAt)
		switch {
		case age <= 24*time.Hour:
			score += 20
		case age <= 7*24*time.Hour:
			score += 10
		case age <= 30*24*time.Hour:
			score += 5
		}
	}

	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
