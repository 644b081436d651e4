package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hyvewyre/lead-api/internal/entity"
)

func TestTemperatureFor(t *testing.T) {
	assert.Equal(t, entity.Temperature(""), TemperatureFor(nil))
	assert.Equal(t, entity.TemperatureCold, TemperatureFor(intPtr(0)))
	assert.Equal(t, entity.TemperatureCold, TemperatureFor(intPtr(39)))
	assert.Equal(t, entity.TemperatureWarm, TemperatureFor(intPtr(40)))
	assert.Equal(t, entity.TemperatureWarm, TemperatureFor(intPtr(69)))
	assert.Equal(t, entity.TemperatureHot, TemperatureFor(intPtr(70)))
	assert.Equal(t, entity.TemperatureHot, TemperatureFor(intPtr(100)))
}

func TestScoreLead(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) *time.Time {
		v := now.Add(-d)
		return &v
	}

	cases := []struct {
		name string
		lead entity.Lead
		want int
	}{
		{"new untouched", entity.Lead{Status: entity.StatusNew}, 10},
		{"imported active", entity.Lead{Status: entity.StatusActive}, 10},
		{"qualified recent", entity.Lead{Status: entity.StatusQualified, LastInteractionAt: ago(2 * time.Hour)}, 70},
		{"converted sold recent clamps", entity.Lead{Status: entity.StatusConverted, Disposition: entity.DispositionSold, LastInteractionAt: ago(time.Hour)}, 100},
		{"lost not interested clamps", entity.Lead{Status: entity.StatusLost, Disposition: entity.DispositionNotInterested}, 0},
		{"contacted callback week", entity.Lead{Status: entity.StatusContacted, Disposition: entity.DispositionCallback, LastInteractionAt: ago(3 * 24 * time.Hour)}, 45},
		{"nurture month", entity.Lead{Status: entity.StatusNew, Disposition: entity.DispositionNurture, LastInteractionAt: ago(20 * 24 * time.Hour)}, 20},
		{"stale interaction", entity.Lead{Status: entity.StatusNew, LastInteractionAt: ago(90 * 24 * time.Hour)}, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := tc.lead
			assert.Equal(t, tc.want, ScoreLead(&l, now))
		})
	}
}

func TestApplyTemperature(t *testing.T) {
	leads := []*entity.Lead{{Score: intPtr(80)}, {Score: nil}}
	ApplyTemperature(leads)
	assert.Equal(t, entity.TemperatureHot, leads[0].Temperature)
	assert.Equal(t, entity.Temperature(""), leads[1].Temperature)
}
