package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyvewyre/lead-api/internal/entity"
)

func lead(id string, status entity.LeadStatus, score *int) *entity.Lead {
	return &entity.Lead{ID: id, Status: status, Score: score, Tags: []string{}}
}

func ids(leads []*entity.Lead) []string {
	out := make([]string, len(leads))
	for i, l := range leads {
		out[i] = l.ID
	}
	return out
}

func TestLeadFilter_ArchivedVisibility(t *testing.T) {
	camp := "c1"
	leads := []*entity.Lead{
		lead("a", entity.StatusNew, intPtr(10)),
		lead("b", entity.StatusArchived, intPtr(90)),
		lead("c", entity.StatusArchived, nil),
		lead("d", entity.StatusActive, intPtr(80)),
	}
	leads[1].CampaignID = &camp
	leads[3].CampaignID = &camp

	for _, f := range []LeadFilter{{}, {CampaignID: camp}, {HotOnly: true}, {Search: ""}} {
		visible := f.Apply(leads)
		for _, l := range visible {
			assert.NotEqual(t, entity.StatusArchived, l.Status)
		}

		f.ShowArchived = true
		for _, l := range f.Apply(leads) {
			assert.Equal(t, entity.StatusArchived, l.Status)
		}
	}
}

func TestLeadFilter_SortStableNilAsZero(t *testing.T) {
	leads := []*entity.Lead{
		lead("nil1", entity.StatusNew, nil),
		lead("low", entity.StatusNew, intPtr(5)),
		lead("zero", entity.StatusNew, intPtr(0)),
		lead("high", entity.StatusNew, intPtr(95)),
		lead("nil2", entity.StatusNew, nil),
	}

	got := LeadFilter{}.Apply(leads)

	assert.Equal(t, []string{"high", "low", "nil1", "zero", "nil2"}, ids(got))
	// input order untouched
	assert.Equal(t, "nil1", leads[0].ID)
}

func TestLeadFilter_Composition(t *testing.T) {
	camp := "c1"
	a := lead("a", entity.StatusNew, intPtr(75))
	a.FirstName, a.LastName, a.Tags, a.CampaignID = "Jane", "Smith", []string{"VIP"}, &camp
	b := lead("b", entity.StatusNew, intPtr(50))
	b.Tags, b.CampaignID, b.Email = []string{"vip"}, &camp, "bob@x.com"
	c := lead("c", entity.StatusNew, intPtr(99))
	c.Phone = "+15551234567"

	leads := []*entity.Lead{a, b, c}

	assert.Equal(t, []string{"a", "b"}, ids(LeadFilter{CampaignID: camp}.Apply(leads)))
	assert.Equal(t, []string{"a", "b"}, ids(LeadFilter{Tag: "vip"}.Apply(leads)))
	assert.Equal(t, []string{"b"}, ids(LeadFilter{Search: "BOB"}.Apply(leads)))
	assert.Equal(t, []string{"c"}, ids(LeadFilter{Search: "555123"}.Apply(leads)))
	assert.Equal(t, []string{"a"}, ids(LeadFilter{Search: "jane smith"}.Apply(leads)))
	assert.Equal(t, []string{"c", "a"}, ids(LeadFilter{HotOnly: true}.Apply(leads)))
	assert.Equal(t, []string{"a"}, ids(LeadFilter{HotOnly: true, CampaignID: camp}.Apply(leads)))
}

func TestSelection(t *testing.T) {
	s := NewSelection("b", "", " a ")
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	assert.True(t, s.Toggle("c"))
	assert.False(t, s.Toggle("a"))
	assert.Equal(t, []string{"b", "c"}, s.IDs())

	visible := []*entity.Lead{{ID: "c"}, {ID: "d"}}
	assert.Equal(t, 1, s.Hidden(visible))

	s.SelectAll(visible)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 1, s.Hidden(visible))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.IDs())
}
