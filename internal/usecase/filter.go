package usecase

import (
	"sort"
	"strings"

	"github.com/hyvewyre/lead-api/internal/entity"
)

type LeadFilter struct {
	ShowArchived bool
	CampaignID   string
	Tag          string
	Search       string
	HotOnly      bool
}

// Apply filters in a fixed order (archived visibility, campaign, tag, search,
// hot-only) then sorts by score descending. The sort is stable and missing
// scores count as 0. The input slice is not modified.
func (f LeadFilter) Apply(leads []*entity.Lead) []*entity.Lead {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]*entity.Lead, 0, len(leads))
	for _, l := range leads {
		if l.IsArchived() != f.ShowArchived {
			continue
		}
		if f.CampaignID != "" && (l.CampaignID == nil || *l.CampaignID != f.CampaignID) {
			continue
		}
		if f.Tag != "" && !l.HasTag(f.Tag) {
			continue
		}
		if search != "" && !matchesSearch(l, search) {
			continue
		}
		if f.HotOnly && (l.Score == nil || TemperatureFor(l.Score) != entity.TemperatureHot) {
			continue
		}
		out = append(out, l)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return scoreOf(out[i]) > scoreOf(out[j])
	})
	return out
}

func matchesSearch(l *entity.Lead, q string) bool {
	for _, s := range []string{l.FullName(), l.Phone, l.Email} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func scoreOf(l *entity.Lead) int {
	if l.Score == nil {
		return 0
	}
	return *l.Score
}

// Selection is a set of lead ids kept independently of any filter, so ids
// outside the visible list stay selected.
type Selection struct {
	ids map[string]struct{}
}

func NewSelection(ids ...string) *Selection {
	s := &Selection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// Toggle flips id and reports whether it is selected afterwards.
func (s *Selection) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Selection) SelectAll(visible []*entity.Lead) {
	for _, l := range visible {
		s.ids[l.ID] = struct{}{}
	}
}

func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int { return len(s.ids) }

// Hidden counts selected ids not present in visible.
func (s *Selection) Hidden(visible []*entity.Lead) int {
	shown := 0
	for _, l := range visible {
		if s.Has(l.ID) {
			shown++
		}
	}
	return len(s.ids) - shown
}

func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
