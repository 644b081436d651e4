// Package events is the typed publish/subscribe layer used to fan domain
// changes out to the dashboard (points balance, AI toggles, lead refreshes).
package events

import (
	"sync"
	"time"
)

// Topic delivers values of one payload type to every live subscriber.
// Handlers run synchronously on the publisher's goroutine, in subscription order.
type Topic[T any] struct {
	name string

	mu       sync.RWMutex
	nextID   int
	handlers map[int]func(T)
	order    []int
}

func NewTopic[T any](name string) *Topic[T] {
	return &Topic[T]{name: name, handlers: make(map[int]func(T))}
}

func (t *Topic[T]) Name() string { return t.name }

// Subscribe registers fn and returns the func that removes it.
func (t *Topic[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.handlers[id] = fn
	t.order = append(t.order, id)
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.handlers, id)
			for i, v := range t.order {
				if v == id {
					t.order = append(t.order[:i], t.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (t *Topic[T]) Publish(v T) {
	t.mu.RLock()
	fns := make([]func(T), 0, len(t.order))
	for _, id := range t.order {
		fns = append(fns, t.handlers[id])
	}
	t.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

func (t *Topic[T]) Subscribers() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.handlers)
}

type PointsUpdated struct {
	UserID   string    `json:"user_id"`
	Balance  int       `json:"balance"`
	Delta    int       `json:"delta"`
	Reason   string    `json:"reason"`
	At       time.Time `json:"at"`
	Refilled bool      `json:"refilled"`
}

type AIToggled struct {
	UserID    string    `json:"user_id"`
	Enabled   bool      `json:"enabled"`
	LeadCount int       `json:"lead_count"`
	At        time.Time `json:"at"`
}

type LeadsChanged struct {
	UserID string    `json:"user_id"`
	Reason string    `json:"reason"`
	Count  int       `json:"count"`
	At     time.Time `json:"at"`
}

type FollowUpDue struct {
	UserID     string    `json:"user_id"`
	FollowUpID string    `json:"follow_up_id"`
	LeadID     string    `json:"lead_id"`
	DueAt      time.Time `json:"due_at"`
}

// Bus groups the topics the service publishes on.
type Bus struct {
	PointsUpdated *Topic[PointsUpdated]
	AIToggled     *Topic[AIToggled]
	LeadsChanged  *Topic[LeadsChanged]
	FollowUpDue   *Topic[FollowUpDue]
}

func NewBus() *Bus {
	return &Bus{
		PointsUpdated: NewTopic[PointsUpdated]("points.updated"),
		AIToggled:     NewTopic[AIToggled]("ai.toggled"),
		LeadsChanged:  NewTopic[LeadsChanged]("leads.changed"),
		FollowUpDue:   NewTopic[FollowUpDue]("followup.due"),
	}
}

// Envelope is the wire shape forwarded to dashboard clients.
type Envelope struct {
	Type    string `json:"type"`
	UserID  string `json:"-"`
	Payload any    `json:"payload"`
}

// Forward subscribes fn to every topic on the bus, wrapping payloads in an
// Envelope. The returned func detaches all of them.
func (b *Bus) Forward(fn func(Envelope)) func() {
	unsubs := []func(){
		b.PointsUpdated.Subscribe(func(e PointsUpdated) {
			fn(Envelope{Type: b.PointsUpdated.Name(), UserID: e.UserID, Payload: e})
		}),
		b.AIToggled.Subscribe(func(e AIToggled) {
			fn(Envelope{Type: b.AIToggled.Name(), UserID: e.UserID, Payload: e})
		}),
		b.LeadsChanged.Subscribe(func(e LeadsChanged) {
			fn(Envelope{Type: b.LeadsChanged.Name(), UserID: e.UserID, Payload: e})
		}),
		b.FollowUpDue.Subscribe(func(e FollowUpDue) {
			fn(Envelope{Type: b.FollowUpDue.Name(), UserID: e.UserID, Payload: e})
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
