package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicPublishReachesSubscribersInOrder(t *testing.T) {
	topic := NewTopic[AIToggled]("ai.toggled")

	var got []string
	topic.Subscribe(func(e AIToggled) { got = append(got, "a:"+e.UserID) })
	topic.Subscribe(func(e AIToggled) { got = append(got, "b:"+e.UserID) })

	topic.Publish(AIToggled{UserID: "u1", Enabled: true})

	assert.Equal(t, []string{"a:u1", "b:u1"}, got)
}

func TestTopicUnsubscribe(t *testing.T) {
	topic := NewTopic[PointsUpdated]("points.updated")

	calls := 0
	unsub := topic.Subscribe(func(PointsUpdated) { calls++ })
	topic.Publish(PointsUpdated{Balance: 10})
	unsub()
	unsub()
	topic.Publish(PointsUpdated{Balance: 20})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, topic.Subscribers())
}

func TestBusForwardWrapsEveryTopic(t *testing.T) {
	bus := NewBus()

	var envs []Envelope
	detach := bus.Forward(func(e Envelope) { envs = append(envs, e) })

	bus.PointsUpdated.Publish(PointsUpdated{UserID: "u1", Balance: 5})
	bus.LeadsChanged.Publish(LeadsChanged{UserID: "u2", Reason: "import", Count: 3})

	if assert.Len(t, envs, 2) {
		assert.Equal(t, "points.updated", envs[0].Type)
		assert.Equal(t, "u1", envs[0].UserID)
		assert.Equal(t, "leads.changed", envs[1].Type)
		assert.Equal(t, LeadsChanged{UserID: "u2", Reason: "import", Count: 3}, envs[1].Payload)
	}

	detach()
	bus.AIToggled.Publish(AIToggled{UserID: "u1"})
	assert.Len(t, envs, 2)
}
