package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type JobType string

const (
	JobRecalculateScores JobType = "recalculate_scores"
	JobReDrip            JobType = "re_drip"
)

// Job is the message body on QueueName.
type Job struct {
	Type        JobType   `json:"type"`
	UserID      string    `json:"user_id"`
	CampaignID  string    `json:"campaign_id,omitempty"`
	LeadIDs     []string  `json:"lead_ids,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

type JobPublisherInterface interface {
	PublishJob(ctx context.Context, job Job) error
}

// Publisher is the subset of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishJob(ctx context.Context, job Job) error {
	if job.RequestedAt.IsZero() {
		job.RequestedAt = time.Now().UTC()
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(job.Type),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s job: %w", job.Type, err)
	}
	return nil
}
