package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

type ScoreRecalculator interface {
	RecalculateScores(ctx context.Context, userID string) (int, error)
}

type DripEnroller interface {
	ApplyReDrip(ctx context.Context, userID, campaignID string, leadIDs []string) (int, error)
}

// Consumer is the subset of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

var ErrUnknownJob = errors.New("unknown job type")

type Worker struct {
	Channel Consumer
	Scorer  ScoreRecalculator
	Drip    DripEnroller
}

func NewWorker(ch Consumer, scorer ScoreRecalculator, drip DripEnroller) *Worker {
	return &Worker{Channel: ch, Scorer: scorer, Drip: drip}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	slog.Info("job worker started", "queue", queueName)
	for {
		select {
		case <-ctx.Done():
			slog.Info("job worker stopping")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var job Job
	if err := json.Unmarshal(d.Body, &job); err != nil {
		slog.Error("malformed job, dead-lettering", "err", err)
		d.Nack(false, false)
		return
	}

	if err := w.Process(ctx, job); err != nil {
		slog.Error("job failed", "type", job.Type, "user_id", job.UserID, "err", err)
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

// Process runs one job synchronously.
func (w *Worker) Process(ctx context.Context, job Job) error {
	switch job.Type {
	case JobRecalculateScores:
		n, err := w.Scorer.RecalculateScores(ctx, job.UserID)
		if err != nil {
			return err
		}
		slog.Info("scores recalculated", "user_id", job.UserID, "updated", n)
		return nil

	case JobReDrip:
		n, err := w.Drip.ApplyReDrip(ctx, job.UserID, job.CampaignID, job.LeadIDs)
		if err != nil {
			return err
		}
		slog.Info("leads re-enrolled", "user_id", job.UserID, "campaign_id", job.CampaignID, "count", n)
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownJob, job.Type)
	}
}
