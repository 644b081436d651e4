package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/hyvewyre/lead-api/internal/entity"
	"github.com/hyvewyre/lead-api/internal/events"
)

type FollowUpWorker struct {
	repo         entity.FollowUpRepositoryInterface
	bus          *events.Bus
	tickInterval time.Duration
	now          func() time.Time
}

func NewFollowUpWorker(repo entity.FollowUpRepositoryInterface, bus *events.Bus, tick time.Duration) *FollowUpWorker {
	if tick <= 0 {
		tick = time.Minute
	}
	return &FollowUpWorker{
		repo:         repo,
		bus:          bus,
		tickInterval: tick,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start sweeps once immediately, then on every tick until ctx is done.
func (w *FollowUpWorker) Start(ctx context.Context) {
	slog.Info("follow-up worker started", "interval", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("follow-up worker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep marks due follow-ups and announces them. It returns how many fired.
func (w *FollowUpWorker) Sweep(ctx context.Context) int {
	due, err := w.repo.MarkDue(ctx, w.now())
	if err != nil {
		slog.Error("mark due follow-ups", "err", err)
		return 0
	}

	for _, f := range due {
		w.bus.FollowUpDue.Publish(events.FollowUpDue{
			UserID:     f.UserID,
			FollowUpID: f.ID,
			LeadID:     f.LeadID,
			DueAt:      f.DueAt,
		})
	}
	if len(due) > 0 {
		slog.Info("follow-ups due", "count", len(due))
	}
	return len(due)
}
