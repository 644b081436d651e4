package usecase

import (
	"context"

	"github.com/hyvewyre/lead-api/internal/entity"
	"github.com/hyvewyre/lead-api/internal/infra/integration/telnyx"
	"github.com/hyvewyre/lead-api/internal/infra/parser"
	"github.com/hyvewyre/lead-api/internal/infra/queue"
)

// SnapshotCache holds per-user lead lists and post-import snapshots. A miss
// is reported as ok=false, not as an error.
type SnapshotCache interface {
	GetLeads(ctx context.Context, userID string) ([]*entity.Lead, bool, error)
	StoreLeads(ctx context.Context, userID string, leads []*entity.Lead) error
	StoreSnapshot(ctx context.Context, snap *entity.Snapshot) error
	Invalidate(ctx context.Context, userID string) error
}

type JobPublisher interface {
	PublishJob(ctx context.Context, job queue.Job) error
}

type FileParser interface {
	Parse(filename string, content []byte) (*parser.Result, error)
}

type FileArchiver interface {
	Archive(ctx context.Context, userID, filename string, content []byte) (string, error)
}

type ImportNotifier interface {
	SendImportSummary(to, campaignName string, imported, duplicates, invalid, dncSkipped int) error
}

type NumberProvider interface {
	SearchNumbers(ctx context.Context, areaCode string) ([]telnyx.AvailableNumber, error)
	OrderNumber(ctx context.Context, phoneNumber string) (string, error)
}
