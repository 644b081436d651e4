package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hyvewyre/lead-api/internal/entity"
	"github.com/hyvewyre/lead-api/internal/infra/integration/telnyx"
	"github.com/hyvewyre/lead-api/internal/infra/parser"
	"github.com/hyvewyre/lead-api/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, userID, id string) (*entity.Lead, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByPhone(ctx context.Context, userID, phone string) (*entity.Lead, error) {
	args := m.Called(ctx, userID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Lead, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockLeadRepository) BulkUpsert(ctx context.Context, userID string, leads []*entity.Lead) (int, error) {
	args := m.Called(ctx, userID, leads)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) BulkSetStatus(ctx context.Context, userID string, ids []string, s entity.LeadStatus) (int, error) {
	args := m.Called(ctx, userID, ids, s)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) BulkSetDisposition(ctx context.Context, userID string, ids []string, d entity.Disposition) (int, error) {
	args := m.Called(ctx, userID, ids, d)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) BulkAddTags(ctx context.Context, userID string, ids, tags []string) (int, error) {
	args := m.Called(ctx, userID, ids, tags)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) BulkRemoveTags(ctx context.Context, userID string, ids, tags []string) (int, error) {
	args := m.Called(ctx, userID, ids, tags)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) BulkReplaceTags(ctx context.Context, userID string, ids, remove, add []string) (int, error) {
	args := m.Called(ctx, userID, ids, remove, add)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) BulkReDrip(ctx context.Context, userID, campaignID string, ids []string) (int, error) {
	args := m.Called(ctx, userID, campaignID, ids)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) BulkSetAIEnabled(ctx context.Context, userID string, ids []string, enabled bool) (int, error) {
	args := m.Called(ctx, userID, ids, enabled)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) BulkDelete(ctx context.Context, userID string, ids []string) (int, error) {
	args := m.Called(ctx, userID, ids)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) UpdateScores(ctx context.Context, userID string, scores map[string]int) (int, error) {
	args := m.Called(ctx, userID, scores)
	return args.Int(0), args.Error(1)
}

// MockCampaignRepository
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Create(ctx context.Context, c *entity.Campaign) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCampaignRepository) FindByID(ctx context.Context, userID, id string) (*entity.Campaign, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Campaign, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

// MockTagRepository
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) ListByUser(ctx context.Context, userID string) ([]entity.Tag, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Tag), args.Error(1)
}

// MockDNCRepository
type MockDNCRepository struct {
	mock.Mock
}

func (m *MockDNCRepository) Add(ctx context.Context, e *entity.DNCEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockDNCRepository) BulkAdd(ctx context.Context, userID string, entries []*entity.DNCEntry) (int, error) {
	args := m.Called(ctx, userID, entries)
	return args.Int(0), args.Error(1)
}

func (m *MockDNCRepository) Remove(ctx context.Context, userID, phone string) error {
	return m.Called(ctx, userID, phone).Error(0)
}

func (m *MockDNCRepository) FindByPhone(ctx context.Context, userID, phone string) (*entity.DNCEntry, error) {
	args := m.Called(ctx, userID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DNCEntry), args.Error(1)
}

func (m *MockDNCRepository) ContainsAny(ctx context.Context, userID string, phones []string) (map[string]bool, error) {
	args := m.Called(ctx, userID, phones)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockDNCRepository) List(ctx context.Context, userID, search string, limit, offset int) ([]*entity.DNCEntry, int, error) {
	args := m.Called(ctx, userID, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.DNCEntry), args.Int(1), args.Error(2)
}

func (m *MockDNCRepository) History(ctx context.Context, f entity.DNCHistoryFilter) ([]*entity.DNCHistoryEntry, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.DNCHistoryEntry), args.Int(1), args.Error(2)
}

func (m *MockDNCRepository) AppendHistory(ctx context.Context, entries ...*entity.DNCHistoryEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockDNCRepository) Stats(ctx context.Context, userID string, since time.Time) (*entity.DNCStats, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DNCStats), args.Error(1)
}

// MockSettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, userID string) (*entity.Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, s *entity.Settings) error {
	return m.Called(ctx, s).Error(0)
}

// MockFollowUpRepository
type MockFollowUpRepository struct {
	mock.Mock
}

func (m *MockFollowUpRepository) CreateMany(ctx context.Context, f []*entity.FollowUp) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *MockFollowUpRepository) MarkDue(ctx context.Context, now time.Time) ([]*entity.FollowUp, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FollowUp), args.Error(1)
}

// MockPointsRepository
type MockPointsRepository struct {
	mock.Mock
}

func (m *MockPointsRepository) Balance(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockPointsRepository) Adjust(ctx context.Context, userID string, delta int, reason string) (int, error) {
	args := m.Called(ctx, userID, delta, reason)
	return args.Int(0), args.Error(1)
}

// MockSnapshotCache
type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) GetLeads(ctx context.Context, userID string) ([]*entity.Lead, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*entity.Lead), args.Bool(1), args.Error(2)
}

func (m *MockSnapshotCache) StoreLeads(ctx context.Context, userID string, leads []*entity.Lead) error {
	return m.Called(ctx, userID, leads).Error(0)
}

func (m *MockSnapshotCache) StoreSnapshot(ctx context.Context, s *entity.Snapshot) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSnapshotCache) Invalidate(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// MockJobPublisher
type MockJobPublisher struct {
	mock.Mock
}

func (m *MockJobPublisher) PublishJob(ctx context.Context, job queue.Job) error {
	return m.Called(ctx, job).Error(0)
}

// MockFileParser
type MockFileParser struct {
	mock.Mock
}

func (m *MockFileParser) Parse(filename string, content []byte) (*parser.Result, error) {
	args := m.Called(filename, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parser.Result), args.Error(1)
}

// MockFileArchiver
type MockFileArchiver struct {
	mock.Mock
}

func (m *MockFileArchiver) Archive(ctx context.Context, userID, filename string, content []byte) (string, error) {
	args := m.Called(ctx, userID, filename, content)
	return args.String(0), args.Error(1)
}

// MockImportNotifier
type MockImportNotifier struct {
	mock.Mock
}

func (m *MockImportNotifier) SendImportSummary(to, campaign string, imported, duplicates, invalid, dncSkipped int) error {
	return m.Called(to, campaign, imported, duplicates, invalid, dncSkipped).Error(0)
}

// MockNumberProvider
type MockNumberProvider struct {
	mock.Mock
}

func (m *MockNumberProvider) SearchNumbers(ctx context.Context, areaCode string) ([]telnyx.AvailableNumber, error) {
	args := m.Called(ctx, areaCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]telnyx.AvailableNumber), args.Error(1)
}

func (m *MockNumberProvider) OrderNumber(ctx context.Context, phone string) (string, error) {
	args := m.Called(ctx, phone)
	return args.String(0), args.Error(1)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }
