package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hyvewyre/lead-api/internal/entity"
	"github.com/hyvewyre/lead-api/internal/events"
)

type importMocks struct {
	leads     *MockLeadRepository
	campaigns *MockCampaignRepository
	tags      *MockTagRepository
	dnc       *MockDNCRepository
	settings  *MockSettingsRepository
	cache     *MockSnapshotCache
	notifier  *MockImportNotifier
	bus       *events.Bus
}

func newImportUseCase() (*ImportLeadsUseCase, *importMocks) {
	m := &importMocks{
		leads:     new(MockLeadRepository),
		campaigns: new(MockCampaignRepository),
		tags:      new(MockTagRepository),
		dnc:       new(MockDNCRepository),
		settings:  new(MockSettingsRepository),
		cache:     new(MockSnapshotCache),
		notifier:  new(MockImportNotifier),
		bus:       events.NewBus(),
	}
	uc := NewImportLeadsUseCase(m.leads, m.campaigns, m.tags, m.dnc, m.settings, m.cache, m.bus, m.notifier, entity.NameInferenceShorterFirst)
	uc.Now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return uc, m
}

func importRows() []RawRow {
	return []RawRow{
		{"Full Name": "John Doe", "Cell": "555-123-4567", "E-mail": "john@x.com"},
		{"Full Name": "", "Cell": "555-987-6543", "E-mail": "jane.smith@x.com"},
		{"Full Name": "Dup", "Cell": "(555) 123-4567", "E-mail": ""},
		{"Full Name": "No Phone", "Cell": "", "E-mail": "np@x.com"},
		{"Full Name": "Blocked", "Cell": "5550001111", "E-mail": ""},
	}
}

func TestImportLeads_FullFlow(t *testing.T) {
	uc, m := newImportUseCase()
	ctx := context.Background()
	settings := entity.DefaultSettings("u1")
	settings.NotificationEmail = "owner@x.com"

	m.settings.On("Get", ctx, "u1").Return(settings, nil)
	m.dnc.On("ContainsAny", ctx, "u1", []string{"+15551234567", "+15559876543", "+15550001111"}).
		Return(map[string]bool{"+15550001111": true}, nil)
	m.dnc.On("AppendHistory", ctx, mock.MatchedBy(func(es []*entity.DNCHistoryEntry) bool {
		return len(es) == 1 && es[0].Action == entity.DNCActionBlocked && es[0].PhoneNumber == "+15550001111"
	})).Return(nil)
	m.campaigns.On("Create", ctx, mock.MatchedBy(func(c *entity.Campaign) bool {
		return c.Name == "Spring Expo" && c.UserID == "u1"
	})).Return(nil)

	var upserted []*entity.Lead
	m.leads.On("BulkUpsert", ctx, "u1", mock.Anything).Run(func(args mock.Arguments) {
		upserted = args.Get(2).([]*entity.Lead)
	}).Return(2, nil)
	m.leads.On("ListByUser", ctx, "u1").Return([]*entity.Lead{{ID: "l1", Score: intPtr(80)}}, nil)
	m.campaigns.On("ListByUser", ctx, "u1").Return([]*entity.Campaign{{ID: "c1"}}, nil)
	m.tags.On("ListByUser", ctx, "u1").Return([]entity.Tag{{Name: "expo", LeadCount: 2}}, nil)
	m.cache.On("StoreSnapshot", ctx, mock.AnythingOfType("*entity.Snapshot")).Return(nil)
	m.notifier.On("SendImportSummary", "owner@x.com", "Spring Expo", 2, 1, 1, 1).Return(nil)

	var changed []events.LeadsChanged
	m.bus.LeadsChanged.Subscribe(func(e events.LeadsChanged) { changed = append(changed, e) })

	out, err := uc.Execute(ctx, ImportInput{
		UserID:       "u1",
		Rows:         importRows(),
		Mapping:      AutoMap([]string{"Full Name", "Cell", "E-mail"}),
		Columns:      []string{"Full Name", "Cell", "E-mail"},
		CampaignName: "Spring Expo",
		Tags:         []string{"expo"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, out.Imported)
	assert.Equal(t, 1, out.Duplicates)
	assert.Equal(t, 1, out.Invalid)
	assert.Equal(t, 1, out.DNCSkipped)
	assert.NotEmpty(t, out.CampaignID)
	assert.True(t, out.Refreshed)
	require.NotNil(t, out.Snapshot)
	assert.Equal(t, entity.TemperatureHot, out.Snapshot.Leads[0].Temperature)

	require.Len(t, upserted, 2)
	assert.Equal(t, "John Doe", upserted[0].FirstName)
	assert.Equal(t, "Jane", upserted[1].FirstName)
	assert.Equal(t, "Smith", upserted[1].LastName)
	assert.Equal(t, entity.StatusActive, upserted[1].Status)
	assert.Equal(t, []string{"expo"}, upserted[1].Tags)
	require.NotNil(t, upserted[0].CampaignID)
	assert.Equal(t, out.CampaignID, *upserted[0].CampaignID)

	require.Len(t, changed, 1)
	assert.Equal(t, "import", changed[0].Reason)
	assert.Equal(t, 2, changed[0].Count)

	m.dnc.AssertExpectations(t)
	m.campaigns.AssertExpectations(t)
	m.notifier.AssertExpectations(t)
	m.cache.AssertExpectations(t)
}

func TestImportLeads_UpsertFailureCompensatesCampaign(t *testing.T) {
	uc, m := newImportUseCase()
	ctx := context.Background()

	m.settings.On("Get", ctx, "u1").Return(nil, entity.ErrSettingsNotFound)
	m.dnc.On("ContainsAny", ctx, "u1", mock.Anything).Return(map[string]bool{}, nil)
	m.campaigns.On("Create", ctx, mock.Anything).Return(nil)
	m.campaigns.On("Delete", ctx, "u1", mock.AnythingOfType("string")).Return(nil)
	m.leads.On("BulkUpsert", ctx, "u1", mock.Anything).Return(0, errors.New("connection reset"))

	_, err := uc.Execute(ctx, ImportInput{
		UserID:       "u1",
		Rows:         []RawRow{{"phone": "5551234567"}},
		Mapping:      Mapping{FieldPhone: "phone"},
		CampaignName: "Spring",
	})

	require.Error(t, err)
	assert.True(t, IsTechnicalError(err))
	assert.Contains(t, err.Error(), "connection reset")
	m.campaigns.AssertCalled(t, "Delete", ctx, "u1", mock.AnythingOfType("string"))
	m.leads.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}

func TestImportLeads_RefreshFailureReturnsCountsOnly(t *testing.T) {
	uc, m := newImportUseCase()
	ctx := context.Background()

	m.settings.On("Get", ctx, "u1").Return(nil, entity.ErrSettingsNotFound)
	m.dnc.On("ContainsAny", ctx, "u1", mock.Anything).Return(map[string]bool{}, nil)
	m.leads.On("BulkUpsert", ctx, "u1", mock.Anything).Return(1, nil)
	m.leads.On("ListByUser", ctx, "u1").Return([]*entity.Lead{}, nil)
	m.campaigns.On("ListByUser", ctx, "u1").Return(nil, errors.New("timeout"))

	out, err := uc.Execute(ctx, ImportInput{
		UserID:  "u1",
		Rows:    []RawRow{{"phone": "5551234567"}},
		Mapping: Mapping{FieldPhone: "phone"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, out.Imported)
	assert.False(t, out.Refreshed)
	assert.Nil(t, out.Snapshot)
	m.tags.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
	m.cache.AssertNotCalled(t, "StoreSnapshot", mock.Anything, mock.Anything)
	m.notifier.AssertNotCalled(t, "SendImportSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImportLeads_RequiresPhoneMapping(t *testing.T) {
	uc, _ := newImportUseCase()

	_, err := uc.Execute(context.Background(), ImportInput{
		UserID:  "u1",
		Rows:    []RawRow{{"email": "a@b.com"}},
		Mapping: Mapping{FieldEmail: "email"},
	})

	de, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeBadMapping, de.Code)
}

func TestImportLeads_EmptyRows(t *testing.T) {
	uc, _ := newImportUseCase()

	_, err := uc.Execute(context.Background(), ImportInput{UserID: "u1", Mapping: Mapping{FieldPhone: "p"}})

	de, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, de.Code)
}

func TestImportLeads_SavedStrategyWins(t *testing.T) {
	uc, m := newImportUseCase()
	ctx := context.Background()
	s := entity.DefaultSettings("u1")
	s.NameInference = entity.NameInferenceOrdered

	m.settings.On("Get", ctx, "u1").Return(s, nil)
	m.dnc.On("ContainsAny", ctx, "u1", mock.Anything).Return(map[string]bool{}, nil)
	var upserted []*entity.Lead
	m.leads.On("BulkUpsert", ctx, "u1", mock.Anything).Run(func(args mock.Arguments) {
		upserted = args.Get(2).([]*entity.Lead)
	}).Return(1, nil)
	m.leads.On("ListByUser", ctx, "u1").Return(nil, errors.New("skip refresh"))

	_, err := uc.Execute(ctx, ImportInput{
		UserID:  "u1",
		Rows:    []RawRow{{"p": "5551234567", "e": "alexander.cruz@x.com"}},
		Mapping: Mapping{FieldPhone: "p", FieldEmail: "e"},
	})

	require.NoError(t, err)
	require.Len(t, upserted, 1)
	assert.Equal(t, "Alexander", upserted[0].FirstName)
	assert.Equal(t, "Cruz", upserted[0].LastName)
}

func TestImportLeads_UnknownStatusKeptAsTag(t *testing.T) {
	uc, m := newImportUseCase()
	ctx := context.Background()

	m.settings.On("Get", ctx, "u1").Return(nil, entity.ErrSettingsNotFound)
	m.dnc.On("ContainsAny", ctx, "u1", mock.Anything).Return(map[string]bool{}, nil)
	var upserted []*entity.Lead
	m.leads.On("BulkUpsert", ctx, "u1", mock.Anything).Run(func(args mock.Arguments) {
		upserted = args.Get(2).([]*entity.Lead)
	}).Return(2, nil)
	m.leads.On("ListByUser", ctx, "u1").Return(nil, errors.New("skip refresh"))

	out, err := uc.Execute(ctx, ImportInput{
		UserID: "u1",
		Rows: []RawRow{
			{"p": "5551234567", "st": "Hot Prospect"},
			{"p": "5551234568", "st": "qualified"},
		},
		Mapping: Mapping{FieldPhone: "p", FieldStatus: "st"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, out.UnknownStatus)
	require.Len(t, upserted, 2)
	assert.Equal(t, entity.StatusActive, upserted[0].Status)
	assert.Equal(t, []string{"Hot Prospect"}, upserted[0].Tags)
	assert.Equal(t, entity.StatusQualified, upserted[1].Status)
	assert.Empty(t, upserted[1].Tags)
}
