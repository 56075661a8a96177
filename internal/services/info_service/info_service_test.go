package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"portfolio/internal/domain/models"
	services "portfolio/internal/services/info_service"
	"portfolio/internal/storage"
	"portfolio/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockInfoRepository struct {
	mock.Mock
}

func (m *MockInfoRepository) CreateInfoEntry(ctx context.Context, entry models.InfoEntry) (models.InfoEntry, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(models.InfoEntry), args.Error(1)
}

func (m *MockInfoRepository) UpdateInfoEntry(ctx context.Context, entry models.InfoEntry) (models.InfoEntry, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(models.InfoEntry), args.Error(1)
}

func (m *MockInfoRepository) InfoEntryByID(ctx context.Context, id int64) (models.InfoEntry, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.InfoEntry), args.Error(1)
}

func (m *MockInfoRepository) ListInfoEntries(ctx context.Context, kind models.InfoKind) ([]models.InfoEntry, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).([]models.InfoEntry), args.Error(1)
}

func (m *MockInfoRepository) DeleteInfoEntry(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInfoRepository) ReorderInfoEntries(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInfoRepository) About(ctx context.Context) (models.About, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.About), args.Error(1)
}

func (m *MockInfoRepository) SaveAbout(ctx context.Context, about models.About) (models.About, error) {
	args := m.Called(ctx, about)
	return args.Get(0).(models.About), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	args := m.Called(ctx, key, dst)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}

func setupInfoService() (*services.InfoService, *MockInfoRepository, *MockCache) {
	repo := new(MockInfoRepository)
	c := new(MockCache)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return services.NewInfoService(log, repo, c), repo, c
}

func TestInfoService_ListEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("known kind", func(t *testing.T) {
		svc, repo, _ := setupInfoService()

		repo.On("ListInfoEntries", ctx, models.InfoKindAward).
			Return([]models.InfoEntry{{ID: 1, Kind: models.InfoKindAward}}, nil).Once()

		entries, err := svc.ListEntries(ctx, models.InfoKindAward)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("unknown kind", func(t *testing.T) {
		svc, repo, _ := setupInfoService()

		_, err := svc.ListEntries(ctx, models.InfoKind("gossip"))
		assert.True(t, models.IsValidationError(err))
		repo.AssertNotCalled(t, "ListInfoEntries", mock.Anything, mock.Anything)
	})
}

func TestInfoService_CreateEntry(t *testing.T) {
	ctx := context.Background()
	svc, repo, c := setupInfoService()

	year := 2021
	repo.On("CreateInfoEntry", ctx, models.InfoEntry{Kind: models.InfoKindFair, Title: "Cosmoscow", Year: &year}).
		Return(models.InfoEntry{ID: 3, Kind: models.InfoKindFair, Position: 1}, nil).Once()
	c.On("InvalidatePrefix", ctx, "public:").Return(nil).Once()

	entry, err := svc.CreateEntry(ctx, dto.InfoEntryInput{Kind: "fair", Title: "Cosmoscow", Year: &year})
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Position)
	repo.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestInfoService_ReorderEntries(t *testing.T) {
	ctx := context.Background()
	svc, repo, c := setupInfoService()

	repo.On("ReorderInfoEntries", ctx, []int64{1, 2}).Return(int64(0), storage.ErrScopeMismatch).Once()

	_, err := svc.ReorderEntries(ctx, []int64{1, 2})
	assert.ErrorIs(t, err, storage.ErrScopeMismatch)
	c.AssertNotCalled(t, "InvalidatePrefix", mock.Anything, mock.Anything)
}

func TestInfoService_SaveAbout(t *testing.T) {
	ctx := context.Background()
	svc, repo, c := setupInfoService()

	photo := "/uploads/about.jpg"
	repo.On("SaveAbout", ctx, models.About{Body: "Художник", PhotoURL: &photo}).
		Return(models.About{Body: "Художник", PhotoURL: &photo}, nil).Once()
	c.On("InvalidatePrefix", ctx, "public:").Return(nil).Once()

	about, err := svc.SaveAbout(ctx, dto.AboutInput{Body: "Художник", PhotoURL: &photo})
	require.NoError(t, err)
	assert.Equal(t, "Художник", about.Body)
	repo.AssertExpectations(t)
}
