package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"portfolio/internal/cache"
	"portfolio/internal/domain/models"
	"portfolio/internal/repository"
	services "portfolio/internal/services/site_service"
	"portfolio/internal/storage"
	"portfolio/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSectionRepository struct {
	mock.Mock
}

func (m *MockSectionRepository) CreateSection(ctx context.Context, section models.Section) (models.Section, error) {
	args := m.Called(ctx, section)
	return args.Get(0).(models.Section), args.Error(1)
}

func (m *MockSectionRepository) UpdateSection(ctx context.Context, section models.Section) (models.Section, error) {
	args := m.Called(ctx, section)
	return args.Get(0).(models.Section), args.Error(1)
}

func (m *MockSectionRepository) SectionByID(ctx context.Context, id int64) (models.Section, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Section), args.Error(1)
}

func (m *MockSectionRepository) SectionBySlug(ctx context.Context, slug string) (models.Section, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Section), args.Error(1)
}

func (m *MockSectionRepository) ListSections(ctx context.Context, onlyVisible bool) ([]models.Section, error) {
	args := m.Called(ctx, onlyVisible)
	return args.Get(0).([]models.Section), args.Error(1)
}

func (m *MockSectionRepository) DeleteSection(ctx context.Context, id int64, release repository.MediaReleaser) error {
	args := m.Called(ctx, id, release)
	return args.Error(0)
}

func (m *MockSectionRepository) ReorderSections(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) CreateItem(ctx context.Context, item models.Item) (models.Item, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(models.Item), args.Error(1)
}

func (m *MockItemRepository) UpdateItem(ctx context.Context, item models.Item) (models.Item, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(models.Item), args.Error(1)
}

func (m *MockItemRepository) ItemByID(ctx context.Context, id int64) (models.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Item), args.Error(1)
}

func (m *MockItemRepository) ItemBySlug(ctx context.Context, slug string) (models.Item, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Item), args.Error(1)
}

func (m *MockItemRepository) ListItems(ctx context.Context, sectionID int64, onlyPublished bool) ([]models.Item, error) {
	args := m.Called(ctx, sectionID, onlyPublished)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemRepository) DeleteItem(ctx context.Context, id int64, release repository.MediaReleaser) error {
	args := m.Called(ctx, id, release)
	return args.Error(0)
}

func (m *MockItemRepository) ReorderItems(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) CreateMedia(ctx context.Context, media models.Media) (models.Media, error) {
	args := m.Called(ctx, media)
	return args.Get(0).(models.Media), args.Error(1)
}

func (m *MockMediaRepository) UpdateMedia(ctx context.Context, media models.Media) (models.Media, error) {
	args := m.Called(ctx, media)
	return args.Get(0).(models.Media), args.Error(1)
}

func (m *MockMediaRepository) MediaByID(ctx context.Context, id int64) (models.Media, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Media), args.Error(1)
}

func (m *MockMediaRepository) ListMedia(ctx context.Context, itemID int64) ([]models.Media, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]models.Media), args.Error(1)
}

func (m *MockMediaRepository) DeleteMedia(ctx context.Context, id int64) (models.Media, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Media), args.Error(1)
}

func (m *MockMediaRepository) ReorderMedia(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockNewsRepository struct {
	mock.Mock
}

func (m *MockNewsRepository) CreateNews(ctx context.Context, news models.News) (models.News, error) {
	args := m.Called(ctx, news)
	return args.Get(0).(models.News), args.Error(1)
}

func (m *MockNewsRepository) UpdateNews(ctx context.Context, news models.News) (models.News, error) {
	args := m.Called(ctx, news)
	return args.Get(0).(models.News), args.Error(1)
}

func (m *MockNewsRepository) NewsByID(ctx context.Context, id int64) (models.News, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.News), args.Error(1)
}

func (m *MockNewsRepository) NewsBySlug(ctx context.Context, slug string) (models.News, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.News), args.Error(1)
}

func (m *MockNewsRepository) ListNews(ctx context.Context, filter repository.NewsFilter) ([]models.News, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.News), args.Int(1), args.Error(2)
}

func (m *MockNewsRepository) DeleteNews(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

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

type siteMocks struct {
	sections *MockSectionRepository
	items    *MockItemRepository
	media    *MockMediaRepository
	news     *MockNewsRepository
	info     *MockInfoRepository
	cache    *cache.MemoryCache
}

func setupSite() (*services.SiteService, *siteMocks) {
	m := &siteMocks{
		sections: new(MockSectionRepository),
		items:    new(MockItemRepository),
		media:    new(MockMediaRepository),
		news:     new(MockNewsRepository),
		info:     new(MockInfoRepository),
		cache:    cache.NewMemoryCache(time.Minute),
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := services.NewSiteService(log, m.sections, m.items, m.media, m.news, m.info, m.cache, time.Minute)

	return svc, m
}

func TestSiteService_Sections_Cached(t *testing.T) {
	ctx := context.Background()
	svc, m := setupSite()

	m.sections.On("ListSections", ctx, true).
		Return([]models.Section{{ID: 2, Slug: "graphics", Position: 0}, {ID: 1, Slug: "painting", Position: 1}}, nil).Once()

	first, err := svc.Sections(ctx)
	require.NoError(t, err)

	second, err := svc.Sections(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "graphics", second[0].Slug)
	m.sections.AssertNumberOfCalls(t, "ListSections", 1)

	require.NoError(t, m.cache.InvalidatePrefix(ctx, cache.PublicPrefix))

	m.sections.On("ListSections", ctx, true).Return([]models.Section{}, nil).Once()

	third, err := svc.Sections(ctx)
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestSiteService_SectionPage(t *testing.T) {
	ctx := context.Background()

	t.Run("visible section with published items", func(t *testing.T) {
		svc, m := setupSite()

		m.sections.On("SectionBySlug", ctx, "painting").
			Return(models.Section{ID: 1, Slug: "painting", IsVisible: true}, nil).Once()
		m.items.On("ListItems", ctx, int64(1), true).
			Return([]models.Item{{ID: 5, SectionID: 1, IsPublished: true}}, nil).Once()

		page, err := svc.SectionPage(ctx, "painting")
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Section.ID)
		assert.Len(t, page.Items, 1)
	})

	t.Run("hidden section looks missing", func(t *testing.T) {
		svc, m := setupSite()

		m.sections.On("SectionBySlug", ctx, "drafts").
			Return(models.Section{ID: 2, Slug: "drafts", IsVisible: false}, nil).Once()

		_, err := svc.SectionPage(ctx, "drafts")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		m.items.AssertNotCalled(t, "ListItems", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		svc, m := setupSite()

		m.sections.On("SectionBySlug", ctx, "ghost").Return(models.Section{}, storage.ErrNotFound).Twice()

		_, err := svc.SectionPage(ctx, "ghost")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = svc.SectionPage(ctx, "ghost")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		m.sections.AssertExpectations(t)
	})
}

func TestSiteService_ItemPage(t *testing.T) {
	ctx := context.Background()

	t.Run("published item with media", func(t *testing.T) {
		svc, m := setupSite()

		m.items.On("ItemBySlug", ctx, "still-life").
			Return(models.Item{ID: 5, SectionID: 1, IsPublished: true}, nil).Once()
		m.sections.On("SectionByID", ctx, int64(1)).Return(models.Section{ID: 1, IsVisible: true}, nil).Once()
		m.media.On("ListMedia", ctx, int64(5)).
			Return([]models.Media{{ID: 2, Position: 0}, {ID: 1, Position: 1}}, nil).Once()

		page, err := svc.ItemPage(ctx, "still-life")
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Media[0].ID)
	})

	t.Run("unpublished item", func(t *testing.T) {
		svc, m := setupSite()

		m.items.On("ItemBySlug", ctx, "draft").Return(models.Item{ID: 6, IsPublished: false}, nil).Once()

		_, err := svc.ItemPage(ctx, "draft")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestSiteService_News(t *testing.T) {
	ctx := context.Background()
	svc, m := setupSite()

	m.news.On("ListNews", ctx, repository.NewsFilter{Page: 1, PerPage: 10, Tag: "fair", OnlyPublished: true}).
		Return([]models.News{{ID: 3}}, 1, nil).Once()

	page, err := svc.News(ctx, dto.NewsListQuery{Tag: "fair"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 10, page.PerPage)

	_, err = svc.News(ctx, dto.NewsListQuery{Page: 1, PerPage: 10, Tag: "fair"})
	require.NoError(t, err)
	m.news.AssertNumberOfCalls(t, "ListNews", 1)
}

func TestSiteService_NewsBySlug_Unpublished(t *testing.T) {
	ctx := context.Background()
	svc, m := setupSite()

	m.news.On("NewsBySlug", ctx, "draft").Return(models.News{ID: 1, IsPublished: false}, nil).Once()

	_, err := svc.NewsBySlug(ctx, "draft")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSiteService_Info(t *testing.T) {
	ctx := context.Background()
	svc, m := setupSite()

	_, err := svc.Info(ctx, models.InfoKind("unknown"))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	m.info.On("ListInfoEntries", ctx, models.InfoKindAward).
		Return([]models.InfoEntry{{ID: 1, Kind: models.InfoKindAward}}, nil).Once()

	entries, err := svc.Info(ctx, models.InfoKindAward)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
