package repository

import (
	"context"

	"portfolio/internal/domain/models"
)

// MediaReleaser освобождает файлы удаляемых медиа. Вызывается до удаления строк,
// ошибки обрабатывает сам и удаление в базе не прерывает
type MediaReleaser func(ctx context.Context, media []models.Media)

type SectionRepository interface {
	CreateSection(ctx context.Context, section models.Section) (models.Section, error)
	UpdateSection(ctx context.Context, section models.Section) (models.Section, error)
	SectionByID(ctx context.Context, id int64) (models.Section, error)
	SectionBySlug(ctx context.Context, slug string) (models.Section, error)
	ListSections(ctx context.Context, onlyVisible bool) ([]models.Section, error)
	DeleteSection(ctx context.Context, id int64, release MediaReleaser) error
	ReorderSections(ctx context.Context, ids []int64) (int64, error)
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item models.Item) (models.Item, error)
	UpdateItem(ctx context.Context, item models.Item) (models.Item, error)
	ItemByID(ctx context.Context, id int64) (models.Item, error)
	ItemBySlug(ctx context.Context, slug string) (models.Item, error)
	ListItems(ctx context.Context, sectionID int64, onlyPublished bool) ([]models.Item, error)
	DeleteItem(ctx context.Context, id int64, release MediaReleaser) error
	ReorderItems(ctx context.Context, ids []int64) (int64, error)
}

type MediaRepository interface {
	CreateMedia(ctx context.Context, media models.Media) (models.Media, error)
	UpdateMedia(ctx context.Context, media models.Media) (models.Media, error)
	MediaByID(ctx context.Context, id int64) (models.Media, error)
	ListMedia(ctx context.Context, itemID int64) ([]models.Media, error)
	DeleteMedia(ctx context.Context, id int64) (models.Media, error)
	ReorderMedia(ctx context.Context, ids []int64) (int64, error)
}

type NewsRepository interface {
	CreateNews(ctx context.Context, news models.News) (models.News, error)
	UpdateNews(ctx context.Context, news models.News) (models.News, error)
	NewsByID(ctx context.Context, id int64) (models.News, error)
	NewsBySlug(ctx context.Context, slug string) (models.News, error)
	ListNews(ctx context.Context, filter NewsFilter) ([]models.News, int, error)
	DeleteNews(ctx context.Context, id int64) error
}

type InfoRepository interface {
	CreateInfoEntry(ctx context.Context, entry models.InfoEntry) (models.InfoEntry, error)
	UpdateInfoEntry(ctx context.Context, entry models.InfoEntry) (models.InfoEntry, error)
	InfoEntryByID(ctx context.Context, id int64) (models.InfoEntry, error)
	ListInfoEntries(ctx context.Context, kind models.InfoKind) ([]models.InfoEntry, error)
	DeleteInfoEntry(ctx context.Context, id int64) error
	ReorderInfoEntries(ctx context.Context, ids []int64) (int64, error)
	About(ctx context.Context) (models.About, error)
	SaveAbout(ctx context.Context, about models.About) (models.About, error)
}

type AdminRepository interface {
	AdminByLogin(ctx context.Context, login string) (models.Admin, error)
	SaveAdmin(ctx context.Context, login string, passwordHash []byte) (int64, error)
	TouchLastLogin(ctx context.Context, id int64) error
}
