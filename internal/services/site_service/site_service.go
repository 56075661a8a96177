package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"portfolio/internal/cache"
	"portfolio/internal/domain/models"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/metrics"
	"portfolio/internal/repository"
	"portfolio/internal/storage"
	"portfolio/internal/transport/http/dto"
)

// SiteService отдает публичные страницы: только видимые разделы и опубликованный контент.
// Ответы кешируются под префиксом cache.PublicPrefix
type SiteService struct {
	log      *slog.Logger
	sections repository.SectionRepository
	items    repository.ItemRepository
	media    repository.MediaRepository
	news     repository.NewsRepository
	info     repository.InfoRepository
	cache    cache.Cache
	ttl      time.Duration
}

func NewSiteService(
	log *slog.Logger,
	sections repository.SectionRepository,
	items repository.ItemRepository,
	media repository.MediaRepository,
	news repository.NewsRepository,
	info repository.InfoRepository,
	cache cache.Cache,
	ttl time.Duration,
) *SiteService {
	return &SiteService{
		log:      log,
		sections: sections,
		items:    items,
		media:    media,
		news:     news,
		info:     info,
		cache:    cache,
		ttl:      ttl,
	}
}

// cached читает ключ из кеша, при промахе вызывает load и сохраняет результат.
// Ошибки кеша не мешают ответу
func cached[T any](ctx context.Context, s *SiteService, key string, load func() (T, error)) (T, error) {
	var value T

	found, err := s.cache.Get(ctx, key, &value)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		s.log.Warn("cache lookup failed", slog.String("key", key), sl.Err(err))
	case found:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return value, nil
	default:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	value, err = load()
	if err != nil {
		return value, err
	}

	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("cache store failed", slog.String("key", key), sl.Err(err))
	}

	return value, nil
}

func (s *SiteService) Sections(ctx context.Context) ([]models.Section, error) {
	const op = "site_service.Sections"

	sections, err := cached(ctx, s, cache.PublicPrefix+"sections", func() ([]models.Section, error) {
		return s.sections.ListSections(ctx, true)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sections, nil
}

// SectionPage видимый раздел с опубликованными работами. Скрытый раздел не отличается от отсутствующего
func (s *SiteService) SectionPage(ctx context.Context, slug string) (models.SectionPage, error) {
	const op = "site_service.SectionPage"

	page, err := cached(ctx, s, cache.PublicPrefix+"section:"+slug, func() (models.SectionPage, error) {
		section, err := s.sections.SectionBySlug(ctx, slug)
		if err != nil {
			return models.SectionPage{}, err
		}
		if !section.IsVisible {
			return models.SectionPage{}, storage.ErrNotFound
		}

		items, err := s.items.ListItems(ctx, section.ID, true)
		if err != nil {
			return models.SectionPage{}, err
		}

		return models.SectionPage{Section: section, Items: items}, nil
	})
	if err != nil {
		return models.SectionPage{}, fmt.Errorf("%s: %w", op, err)
	}

	return page, nil
}

func (s *SiteService) ItemPage(ctx context.Context, slug string) (models.ItemPage, error) {
	const op = "site_service.ItemPage"

	page, err := cached(ctx, s, cache.PublicPrefix+"item:"+slug, func() (models.ItemPage, error) {
		item, err := s.items.ItemBySlug(ctx, slug)
		if err != nil {
			return models.ItemPage{}, err
		}
		if !item.IsPublished {
			return models.ItemPage{}, storage.ErrNotFound
		}

		section, err := s.sections.SectionByID(ctx, item.SectionID)
		if err != nil {
			return models.ItemPage{}, err
		}
		if !section.IsVisible {
			return models.ItemPage{}, storage.ErrNotFound
		}

		media, err := s.media.ListMedia(ctx, item.ID)
		if err != nil {
			return models.ItemPage{}, err
		}

		return models.ItemPage{Item: item, Media: media}, nil
	})
	if err != nil {
		return models.ItemPage{}, fmt.Errorf("%s: %w", op, err)
	}

	return page, nil
}

func (s *SiteService) News(ctx context.Context, q dto.NewsListQuery) (dto.NewsPage, error) {
	const op = "site_service.News"

	page, perPage := q.Page, q.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	key := cache.PublicPrefix + "news:" + strconv.Itoa(page) + ":" + strconv.Itoa(perPage) + ":" + q.Tag

	result, err := cached(ctx, s, key, func() (dto.NewsPage, error) {
		items, total, err := s.news.ListNews(ctx, repository.NewsFilter{
			Page:          page,
			PerPage:       perPage,
			Tag:           q.Tag,
			OnlyPublished: true,
		})
		if err != nil {
			return dto.NewsPage{}, err
		}

		return dto.NewsPage{Items: items, Total: total, Page: page, PerPage: perPage}, nil
	})
	if err != nil {
		return dto.NewsPage{}, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *SiteService) NewsBySlug(ctx context.Context, slug string) (models.News, error) {
	const op = "site_service.NewsBySlug"

	news, err := cached(ctx, s, cache.PublicPrefix+"news-item:"+slug, func() (models.News, error) {
		news, err := s.news.NewsBySlug(ctx, slug)
		if err != nil {
			return models.News{}, err
		}
		if !news.IsPublished {
			return models.News{}, storage.ErrNotFound
		}
		return news, nil
	})
	if err != nil {
		return models.News{}, fmt.Errorf("%s: %w", op, err)
	}

	return news, nil
}

func (s *SiteService) Info(ctx context.Context, kind models.InfoKind) ([]models.InfoEntry, error) {
	const op = "site_service.Info"

	if !kind.Valid() {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	entries, err := cached(ctx, s, cache.PublicPrefix+"info:"+string(kind), func() ([]models.InfoEntry, error) {
		return s.info.ListInfoEntries(ctx, kind)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}

func (s *SiteService) About(ctx context.Context) (models.About, error) {
	const op = "site_service.About"

	about, err := cached(ctx, s, cache.PublicPrefix+"about", func() (models.About, error) {
		return s.info.About(ctx)
	})
	if err != nil {
		return models.About{}, fmt.Errorf("%s: %w", op, err)
	}

	return about, nil
}
