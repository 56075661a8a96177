package services

import (
	"context"
	"fmt"
	"log/slog"

	"portfolio/internal/cache"
	"portfolio/internal/domain/models"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/repository"
	"portfolio/internal/transport/http/dto"
)

type NewsService struct {
	log   *slog.Logger
	repo  repository.NewsRepository
	cache cache.Cache
}

func NewNewsService(log *slog.Logger, repo repository.NewsRepository, cache cache.Cache) *NewsService {
	return &NewsService{
		log:   log,
		repo:  repo,
		cache: cache,
	}
}

func (s *NewsService) CreateNews(ctx context.Context, in dto.NewsInput) (models.News, error) {
	const op = "news_service.CreateNews"

	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", in.Slug),
	)

	log.Info("creating news")

	news, err := s.repo.CreateNews(ctx, in.ToDomain())
	if err != nil {
		log.Error("failed to create news", sl.Err(err))
		return models.News{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	log.Info("news created", slog.Int64("news_id", news.ID))

	return news, nil
}

func (s *NewsService) UpdateNews(ctx context.Context, id int64, in dto.NewsInput) (models.News, error) {
	const op = "news_service.UpdateNews"

	news := in.ToDomain()
	news.ID = id

	updated, err := s.repo.UpdateNews(ctx, news)
	if err != nil {
		s.log.Error("failed to update news", slog.String("op", op), slog.Int64("news_id", id), sl.Err(err))
		return models.News{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	return updated, nil
}

func (s *NewsService) GetNews(ctx context.Context, id int64) (models.News, error) {
	const op = "news_service.GetNews"

	news, err := s.repo.NewsByID(ctx, id)
	if err != nil {
		return models.News{}, fmt.Errorf("%s: %w", op, err)
	}

	return news, nil
}

// ListNews все новости, включая черновики, от новых к старым
func (s *NewsService) ListNews(ctx context.Context, q dto.NewsListQuery) (dto.NewsPage, error) {
	const op = "news_service.ListNews"

	filter := repository.NewsFilter{Page: q.Page, PerPage: q.PerPage, Tag: q.Tag}

	items, total, err := s.repo.ListNews(ctx, filter)
	if err != nil {
		s.log.Error("failed to list news", slog.String("op", op), sl.Err(err))
		return dto.NewsPage{}, fmt.Errorf("%s: %w", op, err)
	}

	return newsPage(items, total, q), nil
}

func (s *NewsService) DeleteNews(ctx context.Context, id int64) error {
	const op = "news_service.DeleteNews"

	if err := s.repo.DeleteNews(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	s.log.Info("news deleted", slog.String("op", op), slog.Int64("news_id", id))

	return nil
}

func (s *NewsService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidatePrefix(ctx, cache.PublicPrefix); err != nil {
		s.log.Warn("failed to invalidate public cache", sl.Err(err))
	}
}

// newsPage повторяет нормализацию страницы из репозитория, чтобы ответ показывал фактические page и per_page
func newsPage(items []models.News, total int, q dto.NewsListQuery) dto.NewsPage {
	page, perPage := q.Page, q.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	return dto.NewsPage{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
