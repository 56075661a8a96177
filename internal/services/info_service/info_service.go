package services

import (
	"context"
	"fmt"
	"log/slog"

	"portfolio/internal/cache"
	"portfolio/internal/domain/models"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/metrics"
	"portfolio/internal/repository"
	"portfolio/internal/transport/http/dto"
)

// InfoService ведет информационную страницу: записи по видам и текст "о себе"
type InfoService struct {
	log   *slog.Logger
	repo  repository.InfoRepository
	cache cache.Cache
}

func NewInfoService(log *slog.Logger, repo repository.InfoRepository, cache cache.Cache) *InfoService {
	return &InfoService{
		log:   log,
		repo:  repo,
		cache: cache,
	}
}

func (s *InfoService) ListEntries(ctx context.Context, kind models.InfoKind) ([]models.InfoEntry, error) {
	const op = "info_service.ListEntries"

	if !kind.Valid() {
		return nil, fmt.Errorf("%s: %w", op, models.NewValidationError(fmt.Sprintf("unknown kind '%s'", kind)))
	}

	entries, err := s.repo.ListInfoEntries(ctx, kind)
	if err != nil {
		s.log.Error("failed to list info entries", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}

func (s *InfoService) CreateEntry(ctx context.Context, in dto.InfoEntryInput) (models.InfoEntry, error) {
	const op = "info_service.CreateEntry"

	log := s.log.With(
		slog.String("op", op),
		slog.String("kind", in.Kind),
	)

	entry, err := s.repo.CreateInfoEntry(ctx, in.ToDomain())
	if err != nil {
		log.Error("failed to create info entry", sl.Err(err))
		return models.InfoEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	log.Info("info entry created", slog.Int64("entry_id", entry.ID), slog.Int("position", entry.Position))

	return entry, nil
}

func (s *InfoService) UpdateEntry(ctx context.Context, id int64, in dto.InfoEntryInput) (models.InfoEntry, error) {
	const op = "info_service.UpdateEntry"

	entry := in.ToDomain()
	entry.ID = id

	updated, err := s.repo.UpdateInfoEntry(ctx, entry)
	if err != nil {
		return models.InfoEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	return updated, nil
}

func (s *InfoService) DeleteEntry(ctx context.Context, id int64) error {
	const op = "info_service.DeleteEntry"

	if err := s.repo.DeleteInfoEntry(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	return nil
}

// ReorderEntries переупорядочивает записи одного вида. Смешение видов отклоняется репозиторием
func (s *InfoService) ReorderEntries(ctx context.Context, ids []int64) (int64, error) {
	const op = "info_service.ReorderEntries"

	updated, err := s.repo.ReorderInfoEntries(ctx, ids)
	metrics.ObserveReorder("info", err)
	if err != nil {
		s.log.Warn("reorder failed", slog.String("op", op), sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if updated > 0 {
		s.invalidate(ctx)
	}

	return updated, nil
}

func (s *InfoService) About(ctx context.Context) (models.About, error) {
	const op = "info_service.About"

	about, err := s.repo.About(ctx)
	if err != nil {
		return models.About{}, fmt.Errorf("%s: %w", op, err)
	}

	return about, nil
}

func (s *InfoService) SaveAbout(ctx context.Context, in dto.AboutInput) (models.About, error) {
	const op = "info_service.SaveAbout"

	about, err := s.repo.SaveAbout(ctx, models.About{Body: in.Body, PhotoURL: in.PhotoURL})
	if err != nil {
		s.log.Error("failed to save about", slog.String("op", op), sl.Err(err))
		return models.About{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	return about, nil
}

func (s *InfoService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidatePrefix(ctx, cache.PublicPrefix); err != nil {
		s.log.Warn("failed to invalidate public cache", sl.Err(err))
	}
}
