package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"portfolio/internal/cache"
	"portfolio/internal/domain/models"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/metrics"
	"portfolio/internal/repository"
	"portfolio/internal/storage"
	filestorage "portfolio/internal/storage/filestorage"
	"portfolio/internal/transport/http/dto"
)

// CatalogService управляет разделами и работами: создание в конец списка,
// каскадное удаление с освобождением файлов, переупорядочивание
type CatalogService struct {
	log      *slog.Logger
	sections repository.SectionRepository
	items    repository.ItemRepository
	files    filestorage.FileStorage
	cache    cache.Cache
}

func NewCatalogService(
	log *slog.Logger,
	sections repository.SectionRepository,
	items repository.ItemRepository,
	files filestorage.FileStorage,
	cache cache.Cache,
) *CatalogService {
	return &CatalogService{
		log:      log,
		sections: sections,
		items:    items,
		files:    files,
		cache:    cache,
	}
}

func (s *CatalogService) ListSections(ctx context.Context) ([]models.Section, error) {
	const op = "catalog_service.ListSections"

	sections, err := s.sections.ListSections(ctx, false)
	if err != nil {
		s.log.Error("failed to list sections", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sections, nil
}

func (s *CatalogService) CreateSection(ctx context.Context, in dto.SectionInput) (models.Section, error) {
	const op = "catalog_service.CreateSection"

	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", in.Slug),
	)

	log.Info("creating section")

	section, err := s.sections.CreateSection(ctx, in.ToDomain())
	if err != nil {
		if errors.Is(err, storage.ErrSlugTaken) {
			log.Warn("slug already taken")
		} else {
			log.Error("failed to create section", sl.Err(err))
		}
		return models.Section{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	log.Info("section created", slog.Int64("section_id", section.ID), slog.Int("position", section.Position))

	return section, nil
}

func (s *CatalogService) UpdateSection(ctx context.Context, id int64, in dto.SectionInput) (models.Section, error) {
	const op = "catalog_service.UpdateSection"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("section_id", id),
	)

	section := in.ToDomain()
	section.ID = id

	updated, err := s.sections.UpdateSection(ctx, section)
	if err != nil {
		log.Error("failed to update section", sl.Err(err))
		return models.Section{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	return updated, nil
}

// DeleteSection удаляет раздел вместе с работами, медиа и их файлами
func (s *CatalogService) DeleteSection(ctx context.Context, id int64) error {
	const op = "catalog_service.DeleteSection"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("section_id", id),
	)

	log.Info("deleting section")

	if err := s.sections.DeleteSection(ctx, id, s.releaseFiles(log)); err != nil {
		log.Error("failed to delete section", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	log.Info("section deleted")

	return nil
}

func (s *CatalogService) ReorderSections(ctx context.Context, ids []int64) (int64, error) {
	const op = "catalog_service.ReorderSections"

	return s.reorder(ctx, op, "sections", ids, s.sections.ReorderSections)
}

func (s *CatalogService) ListItems(ctx context.Context, sectionID int64) ([]models.Item, error) {
	const op = "catalog_service.ListItems"

	if _, err := s.sections.SectionByID(ctx, sectionID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.items.ListItems(ctx, sectionID, false)
	if err != nil {
		s.log.Error("failed to list items", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (s *CatalogService) GetItem(ctx context.Context, id int64) (models.Item, error) {
	const op = "catalog_service.GetItem"

	item, err := s.items.ItemByID(ctx, id)
	if err != nil {
		return models.Item{}, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

func (s *CatalogService) CreateItem(ctx context.Context, sectionID int64, in dto.ItemInput) (models.Item, error) {
	const op = "catalog_service.CreateItem"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("section_id", sectionID),
		slog.String("slug", in.Slug),
	)

	log.Info("creating item")

	item := in.ToDomain()
	item.SectionID = sectionID

	created, err := s.items.CreateItem(ctx, item)
	if err != nil {
		log.Error("failed to create item", sl.Err(err))
		return models.Item{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	log.Info("item created", slog.Int64("item_id", created.ID), slog.Int("position", created.Position))

	return created, nil
}

// UpdateItem обновляет работу. Без section_id работа остается в своем разделе
func (s *CatalogService) UpdateItem(ctx context.Context, id int64, in dto.ItemInput) (models.Item, error) {
	const op = "catalog_service.UpdateItem"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("item_id", id),
	)

	item := in.ToDomain()
	item.ID = id

	if item.SectionID == 0 {
		current, err := s.items.ItemByID(ctx, id)
		if err != nil {
			return models.Item{}, fmt.Errorf("%s: %w", op, err)
		}
		item.SectionID = current.SectionID
	}

	updated, err := s.items.UpdateItem(ctx, item)
	if err != nil {
		log.Error("failed to update item", sl.Err(err))
		return models.Item{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	return updated, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, id int64) error {
	const op = "catalog_service.DeleteItem"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("item_id", id),
	)

	log.Info("deleting item")

	if err := s.items.DeleteItem(ctx, id, s.releaseFiles(log)); err != nil {
		log.Error("failed to delete item", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *CatalogService) ReorderItems(ctx context.Context, ids []int64) (int64, error) {
	const op = "catalog_service.ReorderItems"

	return s.reorder(ctx, op, "items", ids, s.items.ReorderItems)
}

func (s *CatalogService) reorder(ctx context.Context, op, collection string, ids []int64, apply func(context.Context, []int64) (int64, error)) (int64, error) {
	log := s.log.With(
		slog.String("op", op),
		slog.Int("count", len(ids)),
	)

	updated, err := apply(ctx, ids)
	metrics.ObserveReorder(collection, err)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrScopeMismatch), errors.Is(err, storage.ErrDuplicateID):
			log.Warn("reorder rejected", sl.Err(err))
		default:
			log.Error("failed to reorder", sl.Err(err))
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if updated > 0 {
		s.invalidate(ctx)
	}

	log.Info("reordered", slog.Int64("updated", updated))

	return updated, nil
}

// releaseFiles удаляет файлы медиа. Ошибки только логируются: удаление в базе не прерывается
func (s *CatalogService) releaseFiles(log *slog.Logger) repository.MediaReleaser {
	return func(ctx context.Context, media []models.Media) {
		for _, m := range media {
			if err := s.files.Delete(ctx, m.StoragePath); err != nil {
				if errors.Is(err, storage.ErrFileNotFound) {
					log.Debug("media file already gone", slog.String("path", m.StoragePath))
					continue
				}
				log.Warn("failed to delete media file",
					slog.Int64("media_id", m.ID),
					slog.String("path", m.StoragePath),
					sl.Err(err),
				)
			}
		}
	}
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidatePrefix(ctx, cache.PublicPrefix); err != nil {
		s.log.Warn("failed to invalidate public cache", sl.Err(err))
	}
}
