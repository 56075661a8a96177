package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"

	"portfolio/internal/cache"
	"portfolio/internal/domain/models"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/metrics"
	"portfolio/internal/repository"
	"portfolio/internal/storage"
	filestorage "portfolio/internal/storage/filestorage"
	"portfolio/internal/transport/http/dto"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// sniffLen сколько байт читается для определения типа файла
const sniffLen = 3072

type MediaService struct {
	log         *slog.Logger
	repo        repository.MediaRepository
	fileStorage filestorage.FileStorage
	cache       cache.Cache
	maxSize     int64
}

func NewMediaService(
	log *slog.Logger,
	repo repository.MediaRepository,
	fileStorage filestorage.FileStorage,
	cache cache.Cache,
	maxSize int64,
) *MediaService {
	return &MediaService{
		log:         log,
		repo:        repo,
		fileStorage: fileStorage,
		cache:       cache,
		maxSize:     maxSize,
	}
}

// UploadMedia сохраняет файл и добавляет медиа в конец списка работы.
// Тип определяется по содержимому, заголовок Content-Type клиента не учитывается
func (s *MediaService) UploadMedia(ctx context.Context, input dto.MediaUploadInput) (models.Media, error) {
	const op = "media_service.UploadMedia"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("item_id", input.ItemID),
	)

	if input.File == nil {
		return models.Media{}, fmt.Errorf("%s: %w", op, models.NewValidationError("file is required"))
	}

	log = log.With(slog.String("filename", input.File.Filename), slog.Int64("size", input.File.Size))
	log.Info("upload media")

	if s.maxSize > 0 && input.File.Size > s.maxSize {
		log.Warn("file too large", slog.Int64("max_size", s.maxSize))
		return models.Media{}, fmt.Errorf("%s: %w", op, storage.ErrFileTooLarge)
	}

	src, err := input.File.Open()
	if err != nil {
		log.Error("failed to open uploaded file", sl.Err(err))
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		log.Error("failed to read uploaded file", sl.Err(err))
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	mediaType := models.MediaTypeFromMIME(mtype.String())
	if mediaType == "" {
		log.Warn("unsupported file type", slog.String("mime", mtype.String()))
		return models.Media{}, fmt.Errorf("%s: %w", op, storage.ErrInvalidFileType)
	}

	relPath := path.Join("items", strconv.FormatInt(input.ItemID, 10), uuid.NewString()+mtype.Extension())

	written, err := s.fileStorage.Save(ctx, io.MultiReader(bytes.NewReader(head), src), relPath, mtype.String())
	if err != nil {
		log.Error("failed to save file", sl.Err(err))
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.maxSize > 0 && written > s.maxSize {
		s.removeFile(ctx, log, relPath)
		return models.Media{}, fmt.Errorf("%s: %w", op, storage.ErrFileTooLarge)
	}

	media := models.Media{
		ItemID:       input.ItemID,
		MediaType:    mediaType,
		URL:          s.fileStorage.URL(relPath),
		StoragePath:  relPath,
		ThumbnailURL: input.ThumbnailURL,
		Caption:      input.Caption,
		Alt:          input.Alt,
	}

	created, err := s.repo.CreateMedia(ctx, media)
	if err != nil {
		s.removeFile(ctx, log, relPath)
		log.Error("failed to save media to database", sl.Err(err))
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.MediaUploadBytes.WithLabelValues(string(mediaType)).Add(float64(written))
	s.invalidate(ctx)

	log.Info("media uploaded", slog.Int64("media_id", created.ID), slog.Int("position", created.Position))

	return created, nil
}

func (s *MediaService) UpdateMedia(ctx context.Context, id int64, input dto.MediaUpdateInput) (models.Media, error) {
	const op = "media_service.UpdateMedia"

	media, err := s.repo.UpdateMedia(ctx, models.Media{
		ID:           id,
		ThumbnailURL: input.ThumbnailURL,
		Caption:      input.Caption,
		Alt:          input.Alt,
	})
	if err != nil {
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	return media, nil
}

func (s *MediaService) ListMedia(ctx context.Context, itemID int64) ([]models.Media, error) {
	const op = "media_service.ListMedia"

	media, err := s.repo.ListMedia(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return media, nil
}

// DeleteMedia удаляет запись и затем файл. Ошибка удаления файла только логируется
func (s *MediaService) DeleteMedia(ctx context.Context, id int64) error {
	const op = "media_service.DeleteMedia"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("media_id", id),
	)

	media, err := s.repo.DeleteMedia(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Error("failed to delete media", sl.Err(err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.removeFile(ctx, log, media.StoragePath)
	s.invalidate(ctx)

	log.Info("media deleted")

	return nil
}

func (s *MediaService) ReorderMedia(ctx context.Context, ids []int64) (int64, error) {
	const op = "media_service.ReorderMedia"

	log := s.log.With(
		slog.String("op", op),
		slog.Int("count", len(ids)),
	)

	updated, err := s.repo.ReorderMedia(ctx, ids)
	metrics.ObserveReorder("media", err)
	if err != nil {
		log.Warn("reorder failed", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if updated > 0 {
		s.invalidate(ctx)
	}

	return updated, nil
}

func (s *MediaService) removeFile(ctx context.Context, log *slog.Logger, relPath string) {
	if err := s.fileStorage.Delete(ctx, relPath); err != nil && !errors.Is(err, storage.ErrFileNotFound) {
		log.Warn("failed to delete file", slog.String("path", relPath), sl.Err(err))
	}
}

func (s *MediaService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidatePrefix(ctx, cache.PublicPrefix); err != nil {
		s.log.Warn("failed to invalidate public cache", sl.Err(err))
	}
}
