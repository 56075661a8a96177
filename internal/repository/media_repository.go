package repository

import (
	"context"
	"fmt"

	"portfolio/internal/domain/models"
	"portfolio/internal/storage"
	"portfolio/internal/storage/postgresql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var mediaColumns = []string{
	"id",
	"item_id",
	"media_type",
	"url",
	"storage_path",
	"thumbnail_url",
	"caption",
	"alt",
	"position",
	"created_at",
	"updated_at",
}

type MediaRepo struct {
	db  *pgxpool.Pool
	sb  sq.StatementBuilderType
	pos *PositionedStore
}

func NewMediaRepository(db *pgxpool.Pool, pos *PositionedStore) *MediaRepo {
	return &MediaRepo{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		pos: pos,
	}
}

// CreateMedia сохраняет загруженный файл в конец списка медиа работы
func (r *MediaRepo) CreateMedia(ctx context.Context, media models.Media) (models.Media, error) {
	const op = "repository.media_repository.CreateMedia"

	if err := media.Validate(); err != nil {
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}

	var created models.Media
	err := postgresql.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := r.pos.LockScope(ctx, tx, MediaCollection, media.ItemID); err != nil {
			return err
		}

		query, args, err := r.sb.Insert("media").
			Columns(
				"item_id",
				"media_type",
				"url",
				"storage_path",
				"thumbnail_url",
				"caption",
				"alt",
				"position",
			).
			Values(
				media.ItemID,
				string(media.MediaType),
				media.URL,
				media.StoragePath,
				media.ThumbnailURL,
				media.Caption,
				media.Alt,
				r.pos.AppendPosition(MediaCollection, media.ItemID),
			).
			Suffix("RETURNING " + columnList(mediaColumns)).
			ToSql()
		if err != nil {
			return err
		}

		created, err = scanMedia(tx.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// UpdateMedia меняет подписи и превью. Файл и позиция не меняются
func (r *MediaRepo) UpdateMedia(ctx context.Context, media models.Media) (models.Media, error) {
	const op = "repository.media_repository.UpdateMedia"

	query, args, err := r.sb.Update("media").
		Set("thumbnail_url", media.ThumbnailURL).
		Set("caption", media.Caption).
		Set("alt", media.Alt).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": media.ID}).
		Suffix("RETURNING " + columnList(mediaColumns)).
		ToSql()
	if err != nil {
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := scanMedia(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Media{}, fmt.Errorf("%s: %w", op, mapWriteErr(err))
	}

	return updated, nil
}

func (r *MediaRepo) MediaByID(ctx context.Context, id int64) (models.Media, error) {
	const op = "repository.media_repository.MediaByID"

	query, args, err := r.sb.Select(mediaColumns...).
		From("media").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}

	media, err := scanMedia(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if postgresql.IsNoRows(err) {
			return models.Media{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}

	return media, nil
}

// ListMedia возвращает медиа работы по position, затем по id
func (r *MediaRepo) ListMedia(ctx context.Context, itemID int64) ([]models.Media, error) {
	const op = "repository.media_repository.ListMedia"

	media, err := listMediaWhere(ctx, r.db, r.sb, sq.Eq{"item_id": itemID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return media, nil
}

// DeleteMedia удаляет строку медиа и уплотняет позиции оставшихся.
// Возвращает удаленную запись, чтобы вызывающий освободил файл
func (r *MediaRepo) DeleteMedia(ctx context.Context, id int64) (models.Media, error) {
	const op = "repository.media_repository.DeleteMedia"

	var deleted models.Media
	err := postgresql.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		current, err := r.MediaByID(ctx, id)
		if err != nil {
			return err
		}

		if err := r.pos.LockScope(ctx, tx, MediaCollection, current.ItemID); err != nil {
			return err
		}

		query, args, err := r.sb.Delete("media").
			Where(sq.Eq{"id": id, "item_id": current.ItemID}).
			Suffix("RETURNING " + columnList(mediaColumns)).
			ToSql()
		if err != nil {
			return err
		}

		deleted, err = scanMedia(tx.QueryRow(ctx, query, args...))
		if err != nil {
			if postgresql.IsNoRows(err) {
				return storage.ErrNotFound
			}
			return err
		}

		return r.pos.Compact(ctx, tx, MediaCollection, current.ItemID)
	})
	if err != nil {
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}

	return deleted, nil
}

func (r *MediaRepo) ReorderMedia(ctx context.Context, ids []int64) (int64, error) {
	return r.pos.Reorder(ctx, MediaCollection, ids)
}

func listMediaWhere(ctx context.Context, q postgresql.Querier, sb sq.StatementBuilderType, where sq.Sqlizer) ([]models.Media, error) {
	query, args, err := sb.Select(mediaColumns...).
		From("media").
		Where(where).
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := make([]models.Media, 0)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		media = append(media, m)
	}

	return media, rows.Err()
}

func scanMedia(row pgx.Row) (models.Media, error) {
	var (
		m         models.Media
		mediaType string
	)
	err := row.Scan(
		&m.ID,
		&m.ItemID,
		&mediaType,
		&m.URL,
		&m.StoragePath,
		&m.ThumbnailURL,
		&m.Caption,
		&m.Alt,
		&m.Position,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	m.MediaType = models.MediaType(mediaType)
	return m, err
}
