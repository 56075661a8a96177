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

var infoColumns = []string{
	"id",
	"kind",
	"title",
	"subtitle",
	"year",
	"url",
	"position",
	"created_at",
	"updated_at",
}

// InfoRepo записи информационных страниц и singleton "о себе"
type InfoRepo struct {
	db  *pgxpool.Pool
	sb  sq.StatementBuilderType
	pos *PositionedStore
}

func NewInfoRepository(db *pgxpool.Pool, pos *PositionedStore) *InfoRepo {
	return &InfoRepo{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		pos: pos,
	}
}

func (r *InfoRepo) CreateInfoEntry(ctx context.Context, entry models.InfoEntry) (models.InfoEntry, error) {
	const op = "repository.info_repository.CreateInfoEntry"

	kind := string(entry.Kind)

	var created models.InfoEntry
	err := postgresql.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := r.pos.LockScope(ctx, tx, InfoCollection, kind); err != nil {
			return err
		}

		query, args, err := r.sb.Insert("info_entries").
			Columns("kind", "title", "subtitle", "year", "url", "position").
			Values(
				kind,
				entry.Title,
				entry.Subtitle,
				entry.Year,
				entry.URL,
				r.pos.AppendPosition(InfoCollection, kind),
			).
			Suffix("RETURNING " + columnList(infoColumns)).
			ToSql()
		if err != nil {
			return err
		}

		created, err = scanInfoEntry(tx.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		return models.InfoEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// UpdateInfoEntry меняет содержимое записи. kind не меняется
func (r *InfoRepo) UpdateInfoEntry(ctx context.Context, entry models.InfoEntry) (models.InfoEntry, error) {
	const op = "repository.info_repository.UpdateInfoEntry"

	query, args, err := r.sb.Update("info_entries").
		Set("title", entry.Title).
		Set("subtitle", entry.Subtitle).
		Set("year", entry.Year).
		Set("url", entry.URL).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": entry.ID}).
		Suffix("RETURNING " + columnList(infoColumns)).
		ToSql()
	if err != nil {
		return models.InfoEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := scanInfoEntry(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.InfoEntry{}, fmt.Errorf("%s: %w", op, mapWriteErr(err))
	}

	return updated, nil
}

func (r *InfoRepo) InfoEntryByID(ctx context.Context, id int64) (models.InfoEntry, error) {
	const op = "repository.info_repository.InfoEntryByID"

	query, args, err := r.sb.Select(infoColumns...).
		From("info_entries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.InfoEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	entry, err := scanInfoEntry(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if postgresql.IsNoRows(err) {
			return models.InfoEntry{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.InfoEntry{}, fmt.Errorf("%s: %w", op, err)
	}

	return entry, nil
}

func (r *InfoRepo) ListInfoEntries(ctx context.Context, kind models.InfoKind) ([]models.InfoEntry, error) {
	const op = "repository.info_repository.ListInfoEntries"

	query, args, err := r.sb.Select(infoColumns...).
		From("info_entries").
		Where(sq.Eq{"kind": string(kind)}).
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	entries := make([]models.InfoEntry, 0)
	for rows.Next() {
		entry, err := scanInfoEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}

func (r *InfoRepo) DeleteInfoEntry(ctx context.Context, id int64) error {
	const op = "repository.info_repository.DeleteInfoEntry"

	err := postgresql.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		entry, err := r.InfoEntryByID(ctx, id)
		if err != nil {
			return err
		}

		kind := string(entry.Kind)
		if err := r.pos.LockScope(ctx, tx, InfoCollection, kind); err != nil {
			return err
		}

		if err := execDeleteOne(ctx, tx, r.sb.Delete("info_entries").Where(sq.Eq{"id": id})); err != nil {
			return err
		}

		return r.pos.Compact(ctx, tx, InfoCollection, kind)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ReorderInfoEntries упорядочивает записи одного kind
func (r *InfoRepo) ReorderInfoEntries(ctx context.Context, ids []int64) (int64, error) {
	return r.pos.Reorder(ctx, InfoCollection, ids)
}

// About возвращает текст страницы "о себе". Пока его не сохраняли, отдается пустой
func (r *InfoRepo) About(ctx context.Context) (models.About, error) {
	const op = "repository.info_repository.About"

	query, args, err := r.sb.Select("body", "photo_url", "updated_at").
		From("about").
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return models.About{}, fmt.Errorf("%s: %w", op, err)
	}

	var about models.About
	err = r.db.QueryRow(ctx, query, args...).Scan(&about.Body, &about.PhotoURL, &about.UpdatedAt)
	if err != nil {
		if postgresql.IsNoRows(err) {
			return models.About{}, nil
		}
		return models.About{}, fmt.Errorf("%s: %w", op, err)
	}

	return about, nil
}

func (r *InfoRepo) SaveAbout(ctx context.Context, about models.About) (models.About, error) {
	const op = "repository.info_repository.SaveAbout"

	query, args, err := r.sb.Insert("about").
		Columns("id", "body", "photo_url").
		Values(1, about.Body, about.PhotoURL).
		Suffix(`ON CONFLICT (id) DO UPDATE
			SET body = EXCLUDED.body, photo_url = EXCLUDED.photo_url, updated_at = NOW()
			RETURNING body, photo_url, updated_at`).
		ToSql()
	if err != nil {
		return models.About{}, fmt.Errorf("%s: %w", op, err)
	}

	var saved models.About
	if err := r.db.QueryRow(ctx, query, args...).Scan(&saved.Body, &saved.PhotoURL, &saved.UpdatedAt); err != nil {
		return models.About{}, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}

func scanInfoEntry(row pgx.Row) (models.InfoEntry, error) {
	var (
		e    models.InfoEntry
		kind string
	)
	err := row.Scan(
		&e.ID,
		&kind,
		&e.Title,
		&e.Subtitle,
		&e.Year,
		&e.URL,
		&e.Position,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	e.Kind = models.InfoKind(kind)
	return e, err
}
