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

var sectionColumns = []string{
	"id",
	"slug",
	"name",
	"position",
	"is_visible",
	"seo_title",
	"seo_description",
	"created_at",
	"updated_at",
}

type SectionRepo struct {
	db  *pgxpool.Pool
	sb  sq.StatementBuilderType
	pos *PositionedStore
}

func NewSectionRepository(db *pgxpool.Pool, pos *PositionedStore) *SectionRepo {
	return &SectionRepo{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		pos: pos,
	}
}

// CreateSection добавляет раздел в конец списка
func (r *SectionRepo) CreateSection(ctx context.Context, section models.Section) (models.Section, error) {
	const op = "repository.section_repository.CreateSection"

	var created models.Section
	err := postgresql.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := r.pos.LockScope(ctx, tx, SectionsCollection, nil); err != nil {
			return err
		}

		query, args, err := r.sb.Insert("sections").
			Columns("slug", "name", "position", "is_visible", "seo_title", "seo_description").
			Values(
				section.Slug,
				section.Name,
				r.pos.AppendPosition(SectionsCollection, nil),
				section.IsVisible,
				section.SEOTitle,
				section.SEODescription,
			).
			Suffix("RETURNING " + columnList(sectionColumns)).
			ToSql()
		if err != nil {
			return err
		}

		created, err = scanSection(tx.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		return models.Section{}, fmt.Errorf("%s: %w", op, mapWriteErr(err))
	}

	return created, nil
}

// UpdateSection обновляет поля раздела. Позиция меняется только через ReorderSections
func (r *SectionRepo) UpdateSection(ctx context.Context, section models.Section) (models.Section, error) {
	const op = "repository.section_repository.UpdateSection"

	query, args, err := r.sb.Update("sections").
		Set("slug", section.Slug).
		Set("name", section.Name).
		Set("is_visible", section.IsVisible).
		Set("seo_title", section.SEOTitle).
		Set("seo_description", section.SEODescription).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": section.ID}).
		Suffix("RETURNING " + columnList(sectionColumns)).
		ToSql()
	if err != nil {
		return models.Section{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := scanSection(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Section{}, fmt.Errorf("%s: %w", op, mapWriteErr(err))
	}

	return updated, nil
}

func (r *SectionRepo) SectionByID(ctx context.Context, id int64) (models.Section, error) {
	return r.sectionBy(ctx, "repository.section_repository.SectionByID", sq.Eq{"id": id})
}

func (r *SectionRepo) SectionBySlug(ctx context.Context, slug string) (models.Section, error) {
	return r.sectionBy(ctx, "repository.section_repository.SectionBySlug", sq.Eq{"slug": slug})
}

func (r *SectionRepo) sectionBy(ctx context.Context, op string, where sq.Eq) (models.Section, error) {
	query, args, err := r.sb.Select(sectionColumns...).
		From("sections").
		Where(where).
		ToSql()
	if err != nil {
		return models.Section{}, fmt.Errorf("%s: %w", op, err)
	}

	section, err := scanSection(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if postgresql.IsNoRows(err) {
			return models.Section{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Section{}, fmt.Errorf("%s: %w", op, err)
	}

	return section, nil
}

// ListSections возвращает разделы по position, затем по id
func (r *SectionRepo) ListSections(ctx context.Context, onlyVisible bool) ([]models.Section, error) {
	const op = "repository.section_repository.ListSections"

	b := r.sb.Select(sectionColumns...).
		From("sections").
		OrderBy("position ASC", "id ASC")
	if onlyVisible {
		b = b.Where(sq.Eq{"is_visible": true})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	sections := make([]models.Section, 0)
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sections = append(sections, section)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sections, nil
}

// DeleteSection удаляет раздел со всеми работами и их медиа.
// Порядок: файлы медиа, строки медиа, работы, сам раздел, затем уплотнение позиций разделов
func (r *SectionRepo) DeleteSection(ctx context.Context, id int64, release MediaReleaser) error {
	const op = "repository.section_repository.DeleteSection"

	err := postgresql.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := r.pos.LockScope(ctx, tx, SectionsCollection, nil); err != nil {
			return err
		}
		if err := r.pos.LockScope(ctx, tx, ItemsCollection, id); err != nil {
			return err
		}

		if err := lockRows(ctx, tx, r.sb, "items", sq.Eq{"section_id": id}); err != nil {
			return err
		}

		inSection := sq.Expr("item_id IN (SELECT id FROM items WHERE section_id = ?)", id)

		media, err := listMediaWhere(ctx, tx, r.sb, inSection)
		if err != nil {
			return err
		}
		if release != nil && len(media) > 0 {
			release(ctx, media)
		}

		if err := execDelete(ctx, tx, r.sb.Delete("media").Where(inSection)); err != nil {
			return err
		}
		if err := execDelete(ctx, tx, r.sb.Delete("items").Where(sq.Eq{"section_id": id})); err != nil {
			return err
		}
		if err := execDelete(ctx, tx, r.sb.Delete("sections").Where(sq.Eq{"id": id})); err != nil {
			return err
		}

		return r.pos.Compact(ctx, tx, SectionsCollection, nil)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *SectionRepo) ReorderSections(ctx context.Context, ids []int64) (int64, error) {
	return r.pos.Reorder(ctx, SectionsCollection, ids)
}

func scanSection(row pgx.Row) (models.Section, error) {
	var s models.Section
	err := row.Scan(
		&s.ID,
		&s.Slug,
		&s.Name,
		&s.Position,
		&s.IsVisible,
		&s.SEOTitle,
		&s.SEODescription,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}
