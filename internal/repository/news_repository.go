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

var newsColumns = []string{
	"id",
	"title",
	"slug",
	"body",
	"cover_url",
	"tags",
	"is_published",
	"published_at",
	"created_at",
	"updated_at",
}

// NewsFilter параметры выборки новостей. Page с 1
type NewsFilter struct {
	Page          int
	PerPage       int
	Tag           string
	OnlyPublished bool
}

type NewsRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewNewsRepository(db *pgxpool.Pool) *NewsRepo {
	return &NewsRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// publishedAt при публикации фиксирует дату первой публикации
func publishedAt(isPublished bool) sq.Sqlizer {
	if isPublished {
		return sq.Expr("COALESCE(published_at, NOW())")
	}
	return sq.Expr("NULL")
}

func (r *NewsRepo) CreateNews(ctx context.Context, news models.News) (models.News, error) {
	const op = "repository.news_repository.CreateNews"

	if news.Tags == nil {
		news.Tags = []string{}
	}

	var published interface{}
	if news.IsPublished {
		published = sq.Expr("NOW()")
	}

	query, args, err := r.sb.Insert("news").
		Columns("title", "slug", "body", "cover_url", "tags", "is_published", "published_at").
		Values(
			news.Title,
			news.Slug,
			news.Body,
			news.CoverURL,
			news.Tags,
			news.IsPublished,
			published,
		).
		Suffix("RETURNING " + columnList(newsColumns)).
		ToSql()
	if err != nil {
		return models.News{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := scanNews(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.News{}, fmt.Errorf("%s: %w", op, mapWriteErr(err))
	}

	return created, nil
}

func (r *NewsRepo) UpdateNews(ctx context.Context, news models.News) (models.News, error) {
	const op = "repository.news_repository.UpdateNews"

	if news.Tags == nil {
		news.Tags = []string{}
	}

	query, args, err := r.sb.Update("news").
		Set("title", news.Title).
		Set("slug", news.Slug).
		Set("body", news.Body).
		Set("cover_url", news.CoverURL).
		Set("tags", news.Tags).
		Set("is_published", news.IsPublished).
		Set("published_at", publishedAt(news.IsPublished)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": news.ID}).
		Suffix("RETURNING " + columnList(newsColumns)).
		ToSql()
	if err != nil {
		return models.News{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := scanNews(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.News{}, fmt.Errorf("%s: %w", op, mapWriteErr(err))
	}

	return updated, nil
}

func (r *NewsRepo) NewsByID(ctx context.Context, id int64) (models.News, error) {
	return r.newsBy(ctx, "repository.news_repository.NewsByID", sq.Eq{"id": id})
}

func (r *NewsRepo) NewsBySlug(ctx context.Context, slug string) (models.News, error) {
	return r.newsBy(ctx, "repository.news_repository.NewsBySlug", sq.Eq{"slug": slug})
}

func (r *NewsRepo) newsBy(ctx context.Context, op string, where sq.Eq) (models.News, error) {
	query, args, err := r.sb.Select(newsColumns...).
		From("news").
		Where(where).
		ToSql()
	if err != nil {
		return models.News{}, fmt.Errorf("%s: %w", op, err)
	}

	news, err := scanNews(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if postgresql.IsNoRows(err) {
			return models.News{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.News{}, fmt.Errorf("%s: %w", op, err)
	}

	return news, nil
}

// ListNews возвращает страницу новостей и общее число подходящих под фильтр
func (r *NewsRepo) ListNews(ctx context.Context, filter NewsFilter) ([]models.News, int, error) {
	const op = "repository.news_repository.ListNews"

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 10
	}

	where := sq.And{}
	if filter.OnlyPublished {
		where = append(where, sq.Eq{"is_published": true})
	}
	if filter.Tag != "" {
		where = append(where, sq.Expr("? = ANY(tags)", filter.Tag))
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("news").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	order := []string{"created_at DESC", "id DESC"}
	if filter.OnlyPublished {
		order = []string{"published_at DESC", "id DESC"}
	}

	query, args, err := r.sb.Select(newsColumns...).
		From("news").
		Where(where).
		OrderBy(order...).
		Limit(uint64(filter.PerPage)).
		Offset(uint64((filter.Page - 1) * filter.PerPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	news := make([]models.News, 0, filter.PerPage)
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		news = append(news, n)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return news, total, nil
}

func (r *NewsRepo) DeleteNews(ctx context.Context, id int64) error {
	const op = "repository.news_repository.DeleteNews"

	if err := execDeleteOne(ctx, r.db, r.sb.Delete("news").Where(sq.Eq{"id": id})); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func scanNews(row pgx.Row) (models.News, error) {
	var n models.News
	err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Slug,
		&n.Body,
		&n.CoverURL,
		&n.Tags,
		&n.IsPublished,
		&n.PublishedAt,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	return n, err
}
