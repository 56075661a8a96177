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

var itemColumns = []string{
	"id",
	"section_id",
	"slug",
	"title",
	"year",
	"type",
	"location",
	"collaborators",
	"description",
	"position",
	"is_published",
	"created_at",
	"updated_at",
}

type ItemRepo struct {
	db  *pgxpool.Pool
	sb  sq.StatementBuilderType
	pos *PositionedStore
}

func NewItemRepository(db *pgxpool.Pool, pos *PositionedStore) *ItemRepo {
	return &ItemRepo{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		pos: pos,
	}
}

// CreateItem добавляет работу в конец раздела
func (r *ItemRepo) CreateItem(ctx context.Context, item models.Item) (models.Item, error) {
	const op = "repository.item_repository.CreateItem"

	var created models.Item
	err := postgresql.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := r.pos.LockScope(ctx, tx, ItemsCollection, item.SectionID); err != nil {
			return err
		}

		query, args, err := r.sb.Insert("items").
			Columns(
				"section_id",
				"slug",
				"title",
				"year",
				"type",
				"location",
				"collaborators",
				"description",
				"position",
				"is_published",
			).
			Values(
				item.SectionID,
				item.Slug,
				item.Title,
				item.Year,
				item.Type,
				item.Location,
				item.Collaborators,
				item.Description,
				r.pos.AppendPosition(ItemsCollection, item.SectionID),
				item.IsPublished,
			).
			Suffix("RETURNING " + columnList(itemColumns)).
			ToSql()
		if err != nil {
			return err
		}

		created, err = scanItem(tx.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		return models.Item{}, fmt.Errorf("%s: %w", op, mapWriteErr(err))
	}

	return created, nil
}

// UpdateItem обновляет работу. При смене раздела работа уходит в конец нового раздела,
// а старый раздел уплотняется
func (r *ItemRepo) UpdateItem(ctx context.Context, item models.Item) (models.Item, error) {
	const op = "repository.item_repository.UpdateItem"

	var updated models.Item
	err := postgresql.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		current, err := r.sectionOf(ctx, tx, item.ID, false)
		if err != nil {
			return err
		}

		// разделы блокируются по возрастанию id
		first, second := current, item.SectionID
		if second < first {
			first, second = second, first
		}
		if err := r.pos.LockScope(ctx, tx, ItemsCollection, first); err != nil {
			return err
		}
		if second != first {
			if err := r.pos.LockScope(ctx, tx, ItemsCollection, second); err != nil {
				return err
			}
		}

		locked, err := r.sectionOf(ctx, tx, item.ID, true)
		if err != nil {
			return err
		}
		if locked != current {
			return storage.ErrScopeMismatch
		}

		b := r.sb.Update("items").
			Set("slug", item.Slug).
			Set("title", item.Title).
			Set("year", item.Year).
			Set("type", item.Type).
			Set("location", item.Location).
			Set("collaborators", item.Collaborators).
			Set("description", item.Description).
			Set("is_published", item.IsPublished).
			Set("updated_at", sq.Expr("NOW()"))
		moved := item.SectionID != current
		if moved {
			b = b.Set("section_id", item.SectionID).
				Set("position", r.pos.AppendPosition(ItemsCollection, item.SectionID))
		}

		query, args, err := b.Where(sq.Eq{"id": item.ID}).
			Suffix("RETURNING " + columnList(itemColumns)).
			ToSql()
		if err != nil {
			return err
		}

		updated, err = scanItem(tx.QueryRow(ctx, query, args...))
		if err != nil {
			return err
		}

		if moved {
			return r.pos.Compact(ctx, tx, ItemsCollection, current)
		}
		return nil
	})
	if err != nil {
		return models.Item{}, fmt.Errorf("%s: %w", op, mapWriteErr(err))
	}

	return updated, nil
}

func (r *ItemRepo) ItemByID(ctx context.Context, id int64) (models.Item, error) {
	return r.itemBy(ctx, "repository.item_repository.ItemByID", sq.Eq{"id": id})
}

func (r *ItemRepo) ItemBySlug(ctx context.Context, slug string) (models.Item, error) {
	return r.itemBy(ctx, "repository.item_repository.ItemBySlug", sq.Eq{"slug": slug})
}

func (r *ItemRepo) itemBy(ctx context.Context, op string, where sq.Eq) (models.Item, error) {
	query, args, err := r.sb.Select(itemColumns...).
		From("items").
		Where(where).
		ToSql()
	if err != nil {
		return models.Item{}, fmt.Errorf("%s: %w", op, err)
	}

	item, err := scanItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if postgresql.IsNoRows(err) {
			return models.Item{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Item{}, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// ListItems возвращает работы раздела по position, затем по id
func (r *ItemRepo) ListItems(ctx context.Context, sectionID int64, onlyPublished bool) ([]models.Item, error) {
	const op = "repository.item_repository.ListItems"

	where := sq.Eq{"section_id": sectionID}
	if onlyPublished {
		where["is_published"] = true
	}

	query, args, err := r.sb.Select(itemColumns...).
		From("items").
		Where(where).
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

	items := make([]models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// DeleteItem удаляет работу вместе с медиа. Файлы освобождаются до удаления строк
func (r *ItemRepo) DeleteItem(ctx context.Context, id int64, release MediaReleaser) error {
	const op = "repository.item_repository.DeleteItem"

	err := postgresql.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		sectionID, err := r.sectionOf(ctx, tx, id, false)
		if err != nil {
			return err
		}

		if err := r.pos.LockScope(ctx, tx, ItemsCollection, sectionID); err != nil {
			return err
		}

		locked, err := r.sectionOf(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if locked != sectionID {
			return storage.ErrScopeMismatch
		}

		media, err := listMediaWhere(ctx, tx, r.sb, sq.Eq{"item_id": id})
		if err != nil {
			return err
		}
		if release != nil && len(media) > 0 {
			release(ctx, media)
		}

		if err := execDelete(ctx, tx, r.sb.Delete("media").Where(sq.Eq{"item_id": id})); err != nil {
			return err
		}
		if err := execDeleteOne(ctx, tx, r.sb.Delete("items").Where(sq.Eq{"id": id})); err != nil {
			return err
		}

		return r.pos.Compact(ctx, tx, ItemsCollection, sectionID)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *ItemRepo) ReorderItems(ctx context.Context, ids []int64) (int64, error) {
	return r.pos.Reorder(ctx, ItemsCollection, ids)
}

func (r *ItemRepo) sectionOf(ctx context.Context, q postgresql.Querier, id int64, forUpdate bool) (int64, error) {
	b := r.sb.Select("section_id").From("items").Where(sq.Eq{"id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}

	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}

	var sectionID int64
	if err := q.QueryRow(ctx, query, args...).Scan(&sectionID); err != nil {
		if postgresql.IsNoRows(err) {
			return 0, storage.ErrNotFound
		}
		return 0, err
	}

	return sectionID, nil
}

func scanItem(row pgx.Row) (models.Item, error) {
	var i models.Item
	err := row.Scan(
		&i.ID,
		&i.SectionID,
		&i.Slug,
		&i.Title,
		&i.Year,
		&i.Type,
		&i.Location,
		&i.Collaborators,
		&i.Description,
		&i.Position,
		&i.IsPublished,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
