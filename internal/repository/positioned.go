package repository

import (
	"context"
	"fmt"
	"strconv"

	"portfolio/internal/storage"
	"portfolio/internal/storage/postgresql"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"
)

// Collection описывает упорядоченную таблицу: position плотный внутри scope.
// ScopeColumn пустой у коллекций верхнего уровня (sections).
// Если ParentTable задан, scope сериализуется блокировкой строки родителя,
// иначе advisory-блокировкой на время транзакции
type Collection struct {
	Table       string
	ScopeColumn string
	ParentTable string
	ScopeIsText bool
}

var (
	SectionsCollection = Collection{Table: "sections"}
	ItemsCollection    = Collection{Table: "items", ScopeColumn: "section_id", ParentTable: "sections"}
	MediaCollection    = Collection{Table: "media", ScopeColumn: "item_id", ParentTable: "items"}
	InfoCollection     = Collection{Table: "info_entries", ScopeColumn: "kind", ScopeIsText: true}
)

func (c Collection) table() string {
	return pq.QuoteIdentifier(c.Table)
}

func (c Collection) scoped() bool {
	return c.ScopeColumn != ""
}

// scopeFilter условие "строка принадлежит scope". Для коллекций без scope пустое
func (c Collection) scopeFilter(scope any) squirrel.Sqlizer {
	if !c.scoped() {
		return squirrel.Expr("TRUE")
	}
	return squirrel.Eq{c.ScopeColumn: scope}
}

// PositionedStore хранит порядок дочерних записей внутри scope
type PositionedStore struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewPositionedStore(db *pgxpool.Pool) *PositionedStore {
	return &PositionedStore{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Reorder переписывает position каждой записи ids на её индекс в списке.
// Все ids должны существовать и принадлежать одному scope, иначе ничего не меняется.
// Записи scope, не попавшие в список, сохраняют взаимный порядок и идут после перечисленных
func (s *PositionedStore) Reorder(ctx context.Context, c Collection, ids []int64) (int64, error) {
	const op = "repository.PositionedStore.Reorder"

	if len(ids) == 0 {
		return 0, nil
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrDuplicateID)
		}
		seen[id] = struct{}{}
	}

	err := postgresql.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		scope, err := s.resolveScope(ctx, tx, c, ids, false)
		if err != nil {
			return err
		}

		if err := s.LockScope(ctx, tx, c, scope); err != nil {
			return err
		}

		// после ожидания блокировки записи могли переехать или исчезнуть
		locked, err := s.resolveScope(ctx, tx, c, ids, true)
		if err != nil {
			return err
		}
		if locked != scope {
			return storage.ErrScopeMismatch
		}

		if err := s.rewrite(ctx, tx, c, ids); err != nil {
			return err
		}

		return s.renumber(ctx, tx, c, scope, ids)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return int64(len(ids)), nil
}

// LockScope сериализует изменения порядка внутри scope до конца транзакции
func (s *PositionedStore) LockScope(ctx context.Context, tx postgresql.Querier, c Collection, scope any) error {
	if c.ParentTable != "" {
		query, args, err := s.sb.Select("id").
			From(pq.QuoteIdentifier(c.ParentTable)).
			Where(squirrel.Eq{"id": scope}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return err
		}

		var id int64
		if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			if postgresql.IsNoRows(err) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("failed to lock parent: %w", err)
		}
		return nil
	}

	key := c.Table
	if c.scoped() {
		key = fmt.Sprintf("%s:%v", c.Table, scope)
	}

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("failed to acquire scope lock: %w", err)
	}

	return nil
}

// AppendPosition выражение позиции новой записи: в конец scope
func (s *PositionedStore) AppendPosition(c Collection, scope any) squirrel.Sqlizer {
	sub, args, _ := s.sb.Select("COUNT(*)").
		From(c.table()).
		Where(c.scopeFilter(scope)).
		PlaceholderFormat(squirrel.Question).
		ToSql()

	return squirrel.Expr("("+sub+")", args...)
}

// Compact перенумеровывает scope в 0..n-1 с сохранением порядка. Вызывается после удаления
func (s *PositionedStore) Compact(ctx context.Context, tx postgresql.Querier, c Collection, scope any) error {
	return s.renumber(ctx, tx, c, scope, nil)
}

func (s *PositionedStore) resolveScope(ctx context.Context, tx postgresql.Querier, c Collection, ids []int64, forUpdate bool) (any, error) {
	scopeCol := "''"
	if c.scoped() {
		scopeCol = pq.QuoteIdentifier(c.ScopeColumn) + "::text"
	}

	b := s.sb.Select("id", scopeCol).
		From(c.table()).
		Where("id = ANY(?)", ids)
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	defer rows.Close()

	found := 0
	scopes := make(map[string]struct{}, 1)
	var scope string
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id, &scope); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		found++
		scopes[scope] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if found != len(ids) {
		return nil, storage.ErrNotFound
	}
	if len(scopes) > 1 {
		return nil, storage.ErrScopeMismatch
	}

	if !c.scoped() {
		return nil, nil
	}
	if c.ScopeIsText {
		return scope, nil
	}

	parentID, err := strconv.ParseInt(scope, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("unexpected scope value %q: %w", scope, err)
	}
	return parentID, nil
}

func (s *PositionedStore) rewrite(ctx context.Context, tx postgresql.Querier, c Collection, ids []int64) error {
	query := fmt.Sprintf(`UPDATE %[1]s AS t
		SET position = (o.ord - 1)::int, updated_at = NOW()
		FROM unnest($1::bigint[]) WITH ORDINALITY AS o(id, ord)
		WHERE t.id = o.id`, c.table())

	if _, err := tx.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("failed to update positions: %w", err)
	}

	return nil
}

// renumber раздает позиции записям scope, кроме skip, начиная с len(skip).
// updated_at не трогается: содержимое записей не менялось
func (s *PositionedStore) renumber(ctx context.Context, tx postgresql.Querier, c Collection, scope any, skip []int64) error {
	where := squirrel.And{c.scopeFilter(scope)}
	if len(skip) > 0 {
		where = append(where, squirrel.Expr("NOT (id = ANY(?))", skip))
	}

	ranked, args, err := s.sb.Select("id", fmt.Sprintf("(ROW_NUMBER() OVER (ORDER BY position, id) - 1 + %d)::int AS pos", len(skip))).
		From(c.table()).
		Where(where).
		ToSql()
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`WITH ranked AS (%s)
		UPDATE %s AS t SET position = ranked.pos
		FROM ranked
		WHERE t.id = ranked.id AND t.position <> ranked.pos`, ranked, c.table())

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to renumber positions: %w", err)
	}

	return nil
}
