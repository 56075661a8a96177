package repository

import (
	"context"
	"fmt"
	"strings"

	"portfolio/internal/storage"
	"portfolio/internal/storage/postgresql"

	sq "github.com/Masterminds/squirrel"
)

func columnList(cols []string) string {
	return strings.Join(cols, ", ")
}

// mapWriteErr приводит ошибки записи к ошибкам хранилища
func mapWriteErr(err error) error {
	switch {
	case postgresql.IsUniqueViolation(err):
		return storage.ErrSlugTaken
	case postgresql.IsNoRows(err):
		return storage.ErrNotFound
	default:
		return err
	}
}

// lockRows блокирует строки table, подходящие под where, до конца транзакции
func lockRows(ctx context.Context, q postgresql.Querier, sb sq.StatementBuilderType, table string, where sq.Sqlizer) error {
	query, args, err := sb.Select("id").
		From(table).
		Where(where).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", table, err)
	}
	rows.Close()

	return rows.Err()
}

// execDelete выполняет удаление. Ни одной удаленной строки тоже успех
func execDelete(ctx context.Context, q postgresql.Querier, b sq.DeleteBuilder) error {
	_, err := execDeleteCount(ctx, q, b)
	return err
}

// execDeleteOne как execDelete, но без удаленных строк возвращает ErrNotFound
func execDeleteOne(ctx context.Context, q postgresql.Querier, b sq.DeleteBuilder) error {
	n, err := execDeleteCount(ctx, q, b)
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func execDeleteCount(ctx context.Context, q postgresql.Querier, b sq.DeleteBuilder) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
