package repository

import (
	"context"
	"errors"
	"fmt"

	"portfolio/internal/domain/models"
	"portfolio/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type AdminRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *AdminRepo) AdminByLogin(ctx context.Context, login string) (models.Admin, error) {
	const op = "repository.admin_repository.AdminByLogin"

	sql, args, err := r.sb.Select("id", "login", "password_hash", "created_at", "last_login").
		From("admins").
		Where(sq.Eq{"login": login}).
		ToSql()
	if err != nil {
		return models.Admin{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var admin models.Admin
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&admin.ID,
		&admin.Login,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Admin{}, fmt.Errorf("%s: %w", op, storage.ErrAdminNotFound)
		}
		return models.Admin{}, fmt.Errorf("%s: %w", op, err)
	}

	return admin, nil
}

// SaveAdmin создает администратора или меняет пароль существующего
func (r *AdminRepo) SaveAdmin(ctx context.Context, login string, passwordHash []byte) (int64, error) {
	const op = "repository.admin_repository.SaveAdmin"

	sql, args, err := r.sb.Insert("admins").
		Columns("login", "password_hash").
		Values(login, passwordHash).
		Suffix("ON CONFLICT (login) DO UPDATE SET password_hash = EXCLUDED.password_hash RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *AdminRepo) TouchLastLogin(ctx context.Context, id int64) error {
	const op = "repository.admin_repository.TouchLastLogin"

	sql, args, err := r.sb.Update("admins").
		Set("last_login", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
