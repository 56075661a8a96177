package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"portfolio/internal/domain/models"
	"portfolio/internal/lib/jwt"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/repository"
	"portfolio/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or revoked token")
)

type Auth struct {
	log      *slog.Logger
	admins   AdminStore
	tokens   repository.TokenRepository
	tokenTTL time.Duration
	secret   string
}

type AdminStore interface {
	AdminByLogin(ctx context.Context, login string) (models.Admin, error)
	SaveAdmin(ctx context.Context, login string, passwordHash []byte) (int64, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

func New(log *slog.Logger, admins AdminStore, tokens repository.TokenRepository, tokenTTL time.Duration, secret string) *Auth {
	return &Auth{
		log:      log,
		admins:   admins,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		secret:   secret,
	}
}

// Login проверяет пароль и выпускает access токен
func (a *Auth) Login(ctx context.Context, login, password string) (models.Session, error) {
	const op = "auth.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("login", login),
	)

	log.Info("attempting to login admin")

	admin, err := a.admins.AdminByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrAdminNotFound) {
			log.Warn("admin not found", sl.Err(err))

			return models.Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get admin", sl.Err(err))

		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return models.Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, expiresAt, err := jwt.NewToken(admin, a.tokenTTL, a.secret)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))

		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.admins.TouchLastLogin(ctx, admin.ID); err != nil {
		log.Warn("failed to update last login", sl.Err(err))
	}

	log.Info("admin logged in successfully")

	return models.Session{
		AdminID:     admin.ID,
		Login:       admin.Login,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// Authenticate разбирает bearer токен и проверяет, что он не отозван
func (a *Auth) Authenticate(ctx context.Context, token string) (models.TokenMeta, error) {
	const op = "auth.Authenticate"

	meta, err := jwt.ParseToken(token, a.secret)
	if err != nil {
		return models.TokenMeta{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if meta.ID != "" {
		revoked, err := a.tokens.IsRevoked(ctx, meta.ID)
		if err != nil {
			a.log.Error("failed to check token revocation", slog.String("op", op), sl.Err(err))
			return models.TokenMeta{}, fmt.Errorf("%s: %w", op, err)
		}
		if revoked {
			return models.TokenMeta{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
	}

	return meta, nil
}

// Logout отзывает токен до конца его срока. Пустой или уже недействительный токен не ошибка
func (a *Auth) Logout(ctx context.Context, token string) error {
	const op = "auth.Logout"

	if token == "" {
		return nil
	}

	meta, err := jwt.ParseToken(token, a.secret)
	if err != nil || meta.ID == "" {
		return nil
	}

	ttl := time.Until(time.Unix(meta.ExpiresAt, 0))
	if err := a.tokens.RevokeToken(ctx, meta.ID, ttl); err != nil {
		a.log.Error("failed to revoke token", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	a.log.Info("token revoked", slog.String("op", op), slog.Int64("admin_id", meta.AdminID))

	return nil
}

// EnsureAdmin создает администратора или меняет пароль существующему
func (a *Auth) EnsureAdmin(ctx context.Context, login, password string) (int64, error) {
	const op = "auth.EnsureAdmin"

	log := a.log.With(
		slog.String("op", op),
		slog.String("login", login),
	)

	if login == "" || password == "" {
		return 0, fmt.Errorf("%s: %w", op, models.NewValidationError("admin login and password are required"))
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.admins.SaveAdmin(ctx, login, passHash)
	if err != nil {
		log.Error("failed to save admin", sl.Err(err))

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin saved", slog.Int64("admin_id", id))

	return id, nil
}
