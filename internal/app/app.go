package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpapp "portfolio/internal/app/http"
	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/repository"
	"portfolio/internal/services/auth"
	catalog "portfolio/internal/services/catalog_service"
	info "portfolio/internal/services/info_service"
	media "portfolio/internal/services/media_service"
	news "portfolio/internal/services/news_service"
	site "portfolio/internal/services/site_service"
	"portfolio/internal/storage"
	filestorage "portfolio/internal/storage/filestorage"
	"portfolio/internal/storage/postgresql"
	redisapp "portfolio/internal/storage/redis"
	httprouters "portfolio/internal/transport/http"
	"portfolio/internal/transport/http/dto"

	"golang.org/x/sync/errgroup"
)

type App struct {
	log        *slog.Logger
	HTTPServer *httpapp.Server
	Auth       *auth.Auth
	Catalog    *catalog.CatalogService

	storage *postgresql.Storage
	redis   *redisapp.Client
}

// New собирает зависимости приложения. Миграции к этому моменту должны быть применены
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	st, err := postgresql.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	files, err := filestorage.NewFromConfig(ctx, cfg.FileStorage, cfg.S3)
	if err != nil {
		st.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a := &App{log: log, storage: st}

	var (
		publicCache cache.Cache
		tokens      repository.TokenRepository
	)

	if cfg.Redis.RedisAddr != "" {
		a.redis = redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
		if err := a.redis.HealthCheck(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("%s: redis: %w", op, err)
		}

		publicCache = cache.NewRedisCache(a.redis)
		tokens = repository.NewRedisTokenRepo(a.redis)
		log.Info("using redis for cache and revoked tokens", slog.String("addr", cfg.Redis.RedisAddr))
	} else {
		publicCache = cache.NewMemoryCache(cfg.Cache.TTL)
		tokens = repository.NewMemoryTokenRepo()
		log.Info("using in-process cache")
	}

	repo := repository.NewRepository(st)

	a.Auth = auth.New(log, repo.Admins, tokens, cfg.TokenTTL, cfg.TokenSecret)
	a.Catalog = catalog.NewCatalogService(log, repo.Sections, repo.Items, files, publicCache)
	mediaService := media.NewMediaService(log, repo.Media, files, publicCache, cfg.FileStorage.MaxSize)
	newsService := news.NewNewsService(log, repo.News, publicCache)
	infoService := info.NewInfoService(log, repo.Info, publicCache)
	siteService := site.NewSiteService(log, repo.Sections, repo.Items, repo.Media, repo.News, repo.Info, publicCache, cfg.Cache.TTL)

	routers := httprouters.NewRouter(log, a.Auth, a.Catalog, mediaService, newsService, infoService, siteService)

	a.HTTPServer = httpapp.New(log, cfg, routers, st)
	a.HTTPServer.BuildRouters()

	return a, nil
}

// Run обслуживает HTTP до отмены ctx, затем останавливает сервер
func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.HTTPServer.Start()
	})

	g.Go(func() error {
		<-gCtx.Done()
		return a.HTTPServer.Stop(context.Background())
	})

	err := g.Wait()
	a.Close()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.log.Info("Gracefully stopped")

	return nil
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("failed to close redis", sl.Err(err))
		}
	}
	a.storage.Stop()
}

// defaultSections разделы, которые seed создает в пустой базе
var defaultSections = []dto.SectionInput{
	{Slug: "paintings", Name: "Живопись"},
	{Slug: "graphics", Name: "Графика"},
	{Slug: "installations", Name: "Инсталляции"},
}

// Seed создает администратора из конфига и стартовые разделы, если разделов еще нет
func (a *App) Seed(ctx context.Context, admin config.AdminConfig) error {
	const op = "app.Seed"

	log := a.log.With(slog.String("op", op))

	if _, err := a.Auth.EnsureAdmin(ctx, admin.Login, admin.Password); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	existing, err := a.Catalog.ListSections(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(existing) > 0 {
		log.Info("sections already exist, skipping", slog.Int("count", len(existing)))
		return nil
	}

	for _, in := range defaultSections {
		if _, err := a.Catalog.CreateSection(ctx, in); err != nil {
			if errors.Is(err, storage.ErrSlugTaken) {
				continue
			}
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("default sections created", slog.Int("count", len(defaultSections)))

	return nil
}
