package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"portfolio/internal/domain/models"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/services/auth"
	"portfolio/internal/storage"
	"portfolio/internal/transport/http/dto"
	"portfolio/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"

	_ "portfolio/docs"
)

type AuthService interface {
	Login(ctx context.Context, login, password string) (models.Session, error)
	Authenticate(ctx context.Context, token string) (models.TokenMeta, error)
	Logout(ctx context.Context, token string) error
}

type CatalogService interface {
	ListSections(ctx context.Context) ([]models.Section, error)
	CreateSection(ctx context.Context, in dto.SectionInput) (models.Section, error)
	UpdateSection(ctx context.Context, id int64, in dto.SectionInput) (models.Section, error)
	DeleteSection(ctx context.Context, id int64) error
	ReorderSections(ctx context.Context, ids []int64) (int64, error)
	ListItems(ctx context.Context, sectionID int64) ([]models.Item, error)
	GetItem(ctx context.Context, id int64) (models.Item, error)
	CreateItem(ctx context.Context, sectionID int64, in dto.ItemInput) (models.Item, error)
	UpdateItem(ctx context.Context, id int64, in dto.ItemInput) (models.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	ReorderItems(ctx context.Context, ids []int64) (int64, error)
}

type MediaService interface {
	UploadMedia(ctx context.Context, input dto.MediaUploadInput) (models.Media, error)
	UpdateMedia(ctx context.Context, id int64, input dto.MediaUpdateInput) (models.Media, error)
	ListMedia(ctx context.Context, itemID int64) ([]models.Media, error)
	DeleteMedia(ctx context.Context, id int64) error
	ReorderMedia(ctx context.Context, ids []int64) (int64, error)
}

type NewsService interface {
	CreateNews(ctx context.Context, in dto.NewsInput) (models.News, error)
	UpdateNews(ctx context.Context, id int64, in dto.NewsInput) (models.News, error)
	GetNews(ctx context.Context, id int64) (models.News, error)
	ListNews(ctx context.Context, q dto.NewsListQuery) (dto.NewsPage, error)
	DeleteNews(ctx context.Context, id int64) error
}

type InfoService interface {
	ListEntries(ctx context.Context, kind models.InfoKind) ([]models.InfoEntry, error)
	CreateEntry(ctx context.Context, in dto.InfoEntryInput) (models.InfoEntry, error)
	UpdateEntry(ctx context.Context, id int64, in dto.InfoEntryInput) (models.InfoEntry, error)
	DeleteEntry(ctx context.Context, id int64) error
	ReorderEntries(ctx context.Context, ids []int64) (int64, error)
	About(ctx context.Context) (models.About, error)
	SaveAbout(ctx context.Context, in dto.AboutInput) (models.About, error)
}

type SiteService interface {
	Sections(ctx context.Context) ([]models.Section, error)
	SectionPage(ctx context.Context, slug string) (models.SectionPage, error)
	ItemPage(ctx context.Context, slug string) (models.ItemPage, error)
	News(ctx context.Context, q dto.NewsListQuery) (dto.NewsPage, error)
	NewsBySlug(ctx context.Context, slug string) (models.News, error)
	Info(ctx context.Context, kind models.InfoKind) ([]models.InfoEntry, error)
	About(ctx context.Context) (models.About, error)
}

type Routers struct {
	log            *slog.Logger
	AuthService    AuthService
	CatalogService CatalogService
	MediaService   MediaService
	NewsService    NewsService
	InfoService    InfoService
	SiteService    SiteService
}

func NewRouter(
	log *slog.Logger,
	authService AuthService,
	catalogService CatalogService,
	mediaService MediaService,
	newsService NewsService,
	infoService InfoService,
	siteService SiteService,
) *Routers {
	return &Routers{
		log:            log,
		AuthService:    authService,
		CatalogService: catalogService,
		MediaService:   mediaService,
		NewsService:    newsService,
		InfoService:    infoService,
		SiteService:    siteService,
	}
}

// SessionName имя cookie сессии администратора
const SessionName = "session"

// errorStatus сопоставляет ошибку сервиса с HTTP статусом и телом ответа
func errorStatus(err error) (int, response.ErrorResponse) {
	var ve *models.ValidationError

	switch {
	case errors.Is(err, errMalformedRequest):
		return http.StatusBadRequest, response.ErrInvalidRequestFormat
	case errors.As(err, &ve):
		return http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", ve.Error())
	case errors.Is(err, storage.ErrScopeMismatch):
		return http.StatusBadRequest, response.ErrorResponseWithDetails("scope_mismatch", storage.ErrScopeMismatch.Error())
	case errors.Is(err, storage.ErrDuplicateID):
		return http.StatusBadRequest, response.ErrorResponseWithDetails("duplicate_id", storage.ErrDuplicateID.Error())
	case errors.Is(err, storage.ErrFileTooLarge):
		return http.StatusBadRequest, response.ErrorResponseWithDetails("file_too_large", storage.ErrFileTooLarge.Error())
	case errors.Is(err, storage.ErrInvalidFileType):
		return http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_file_type", "Only image and video files are accepted")
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, response.ErrNotFound
	case errors.Is(err, storage.ErrSlugTaken):
		return http.StatusConflict, response.ErrSlugTaken
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, response.ErrorResponseWithDetails("authentication_failed", err.Error())
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

func (r *Routers) fail(c echo.Context, log *slog.Logger, err error) error {
	status, body := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Warn("request rejected", slog.Int("status", status), sl.Err(err))
	}

	return c.JSON(status, body)
}

var errMalformedRequest = errors.New("malformed request")

// decode разбирает тело запроса и прогоняет его через общий валидатор
func decode(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: %v", errMalformedRequest, err)
	}

	return c.Validate(req)
}

func paramID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c echo.Context, name string) error {
	return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid "+name))
}
