package http

import (
	"log/slog"
	"net/http"

	"portfolio/internal/domain/models"
	"portfolio/internal/transport/http/dto"
	"portfolio/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// Sections godoc
// @Summary Видимые разделы
// @Tags Сайт
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Section}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/sections [get]
func (r *Routers) Sections(c echo.Context) error {
	const op = "http.routers.Sections"

	sections, err := r.SiteService.Sections(c.Request().Context())
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(sections))
}

// SectionPage godoc
// @Summary Раздел с опубликованными работами
// @Tags Сайт
// @Produce json
// @Param slug path string true "Slug раздела"
// @Success 200 {object} response.Response{data=models.SectionPage}
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/sections/{slug} [get]
func (r *Routers) SectionPage(c echo.Context) error {
	const op = "http.routers.SectionPage"

	page, err := r.SiteService.SectionPage(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(page))
}

// ItemPage godoc
// @Summary Работа с медиа
// @Tags Сайт
// @Produce json
// @Param slug path string true "Slug работы"
// @Success 200 {object} response.Response{data=models.ItemPage}
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/items/{slug} [get]
func (r *Routers) ItemPage(c echo.Context) error {
	const op = "http.routers.ItemPage"

	page, err := r.SiteService.ItemPage(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(page))
}

// News godoc
// @Summary Опубликованные новости
// @Description Новые сверху, с пагинацией. http://localhost:8080/api/v1/news?page=1&per_page=10&tag=fair
// @Tags Сайт
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param per_page query int false "Количество элементов на странице" default(10)
// @Param tag query string false "Фильтр по тегу"
// @Success 200 {object} response.Response{data=dto.NewsPage}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/news [get]
func (r *Routers) News(c echo.Context) error {
	const op = "http.routers.News"

	log := r.log.With(
		slog.String("op", op),
	)

	var q dto.NewsListQuery
	if err := decode(c, &q); err != nil {
		return r.fail(c, log, err)
	}

	page, err := r.SiteService.News(c.Request().Context(), q)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(page))
}

// NewsBySlug godoc
// @Summary Новость
// @Tags Сайт
// @Produce json
// @Param slug path string true "Slug новости"
// @Success 200 {object} response.Response{data=models.News}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/news/{slug} [get]
func (r *Routers) NewsBySlug(c echo.Context) error {
	const op = "http.routers.NewsBySlug"

	news, err := r.SiteService.NewsBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(news))
}

// Info godoc
// @Summary Записи информационной страницы
// @Tags Сайт
// @Produce json
// @Param kind path string true "Вид записи" Enums(award, fair, exhibition, contact, link)
// @Success 200 {object} response.Response{data=[]models.InfoEntry}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/info/{kind} [get]
func (r *Routers) Info(c echo.Context) error {
	const op = "http.routers.Info"

	entries, err := r.SiteService.Info(c.Request().Context(), models.InfoKind(c.Param("kind")))
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(entries))
}

// About godoc
// @Summary Страница "о себе"
// @Tags Сайт
// @Produce json
// @Success 200 {object} response.Response{data=models.About}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/about [get]
func (r *Routers) About(c echo.Context) error {
	const op = "http.routers.About"

	about, err := r.SiteService.About(c.Request().Context())
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(about))
}
