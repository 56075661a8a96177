package http

import (
	"log/slog"
	"net/http"

	"portfolio/internal/transport/http/dto"
	"portfolio/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// AdminListNews godoc
// @Summary Новости (админка)
// @Description Все новости, включая черновики, от новых к старым
// @Tags Новости
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param per_page query int false "Количество элементов на странице" default(10)
// @Param tag query string false "Фильтр по тегу"
// @Success 200 {object} response.Response{data=dto.NewsPage}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/news [get]
func (r *Routers) AdminListNews(c echo.Context) error {
	const op = "http.routers.AdminListNews"

	log := r.log.With(
		slog.String("op", op),
	)

	var q dto.NewsListQuery
	if err := decode(c, &q); err != nil {
		return r.fail(c, log, err)
	}

	page, err := r.NewsService.ListNews(c.Request().Context(), q)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(page))
}

// GetNews godoc
// @Summary Новость (админка)
// @Tags Новости
// @Produce json
// @Param id path int true "ID новости"
// @Success 200 {object} response.Response{data=models.News}
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/news/{id} [get]
func (r *Routers) GetNews(c echo.Context) error {
	const op = "http.routers.GetNews"

	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "news id")
	}

	news, err := r.NewsService.GetNews(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(news))
}

// CreateNews godoc
// @Summary Создать новость
// @Description При публикации фиксируется published_at
// @Tags Новости
// @Accept json
// @Produce json
// @Param request body dto.NewsInput true "Новость"
// @Success 201 {object} response.Response{data=models.News}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/news [post]
func (r *Routers) CreateNews(c echo.Context) error {
	const op = "http.routers.CreateNews"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.NewsInput
	if err := decode(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	news, err := r.NewsService.CreateNews(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(news))
}

// UpdateNews godoc
// @Summary Обновить новость
// @Description Первая публикация фиксирует published_at, снятие с публикации его сбрасывает
// @Tags Новости
// @Accept json
// @Produce json
// @Param id path int true "ID новости"
// @Param request body dto.NewsInput true "Новость"
// @Success 200 {object} response.Response{data=models.News}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/news/{id} [put]
func (r *Routers) UpdateNews(c echo.Context) error {
	const op = "http.routers.UpdateNews"

	log := r.log.With(
		slog.String("op", op),
	)

	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "news id")
	}

	var req dto.NewsInput
	if err := decode(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	news, err := r.NewsService.UpdateNews(c.Request().Context(), id, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(news))
}

// DeleteNews godoc
// @Summary Удалить новость
// @Tags Новости
// @Param id path int true "ID новости"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/news/{id} [delete]
func (r *Routers) DeleteNews(c echo.Context) error {
	const op = "http.routers.DeleteNews"

	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "news id")
	}

	if err := r.NewsService.DeleteNews(c.Request().Context(), id); err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.NoContent(http.StatusNoContent)
}
