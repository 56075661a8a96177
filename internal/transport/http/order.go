package http

import (
	"context"
	"log/slog"
	"net/http"

	"portfolio/internal/transport/http/dto"

	"github.com/labstack/echo/v4"
)

// ReorderSections godoc
// @Summary Порядок разделов
// @Description Принимает полный упорядоченный список id разделов. Позиции переписываются в одной транзакции
// @Tags Порядок
// @Accept json
// @Produce json
// @Param request body dto.ReorderRequest true "Список id в новом порядке"
// @Success 200 {object} dto.ReorderResponse
// @Failure 400 {object} response.ErrorResponse "Неверный формат, дубликаты"
// @Failure 404 {object} response.ErrorResponse "Часть записей не найдена"
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/sections/order [patch]
func (r *Routers) ReorderSections(c echo.Context) error {
	return r.reorder(c, "http.routers.ReorderSections", r.CatalogService.ReorderSections)
}

// ReorderItems godoc
// @Summary Порядок работ
// @Description Все id должны принадлежать одному разделу, иначе 400 и порядок не меняется
// @Tags Порядок
// @Accept json
// @Produce json
// @Param request body dto.ReorderRequest true "Список id в новом порядке"
// @Success 200 {object} dto.ReorderResponse
// @Failure 400 {object} response.ErrorResponse "Неверный формат, дубликаты, разные разделы"
// @Failure 404 {object} response.ErrorResponse "Часть записей не найдена"
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/items/order [patch]
func (r *Routers) ReorderItems(c echo.Context) error {
	return r.reorder(c, "http.routers.ReorderItems", r.CatalogService.ReorderItems)
}

// ReorderMedia godoc
// @Summary Порядок медиа
// @Description Все id должны принадлежать одной работе
// @Tags Порядок
// @Accept json
// @Produce json
// @Param request body dto.ReorderRequest true "Список id в новом порядке"
// @Success 200 {object} dto.ReorderResponse
// @Failure 400 {object} response.ErrorResponse "Неверный формат, дубликаты, разные работы"
// @Failure 404 {object} response.ErrorResponse "Часть записей не найдена"
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/media/order [patch]
func (r *Routers) ReorderMedia(c echo.Context) error {
	return r.reorder(c, "http.routers.ReorderMedia", r.MediaService.ReorderMedia)
}

// ReorderInfo godoc
// @Summary Порядок записей информационной страницы
// @Description Все id должны относиться к одному виду (награды, ярмарки, ...)
// @Tags Порядок
// @Accept json
// @Produce json
// @Param request body dto.ReorderRequest true "Список id в новом порядке"
// @Success 200 {object} dto.ReorderResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/info/order [patch]
func (r *Routers) ReorderInfo(c echo.Context) error {
	return r.reorder(c, "http.routers.ReorderInfo", r.InfoService.ReorderEntries)
}

func (r *Routers) reorder(c echo.Context, op string, apply func(context.Context, []int64) (int64, error)) error {
	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.ReorderRequest
	if err := decode(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	updated, err := apply(c.Request().Context(), req.IDs)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, dto.ReorderResponse{Updated: updated})
}
