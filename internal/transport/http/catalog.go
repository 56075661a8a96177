package http

import (
	"log/slog"
	"net/http"

	"portfolio/internal/transport/http/dto"
	"portfolio/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// ListSections godoc
// @Summary Разделы (админка)
// @Description Все разделы, включая скрытые, в порядке position
// @Tags Разделы
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Section}
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/sections [get]
func (r *Routers) ListSections(c echo.Context) error {
	const op = "http.routers.ListSections"

	sections, err := r.CatalogService.ListSections(c.Request().Context())
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(sections))
}

// CreateSection godoc
// @Summary Создать раздел
// @Description Новый раздел встает в конец списка
// @Tags Разделы
// @Accept json
// @Produce json
// @Param request body dto.SectionInput true "Раздел"
// @Success 201 {object} response.Response{data=models.Section}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Slug занят"
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/sections [post]
func (r *Routers) CreateSection(c echo.Context) error {
	const op = "http.routers.CreateSection"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.SectionInput
	if err := decode(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	section, err := r.CatalogService.CreateSection(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(section))
}

// UpdateSection godoc
// @Summary Обновить раздел
// @Tags Разделы
// @Accept json
// @Produce json
// @Param id path int true "ID раздела"
// @Param request body dto.SectionInput true "Раздел"
// @Success 200 {object} response.Response{data=models.Section}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/sections/{id} [put]
func (r *Routers) UpdateSection(c echo.Context) error {
	const op = "http.routers.UpdateSection"

	log := r.log.With(
		slog.String("op", op),
	)

	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "section id")
	}

	var req dto.SectionInput
	if err := decode(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	section, err := r.CatalogService.UpdateSection(c.Request().Context(), id, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(section))
}

// DeleteSection godoc
// @Summary Удалить раздел
// @Description Удаляет раздел вместе с работами, медиа и файлами. Оставшиеся разделы уплотняются
// @Tags Разделы
// @Param id path int true "ID раздела"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/sections/{id} [delete]
func (r *Routers) DeleteSection(c echo.Context) error {
	const op = "http.routers.DeleteSection"

	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "section id")
	}

	if err := r.CatalogService.DeleteSection(c.Request().Context(), id); err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListItems godoc
// @Summary Работы раздела (админка)
// @Description Все работы раздела, включая неопубликованные
// @Tags Работы
// @Produce json
// @Param id path int true "ID раздела"
// @Success 200 {object} response.Response{data=[]models.Item}
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/sections/{id}/items [get]
func (r *Routers) ListItems(c echo.Context) error {
	const op = "http.routers.ListItems"

	sectionID, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "section id")
	}

	items, err := r.CatalogService.ListItems(c.Request().Context(), sectionID)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(items))
}

// CreateItem godoc
// @Summary Создать работу
// @Description Работа добавляется в конец раздела из пути
// @Tags Работы
// @Accept json
// @Produce json
// @Param id path int true "ID раздела"
// @Param request body dto.ItemInput true "Работа"
// @Success 201 {object} response.Response{data=models.Item}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Раздел не найден"
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/sections/{id}/items [post]
func (r *Routers) CreateItem(c echo.Context) error {
	const op = "http.routers.CreateItem"

	log := r.log.With(
		slog.String("op", op),
	)

	sectionID, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "section id")
	}

	var req dto.ItemInput
	if err := decode(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	item, err := r.CatalogService.CreateItem(c.Request().Context(), sectionID, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(item))
}

// GetItem godoc
// @Summary Работа (админка)
// @Tags Работы
// @Produce json
// @Param id path int true "ID работы"
// @Success 200 {object} response.Response{data=models.Item}
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/items/{id} [get]
func (r *Routers) GetItem(c echo.Context) error {
	const op = "http.routers.GetItem"

	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "item id")
	}

	item, err := r.CatalogService.GetItem(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(item))
}

// UpdateItem godoc
// @Summary Обновить работу
// @Description section_id переносит работу в конец другого раздела, старый раздел уплотняется
// @Tags Работы
// @Accept json
// @Produce json
// @Param id path int true "ID работы"
// @Param request body dto.ItemInput true "Работа"
// @Success 200 {object} response.Response{data=models.Item}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/items/{id} [put]
func (r *Routers) UpdateItem(c echo.Context) error {
	const op = "http.routers.UpdateItem"

	log := r.log.With(
		slog.String("op", op),
	)

	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "item id")
	}

	var req dto.ItemInput
	if err := decode(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	item, err := r.CatalogService.UpdateItem(c.Request().Context(), id, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(item))
}

// DeleteItem godoc
// @Summary Удалить работу
// @Description Удаляет работу с медиа и файлами, раздел уплотняется
// @Tags Работы
// @Param id path int true "ID работы"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/items/{id} [delete]
func (r *Routers) DeleteItem(c echo.Context) error {
	const op = "http.routers.DeleteItem"

	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "item id")
	}

	if err := r.CatalogService.DeleteItem(c.Request().Context(), id); err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.NoContent(http.StatusNoContent)
}
