package http

import (
	"log/slog"
	"net/http"

	"portfolio/internal/domain/models"
	"portfolio/internal/transport/http/dto"
	"portfolio/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// AdminListInfo godoc
// @Summary Записи информационной страницы (админка)
// @Tags Информация
// @Produce json
// @Param kind query string true "Вид записи" Enums(award, fair, exhibition, contact, link)
// @Success 200 {object} response.Response{data=[]models.InfoEntry}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/info [get]
func (r *Routers) AdminListInfo(c echo.Context) error {
	const op = "http.routers.AdminListInfo"

	entries, err := r.InfoService.ListEntries(c.Request().Context(), models.InfoKind(c.QueryParam("kind")))
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(entries))
}

// CreateInfoEntry godoc
// @Summary Добавить запись
// @Description Запись встает в конец списка своего вида
// @Tags Информация
// @Accept json
// @Produce json
// @Param request body dto.InfoEntryInput true "Запись"
// @Success 201 {object} response.Response{data=models.InfoEntry}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/info [post]
func (r *Routers) CreateInfoEntry(c echo.Context) error {
	const op = "http.routers.CreateInfoEntry"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.InfoEntryInput
	if err := decode(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	entry, err := r.InfoService.CreateEntry(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(entry))
}

// UpdateInfoEntry godoc
// @Summary Обновить запись
// @Description Вид записи не меняется
// @Tags Информация
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Param request body dto.InfoEntryInput true "Запись"
// @Success 200 {object} response.Response{data=models.InfoEntry}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/info/{id} [put]
func (r *Routers) UpdateInfoEntry(c echo.Context) error {
	const op = "http.routers.UpdateInfoEntry"

	log := r.log.With(
		slog.String("op", op),
	)

	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "entry id")
	}

	var req dto.InfoEntryInput
	if err := decode(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	entry, err := r.InfoService.UpdateEntry(c.Request().Context(), id, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(entry))
}

// DeleteInfoEntry godoc
// @Summary Удалить запись
// @Tags Информация
// @Param id path int true "ID записи"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/info/{id} [delete]
func (r *Routers) DeleteInfoEntry(c echo.Context) error {
	const op = "http.routers.DeleteInfoEntry"

	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "entry id")
	}

	if err := r.InfoService.DeleteEntry(c.Request().Context(), id); err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SaveAbout godoc
// @Summary Сохранить страницу "о себе"
// @Tags Информация
// @Accept json
// @Produce json
// @Param request body dto.AboutInput true "Текст и фото"
// @Success 200 {object} response.Response{data=models.About}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/about [put]
func (r *Routers) SaveAbout(c echo.Context) error {
	const op = "http.routers.SaveAbout"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.AboutInput
	if err := decode(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	about, err := r.InfoService.SaveAbout(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(about))
}
