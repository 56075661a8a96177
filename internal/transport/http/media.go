package http

import (
	"log/slog"
	"net/http"

	"portfolio/internal/domain/models"
	"portfolio/internal/transport/http/dto"
	"portfolio/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// UploadMedia godoc
// @Summary Загрузка медиафайла
// @Description Сохраняет файл и добавляет его в конец списка медиа работы. Тип определяется по содержимому
// @Tags Медиа
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID работы"
// @Param file formData file true "Изображение или видео"
// @Param caption formData string false "Подпись"
// @Param alt formData string false "Альтернативный текст"
// @Param thumbnail_url formData string false "URL превью для видео"
// @Success 201 {object} response.Response{data=models.Media}
// @Failure 400 {object} response.ErrorResponse "Нет файла, слишком большой или неподдерживаемый тип"
// @Failure 404 {object} response.ErrorResponse "Работа не найдена"
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/items/{id}/media [post]
func (r *Routers) UploadMedia(c echo.Context) error {
	const op = "http.routers.UploadMedia"

	log := r.log.With(
		slog.String("op", op),
	)

	itemID, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "item id")
	}

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("empty file in request", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "file is required"))
	}

	input := dto.MediaUploadInput{
		ItemID:       itemID,
		File:         file,
		Caption:      optionalFormValue(c, "caption"),
		Alt:          optionalFormValue(c, "alt"),
		ThumbnailURL: optionalFormValue(c, "thumbnail_url"),
	}

	if err := c.Validate(&input); err != nil {
		return r.fail(c, log, err)
	}

	log.Debug("got file for upload",
		slog.Int64("item_id", itemID),
		slog.String("filename", file.Filename),
		slog.Int64("size", file.Size),
	)

	media, err := r.MediaService.UploadMedia(c.Request().Context(), input)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(media))
}

// ListMedia godoc
// @Summary Медиа работы
// @Tags Медиа
// @Produce json
// @Param id path int true "ID работы"
// @Success 200 {object} response.Response{data=[]models.Media}
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/items/{id}/media [get]
func (r *Routers) ListMedia(c echo.Context) error {
	const op = "http.routers.ListMedia"

	itemID, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "item id")
	}

	media, err := r.MediaService.ListMedia(c.Request().Context(), itemID)
	if err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	if media == nil {
		media = []models.Media{}
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(media))
}

// UpdateMedia godoc
// @Summary Обновить подпись медиа
// @Tags Медиа
// @Accept json
// @Produce json
// @Param id path int true "ID медиа"
// @Param request body dto.MediaUpdateInput true "Подпись, alt, превью"
// @Success 200 {object} response.Response{data=models.Media}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/media/{id} [put]
func (r *Routers) UpdateMedia(c echo.Context) error {
	const op = "http.routers.UpdateMedia"

	log := r.log.With(
		slog.String("op", op),
	)

	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "media id")
	}

	var req dto.MediaUpdateInput
	if err := decode(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	media, err := r.MediaService.UpdateMedia(c.Request().Context(), id, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(media))
}

// DeleteMedia godoc
// @Summary Удалить медиа
// @Description Удаляет запись и файл, оставшиеся медиа работы уплотняются
// @Tags Медиа
// @Param id path int true "ID медиа"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/media/{id} [delete]
func (r *Routers) DeleteMedia(c echo.Context) error {
	const op = "http.routers.DeleteMedia"

	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "media id")
	}

	if err := r.MediaService.DeleteMedia(c.Request().Context(), id); err != nil {
		return r.fail(c, r.log.With(slog.String("op", op)), err)
	}

	return c.NoContent(http.StatusNoContent)
}

func optionalFormValue(c echo.Context, name string) *string {
	v := c.FormValue(name)
	if v == "" {
		return nil
	}
	return &v
}
