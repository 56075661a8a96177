package http

import (
	"log/slog"
	"net/http"
	"strings"

	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/transport/http/dto/request"
	"portfolio/internal/transport/http/dto/response"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// Login godoc
// @Summary Вход администратора
// @Description Проверяет логин и пароль, открывает cookie сессию и возвращает access токен
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Данные для входа"
// @Success 200 {object} response.Response{data=models.Session} "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 401 {object} response.ErrorResponse "Ошибка аутентификации"
// @Router /api/v1/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest
	if err := decode(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	sessionData, err := r.AuthService.Login(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		return r.fail(c, log, err)
	}

	sess, err := session.Get(SessionName, c)
	if err != nil {
		log.Error("failed to open session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	sess.Values["admin_id"] = sessionData.AdminID
	sess.Values["login"] = sessionData.Login
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		log.Error("failed to save session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	log.Info("admin logged in", slog.Int64("admin_id", sessionData.AdminID))

	return c.JSON(http.StatusOK, response.SuccessResponse(sessionData))
}

// Logout godoc
// @Summary Выход администратора
// @Description Закрывает сессию и отзывает переданный bearer токен
// @Tags Авторизация
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	log := r.log.With(
		slog.String("op", op),
	)

	if err := r.AuthService.Logout(c.Request().Context(), BearerToken(c)); err != nil {
		return r.fail(c, log, err)
	}

	if sess, err := session.Get(SessionName, c); err == nil {
		sess.Values = map[interface{}]interface{}{}
		sess.Options.MaxAge = -1
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			log.Warn("failed to clear session", sl.Err(err))
		}
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "logged out"})
}

// BearerToken токен из заголовка Authorization: Bearer
func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)

	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}
