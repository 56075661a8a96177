package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"portfolio/internal/config"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/lib/validator"
	appmiddleware "portfolio/internal/middleware"
	httprouters "portfolio/internal/transport/http"
	"portfolio/internal/transport/http/dto/response"

	"github.com/arl/statsviz"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// AdminIDKey ключ контекста echo с ID вошедшего администратора
const AdminIDKey = "admin_id"

// HealthChecker проверка зависимостей для /health
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	health  HealthChecker
	cfg     config.HTTPConfig
	files   config.FileStorageConfig
}

func New(log *slog.Logger, cfg *config.Config, routers *httprouters.Routers, health HealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTP.WriteTimeout

	e.Validator = validator.New()

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Env == "prod",
	}
	e.Use(session.Middleware(store))

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(appmiddleware.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Warn("statsviz registration failed", sl.Err(err))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		health:  health,
		cfg:     cfg.HTTP,
		files:   cfg.FileStorage,
	}
}

// Echo нужен тестам, чтобы гонять запросы без сети
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	s.log.Info("http server listening", slog.String("addr", addr))

	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	const op = "http.Server.Stop"

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	s.log.Info("stopping http server", slog.String("op", op))

	if err := s.e.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// adminOnlyMiddleware пропускает запрос с сессией администратора
// или с действующим Bearer токеном
func (s *Server) adminOnlyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if sess, err := session.Get(httprouters.SessionName, c); err == nil {
			if adminID, ok := sess.Values["admin_id"].(int64); ok && adminID > 0 {
				c.Set(AdminIDKey, adminID)
				return next(c)
			}
		}

		token := httprouters.BearerToken(c)
		if token == "" {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
		}

		meta, err := s.routers.AuthService.Authenticate(c.Request().Context(), token)
		if err != nil {
			s.log.Debug("bearer token rejected", sl.Err(err))
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
		}

		c.Set(AdminIDKey, meta.AdminID)
		return next(c)
	}
}

func (s *Server) healthCheck(c echo.Context) error {
	if err := s.health.Ping(c.Request().Context()); err != nil {
		s.log.Error("health check failed", sl.Err(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) BuildRouters() {
	s.e.GET("/health", s.healthCheck)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if s.files.Driver == "local" {
		s.e.Static(s.files.PublicPath, s.files.BaseDir)
	}

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := s.e.Group("/api/v1")
	{
		api.POST("/login", s.routers.Login)
		api.POST("/logout", s.routers.Logout)

		api.GET("/sections", s.routers.Sections)
		api.GET("/sections/:slug", s.routers.SectionPage)
		api.GET("/items/:slug", s.routers.ItemPage)
		api.GET("/news", s.routers.News)
		api.GET("/news/:slug", s.routers.NewsBySlug)
		api.GET("/info/:kind", s.routers.Info)
		api.GET("/about", s.routers.About)
	}

	admin := api.Group("/admin", s.adminOnlyMiddleware)
	{
		sections := admin.Group("/sections")
		{
			sections.GET("", s.routers.ListSections)
			sections.POST("", s.routers.CreateSection)
			sections.PATCH("/order", s.routers.ReorderSections)
			sections.PUT("/:id", s.routers.UpdateSection)
			sections.DELETE("/:id", s.routers.DeleteSection)
			sections.GET("/:id/items", s.routers.ListItems)
			sections.POST("/:id/items", s.routers.CreateItem)
		}

		items := admin.Group("/items")
		{
			items.PATCH("/order", s.routers.ReorderItems)
			items.GET("/:id", s.routers.GetItem)
			items.PUT("/:id", s.routers.UpdateItem)
			items.DELETE("/:id", s.routers.DeleteItem)
			items.GET("/:id/media", s.routers.ListMedia)
			items.POST("/:id/media", s.routers.UploadMedia)
		}

		media := admin.Group("/media")
		{
			media.PATCH("/order", s.routers.ReorderMedia)
			media.PUT("/:id", s.routers.UpdateMedia)
			media.DELETE("/:id", s.routers.DeleteMedia)
		}

		news := admin.Group("/news")
		{
			news.GET("", s.routers.AdminListNews)
			news.POST("", s.routers.CreateNews)
			news.GET("/:id", s.routers.GetNews)
			news.PUT("/:id", s.routers.UpdateNews)
			news.DELETE("/:id", s.routers.DeleteNews)
		}

		info := admin.Group("/info")
		{
			info.GET("", s.routers.AdminListInfo)
			info.POST("", s.routers.CreateInfoEntry)
			info.PATCH("/order", s.routers.ReorderInfo)
			info.PUT("/:id", s.routers.UpdateInfoEntry)
			info.DELETE("/:id", s.routers.DeleteInfoEntry)
		}

		admin.PUT("/about", s.routers.SaveAbout)
	}
}
