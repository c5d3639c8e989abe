package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	custommw "sunami_park/internal/middleware"
	httprouters "sunami_park/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string
	token   string
}

func New(log *slog.Logger, token, sessionSecret, host, port string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(sessionSecret))))

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	e.Use(custommw.PrometheusMetrics)

	mux := http.NewServeMux()
	err := statsviz.Register(mux)
	if err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		host:    host,
		port:    port,
		token:   token,
	}
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

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// BuildRouters registers the routes: public park content, the hidden admin
// gate, the JWT-protected admin surface and the debug groups. uploadsDir is
// served statically so uploaded gallery files resolve.
func (s *Server) BuildRouters(uploadsDir string) {
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.e.Static("/uploads", uploadsDir)

	api := s.e.Group("/api/v1")
	{
		api.GET("/park/settings", s.routers.GetSettings)
		api.GET("/park/gallery", s.routers.GetGallery)
		api.GET("/realtime", s.routers.Realtime)

		api.POST("/admin/logo-click", s.routers.LogoClick)
		api.POST("/admin/login", s.routers.Login)
		api.POST("/admin/dismiss", s.routers.Dismiss)

		debug := s.e.Group("/debug")
		{
			debug.GET("/statsviz/", echo.WrapHandler(s.m))
			debug.GET("/statsviz/*", echo.WrapHandler(s.m))
		}

		swagger := s.e.Group("/swag")
		{
			swagger.GET("/swagger/*", echoSwagger.WrapHandler)
		}

		adminGroup := api.Group("/admin")
		adminGroup.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(s.token),
		}))
		{
			adminGroup.POST("/logout", s.routers.Logout)

			adminGroup.GET("/edit/:section", s.routers.EditState)
			adminGroup.POST("/edit/:section/start", s.routers.StartEdit)
			adminGroup.PUT("/edit/:section/draft", s.routers.SetDraft)
			adminGroup.POST("/edit/:section/cancel", s.routers.CancelEdit)
			adminGroup.POST("/edit/:section/save", s.routers.SaveEdit)
		}

		parkGroup := api.Group("/park")
		parkGroup.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(s.token),
		}))
		{
			parkGroup.PATCH("/settings", s.routers.UpdateSettings)
			parkGroup.POST("/gallery", s.routers.AddGalleryItem)
			parkGroup.PATCH("/gallery/:id", s.routers.UpdateGalleryItem)
			parkGroup.DELETE("/gallery/:id", s.routers.DeleteGalleryItem)
		}
	}
}
