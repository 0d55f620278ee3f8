package api

import (
	"net/http"
	"slices"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/webscaffold/webapp/docs"
	"github.com/webscaffold/webapp/internal/api/handler"
	"github.com/webscaffold/webapp/internal/api/metrics"
	"github.com/webscaffold/webapp/internal/api/middleware"
	"github.com/webscaffold/webapp/internal/core/domain"
	"github.com/webscaffold/webapp/internal/core/ports"
	"github.com/webscaffold/webapp/internal/pkg/config"
	"github.com/webscaffold/webapp/internal/web"
)

const (
	metricsPath = "/metrics"
	bodyLimit   = "1M"
	gzipMinSize = 1000
)

// Deps are the collaborators the router wires into handlers and middleware.
type Deps struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Auth     ports.AuthService
	Examples ports.ExampleService
	Tokens   ports.TokenManager

	// Inspector samples host resources for /health/system.
	Inspector handler.SystemInspector
	// Database names the primary store ("memory" or "mongodb").
	Database string
	// Checkers are pinged by the readiness and system checks.
	Checkers map[string]handler.Checker
	// RateLimitStore replaces the in-memory limiter when set.
	RateLimitStore echomiddleware.RateLimiterStore
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	cfg := d.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = bool(cfg.Debug)
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- Global middleware ---
	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			d.Logger.Error().Err(err).Bytes("stack", stack).Str("path", c.Request().URL.Path).Msg("panic recovered")
			return err
		},
	}))
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(middleware.ProcessTime())
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowCredentials: true,
		ExposeHeaders:    []string{middleware.HeaderProcessTime, echo.HeaderXRequestID},
		// A "*" entry echoes the request origin so credentialed calls succeed.
		UnsafeWildcardOriginWithAllowCredentials: slices.Contains(cfg.CORSOrigins, "*"),
	}))
	e.Use(echomiddleware.GzipWithConfig(echomiddleware.GzipConfig{
		MinLength: gzipMinSize,
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == metricsPath
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "webapp",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == metricsPath
		},
	}))
	if cfg.RateLimit.Enabled {
		e.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Requests:       cfg.RateLimit.Requests,
			Window:         cfg.RateLimit.Window,
			Store:          d.RateLimitStore,
			ExemptPrefixes: []string{"/static", cfg.DocsPath(), "/health", metricsPath},
			Rejected:       m.RateLimited,
			Logger:         d.Logger,
		}))
	}
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	// --- Pages and assets ---
	pages := handler.NewPagesHandler(handler.SiteInfo{
		AppName:     cfg.AppName,
		Version:     cfg.AppVersion,
		Environment: cfg.Environment,
		APIPrefix:   cfg.APIPrefix,
		DocsURL:     cfg.DocsPath() + "/index.html",
	})
	e.GET("/", pages.Home)
	e.GET("/about", pages.About)
	e.StaticFS("/static", web.Static())

	// --- Health checks and metrics (no auth required) ---
	health := handler.NewHealthHandler(d.Inspector, d.Database, cfg.AppVersion, d.Checkers)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/health/system", health.System)
	e.GET(metricsPath, echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))

	// --- API docs ---
	docs.Configure(cfg.AppName, cfg.AppVersion, cfg.APIPrefix)
	e.GET(cfg.DocsPath()+"/*", echoSwagger.WrapHandler)

	// --- API ---
	authHandler := handler.NewAuthHandler(d.Auth, m)
	exampleHandler := handler.NewExampleHandler(d.Examples, m)
	requireAuth := middleware.Auth(d.Tokens, d.Auth)

	api := e.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/token", authHandler.Token)
	auth.POST("/register", authHandler.Register)
	auth.GET("/me", authHandler.Me, requireAuth)

	api.GET("/users", authHandler.ListUsers, requireAuth, middleware.RequireRoles(domain.RoleAdmin))

	examples := api.Group("/examples", requireAuth)
	examples.GET("", exampleHandler.List)
	examples.POST("", exampleHandler.Create)
	examples.GET("/:id", exampleHandler.Get)
	examples.PUT("/:id", exampleHandler.Update)
	examples.DELETE("/:id", exampleHandler.Delete)

	return e, nil
}
