package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/tv-show-library/internal/config"
	"github.com/iliyamo/tv-show-library/internal/handler"
	"github.com/iliyamo/tv-show-library/internal/middleware"
	"github.com/iliyamo/tv-show-library/internal/ratelimit"
)

// Deps carries everything the route tables need.  Redis and Local may be
// nil; the middleware that uses them then degrades as documented there.
type Deps struct {
	DB        *sql.DB
	Shows     *handler.ShowHandler
	Auth      *handler.AuthHandler
	AuthCfg   config.AuthConfig
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
	Local     *ratelimit.KeyedRateLimiter
	Log       *slog.Logger
}

// New builds an Echo instance with the standard middleware and every route.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Standard(d.Log)...)
	RegisterRoutes(e, d.DB)
	RegisterShows(e, d)
	RegisterAuth(e, d.Auth)
	return e
}

// RegisterRoutes registers the unauthenticated probes.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAuth exposes the admin login.  The handler itself answers 404
// while authentication is disabled.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/api/auth/login", a.Login)
}

// RegisterShows mounts /api/shows.  Every route is rate limited.  Reads go
// through the response cache; writes require an admin token when auth is
// enabled and purge the cache on success.
func RegisterShows(e *echo.Echo, d Deps) {
	g := e.Group("/api/shows")
	g.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Local, d.Log))

	cache := middleware.NewRedisCache(d.Cache, d.Redis)
	g.GET("", d.Shows.List, cache)
	g.GET("/:id", d.Shows.Get, cache)

	secret := ""
	if d.AuthCfg.Enabled() {
		secret = d.AuthCfg.Secret
	}
	write := []echo.MiddlewareFunc{
		middleware.AdminOnly(secret),
		middleware.NewCachePurger(d.Cache, d.Redis, d.Log),
	}
	g.POST("", d.Shows.Create, write...)
	g.PUT("/:id", d.Shows.Update, write...)
	g.DELETE("/:id", d.Shows.Delete, write...)
}
