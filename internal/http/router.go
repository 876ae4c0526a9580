package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/clearlist/api/internal/auth"
	"github.com/clearlist/api/internal/cache"
	"github.com/clearlist/api/internal/config"
	"github.com/clearlist/api/internal/http/handlers"
	"github.com/clearlist/api/internal/http/middlewares"
	"github.com/clearlist/api/internal/observability"
	"github.com/clearlist/api/internal/redisclient"
	"github.com/clearlist/api/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter wires the production dependencies: postgres-backed stores, the
// optional Redis-backed limiter and the Prometheus middleware.
func NewRouter(log *slog.Logger, pool *pgxpool.Pool, rdb *redisclient.Client, prom *observability.Prom, cfg config.Config) *gin.Engine {
	usersRepo := postgres.NewUsersRepo(pool, prom)
	todosRepo := postgres.NewTodosRepo(pool, prom)

	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	var limiter middlewares.Limiter

	if rdb != nil {
		limiter = middlewares.NewRedisRateLimiter(rdb.Raw(), cfg.AuthRateLimit, time.Duration(cfg.AuthRateWindowSecs)*time.Second)
	} else {
		limiter = middlewares.NewRateLimiter(cfg.AuthRateLimit, time.Duration(cfg.AuthRateWindowSecs)*time.Second)
	}

	return newRouter(log, cfg, usersRepo, todosRepo, ping, prom, limiter)
}

// NewRouterWithStores builds the same routing surface over injected stores,
// so the full HTTP contract is exercisable without a live database.
func NewRouterWithStores(log *slog.Logger, cfg config.Config, users handlers.UserStore, todos handlers.TodoStore, ping func() error) *gin.Engine {
	limiter := middlewares.NewRateLimiter(cfg.AuthRateLimit, time.Duration(cfg.AuthRateWindowSecs)*time.Second)

	return newRouter(log, cfg, users, todos, ping, nil, limiter)
}

func newRouter(log *slog.Logger, cfg config.Config, users handlers.UserStore, todos handlers.TodoStore, ping func() error, prom *observability.Prom, limiter middlewares.Limiter) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	if cfg.OTELEndpoint != "" {
		r.Use(otelgin.Middleware("clearlist-api"))
	}

	// health + metrics

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if prom != nil {
		r.GET("/metrics", gin.WrapH(prom.Handler()))
	}

	// auth surface

	jwtManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLDays)*24*time.Hour)
	authHandler := handlers.NewAuthHandler(users, jwtManager)
	authLimit := limiter.Middleware(middlewares.KeyByIP)

	r.POST("/register", authLimit, authHandler.Register)
	r.POST("/login", authLimit, authHandler.Login)

	// todos, owner-scoped behind the auth gate

	listCache := cache.New(time.Duration(cfg.ListCacheTTLSecs) * time.Second)
	todosHandler := handlers.NewTodosHandlerWithCache(todos, listCache)

	authMW := middlewares.NewAuthMiddleware(jwtManager)

	protected := r.Group("/todos")
	protected.Use(authMW.RequireAuth())

	protected.GET("", todosHandler.ListTodos)
	protected.POST("", todosHandler.CreateTodo)
	protected.PUT("", todosHandler.UpdateTodo)
	protected.DELETE("/:id", todosHandler.DeleteTodo)

	return r
}
