package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/filmfest/catalog-api/internal/api/handler"
	"github.com/filmfest/catalog-api/internal/api/middleware"
	"github.com/filmfest/catalog-api/internal/core/service"
	"github.com/filmfest/catalog-api/internal/infrastructure/config"
	mongodb "github.com/filmfest/catalog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/filmfest/catalog-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit sink is injected by main, which owns the dispatcher lifecycle.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit service.AuditSink, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("catalog"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	movieRepo := mongodb.NewMovieRepository(db)
	ratingRepo := mongodb.NewRatingRepository(db)
	avgCache := redisdb.NewAverageCache(rdb)

	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	codec := service.NewJWTCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authService, err := service.NewAuthService(userRepo, hasher, codec, audit, log)
	if err != nil {
		return nil, err
	}
	movieService := service.NewMovieService(movieRepo, log)
	ratingService := service.NewRatingService(ratingRepo, movieRepo, avgCache, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	movieHandler := handler.NewMovieHandler(movieService)
	ratingHandler := handler.NewRatingHandler(ratingService)

	// Identity resolution runs once per request, before any policy gate.
	e.Use(middleware.Identity(codec, authService))

	// --- Auth routes ---
	e.POST("/v1/auth/register", authHandler.Register)
	e.POST("/v1/auth/login", authHandler.Login)
	e.GET("/v1/auth/me", authHandler.Me)

	// --- Catalog routes ---
	movies := e.Group("/v1/movies")
	movies.GET("", movieHandler.List, middleware.Authorize(middleware.OpReadCatalog))
	movies.GET("/:id", movieHandler.Get, middleware.Authorize(middleware.OpReadCatalog))
	movies.POST("", movieHandler.Create, middleware.Authorize(middleware.OpWriteCatalog))
	movies.PUT("/:id", movieHandler.Update, middleware.Authorize(middleware.OpWriteCatalog))
	movies.DELETE("/:id", movieHandler.Delete, middleware.Authorize(middleware.OpWriteCatalog))

	// --- Rating routes ---
	movies.POST("/:id/ratings", ratingHandler.Submit, middleware.Authorize(middleware.OpSubmitRating))
	movies.GET("/:id/ratings", ratingHandler.ListByMovie, middleware.Authorize(middleware.OpReadRatings))
	movies.GET("/:id/ratings/average", ratingHandler.Average, middleware.Authorize(middleware.OpReadRatings))
	e.GET("/v1/ratings/mine", ratingHandler.Mine, middleware.Authorize(middleware.OpReadOwnRatings))

	// --- Administration ---
	e.PUT("/v1/users/:id/role", authHandler.ChangeRole, middleware.Authorize(middleware.OpManageUsers))

	// --- Observability & health probes (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e, nil
}
