package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/feedboard/social-api/internal/api/handler"
	"github.com/feedboard/social-api/internal/api/middleware"
	"github.com/feedboard/social-api/internal/core/ports"
)

// Deps carries everything the router needs wired in from main.
type Deps struct {
	Accounts ports.AccountService
	Feed     ports.FeedService
	Tokens   ports.TokenService
	Images   ports.ImageStore
	Cleaner  ports.ImageCleaner

	ImagesDir string
	Mongo     *mongo.Database
	Redis     *redis.Client
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	// Auth gate: annotates the context with the caller identity, never rejects.
	e.Use(middleware.Auth(deps.Tokens))

	// --- Operations ---
	gqlHandler := handler.NewGraphQLHandler(deps.Accounts, deps.Feed)
	e.POST("/graphql", gqlHandler.Execute)

	// --- Image upload + static serving ---
	imageHandler := handler.NewImageHandler(deps.Images, deps.Cleaner)
	e.PUT("/post-image", imageHandler.Upload)
	e.Static("/images", deps.ImagesDir)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
