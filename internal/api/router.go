package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/facefx/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/facefx/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/facefx/internal/api/middleware"
)

// multipartOverhead is allowed on top of the image limit for form fields and boundaries
const multipartOverhead = 1 << 20

type Dependencies struct {
	Service        handler.PortraitService
	ProviderName   string
	MaxUploadBytes int
	RateLimit      middleware.RateLimiterConfig
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	maxUpload := handler.DefaultMaxUploadBytes
	if deps != nil && deps.MaxUploadBytes > 0 {
		maxUpload = deps.MaxUploadBytes
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "facefx",
		BodyLimit:    maxUpload + multipartOverhead,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	providerName := ""
	if r.deps != nil {
		providerName = r.deps.ProviderName
	}
	healthHandler := handler.NewHealthHandler(providerName)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil || r.deps.Service == nil {
		return
	}

	// Every effect request spends upstream quota, so only those are limited
	r.rateLimiter = middleware.NewRateLimiter(r.deps.RateLimit)
	limit := r.rateLimiter.Handler()

	pageHandler := handler.NewPageHandler(r.deps.Service, r.deps.MaxUploadBytes, r.logger)
	r.app.Get("/", pageHandler.Form)
	r.app.Post("/", limit, pageHandler.Submit)

	effectHandler := handler.NewEffectHandler(r.deps.Service, r.deps.MaxUploadBytes, r.logger)

	v1 := r.app.Group("/v1")
	v1.Get("/effects", effectHandler.Effects)
	v1.Post("/effects/expression", limit, effectHandler.Expression)
	v1.Post("/effects/age", limit, effectHandler.Age)
	v1.Post("/compositions", limit, effectHandler.Compose)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
