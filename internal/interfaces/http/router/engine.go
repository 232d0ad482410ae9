package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/erp/customers/internal/infrastructure/config"
	"github.com/erp/customers/internal/infrastructure/logger"
	"github.com/erp/customers/internal/infrastructure/telemetry"
	"github.com/erp/customers/internal/interfaces/http/handler"
	"github.com/erp/customers/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Messages for requests that match no handler
const (
	msgRouteNotFound    = "The requested URL was not found on the server."
	msgMethodNotAllowed = "The method is not allowed for the requested URL."
)

// Dependencies is everything NewEngine wires into the gin engine
type Dependencies struct {
	Logger  *zap.Logger
	HTTP    config.HTTPConfig
	Swagger config.SwaggerConfig

	ServiceName      string
	TracingEnabled   bool
	ProfilingEnabled bool
	MeterProvider    *telemetry.MeterProvider // nil disables HTTP metrics
	RateLimiter      *middleware.RateLimiter  // nil disables throttling

	Customers *handler.CustomerHandler
	System    *handler.SystemHandler
}

// NewEngine builds the gin engine with the middleware stack and all routes.
//
// Middleware order:
//  1. RequestID - generate or propagate the request ID
//  2. Recovery - catch panics
//  3. Tracing - server span per request, tagged with the request ID
//  4. Logger - request log with trace and request IDs
//  5. Metrics - request count, latency and size per route
//  6. Profiling - pprof labels per route
//  7. Security headers and CORS
//  8. Per-client rate limit and the body size limit
func NewEngine(deps Dependencies) (*gin.Engine, error) {
	if deps.Customers == nil || deps.System == nil {
		return nil, errors.New("router: customer and system handlers are required")
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	if len(deps.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(deps.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(deps.MeterProvider)
	if err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: deps.ServiceName,
		Enabled:     deps.TracingEnabled,
		SkipPaths:   []string{"/health"},
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(httpMetrics)

	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = deps.ProfilingEnabled
	engine.Use(middleware.ProfilingWithConfig(profiling))

	engine.Use(middleware.Secure())

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = deps.HTTP.CORSAllowOrigins
	if len(deps.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = deps.HTTP.CORSAllowMethods
	}
	if len(deps.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = deps.HTTP.CORSAllowHeaders
	}
	cors.MaxAge = 12 * time.Hour
	engine.Use(middleware.CORSWithConfig(cors))
	engine.Use(middleware.RateLimit(deps.RateLimiter, "/health"))

	if deps.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(deps.HTTP.MaxBodySize))
	}

	engine.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, http.StatusNotFound, msgRouteNotFound)
	})
	engine.NoMethod(func(c *gin.Context) {
		middleware.AbortWithError(c, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	engine.GET("/", deps.System.Index)
	engine.GET("/health", deps.System.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    deps.Swagger.Enabled,
			AllowedIPs: deps.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := NewRouter(engine, WithBasePath(deps.HTTP.BasePath))
	r.Register(CustomerRoutes(deps.Customers))
	r.Setup()

	return engine, nil
}

// CustomerRoutes declares the customer resource routes
func CustomerRoutes(h *handler.CustomerHandler) *DomainGroup {
	stateChange := []string{http.MethodPut, http.MethodPatch}

	customers := NewDomainGroup("customers", "/customers")
	customers.GET("", h.List)
	customers.POST("", middleware.RequireJSON(), h.Create)
	customers.GET("/:id", h.Get)
	customers.PUT("/:id", middleware.RequireJSON(), h.Update)
	customers.DELETE("/:id", h.Delete)
	customers.Handle(stateChange, "/:id/activate", h.Activate)
	customers.Handle(stateChange, "/:id/deactivate", h.Deactivate)
	return customers
}
