// Package router assembles the gin engine: global middleware, docs, /health
// and /api/v1 with language and rate limiting.
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/myposcore/backend/internal/docs"
	"github.com/myposcore/backend/internal/handlers"
	"github.com/myposcore/backend/internal/middleware"
	"github.com/myposcore/backend/internal/response"
)

// Dependencies of the router. A nil RateCounter disables rate limiting.
type Dependencies struct {
	Logger           *zap.Logger
	Debug            bool
	CORSAllowOrigins []string
	TrustedProxies   []string
	RateCounter      middleware.Counter
	RateLimitRPS     int
	AuthValidator    middleware.TokenValidator
	Checks           handlers.CheckStore
	MaxBodyBytes     int64
}

// New builds the engine. Every answer, including 404/405 and recovered panics, is an envelope.
func New(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if len(deps.CORSAllowOrigins) == 0 {
		deps.CORSAllowOrigins = []string{"*"}
	}
	if deps.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	// ClientIP keys the rate limiter; forwarded headers count only from these proxies
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		deps.Logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	// recovery first so that a panic anywhere below still becomes an envelope
	r.Use(middleware.RecoveryMiddleware(deps.Logger))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggerMiddleware(deps.Logger))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  deps.CORSAllowOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept-Language", "Authorization", middleware.HeaderXRequestID},
		ExposeHeaders: []string{middleware.HeaderXRequestID, "Retry-After"},
	}))

	r.NoRoute(func(c *gin.Context) { response.NotFound(c, "route not found") })
	r.NoMethod(func(c *gin.Context) { response.Error(c, http.StatusMethodNotAllowed, "method not allowed") })

	r.GET("/health", handlers.Health)
	docs.Register(r)

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.LanguageMiddleware())
		if deps.RateCounter != nil && deps.RateLimitRPS > 0 {
			v1.Use(middleware.RateLimitMiddleware(deps.RateCounter, deps.RateLimitRPS, deps.Logger))
		}
		RegisterSystem(v1)
		RegisterCollections(v1, deps.MaxBodyBytes)
		RegisterChecks(v1.Group("/checks"), deps)
	}

	return r
}
