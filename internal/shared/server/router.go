package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/resumes"
	"resume-maker/internal/services/health"
	"resume-maker/internal/shared/config"
	"resume-maker/internal/shared/metrics"
	"resume-maker/internal/shared/server/middleware"
	"resume-maker/internal/shared/server/respond"
)

const (
	rateGroupDefault    = "DEFAULT"
	rateGroupGeneration = "GENERATION"
	rateGroupExempt     = "EXEMPT"
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config        config.Config
	ResumeHandler *resumes.Handler
	HealthHandler *health.Handler
	Limiter       *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "Route "+c.Request.Method+" "+c.Request.URL.Path+" not found", nil)
	})

	api := r.Group(cfg.APIPrefix)
	if deps.HealthHandler != nil {
		deps.HealthHandler.RegisterRoutes(api)
	}

	scoped := api.Group("")
	scoped.Use(
		middleware.Session(cfg.IsProduction()),
		middleware.RateLimit(rateLimitConfig(cfg, deps.Limiter)),
	)
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(scoped)
	}

	return r
}

func rateLimitConfig(cfg config.Config, limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	genBurst := cfg.RateLimitBurst / 4
	if genBurst < 1 {
		genBurst = 1
	}
	return middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		GroupFor:     rateGroupFor,
		Limiter:      limiter,
		Rules: map[string]middleware.RateLimitRule{
			rateGroupDefault:    {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
			rateGroupGeneration: {Rate: cfg.RateLimitRPS / 5, Burst: genBurst},
		},
	}
}

// rateGroupFor puts the calls that may reach the model into their own bucket.
func rateGroupFor(c *gin.Context) string {
	if c.Request.Method == http.MethodOptions {
		return rateGroupExempt
	}
	if c.Request.Method == http.MethodPost {
		return rateGroupGeneration
	}
	return rateGroupDefault
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
