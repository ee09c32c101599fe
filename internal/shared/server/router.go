package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/access"
	"resume-tailor/internal/admin"
	googleauth "resume-tailor/internal/auth"
	"resume-tailor/internal/billing"
	"resume-tailor/internal/health"
	"resume-tailor/internal/profiles"
	"resume-tailor/internal/resumes"
	"resume-tailor/internal/scout"
	"resume-tailor/internal/share"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
)

// Paths reachable without a session. Webhooks authenticate by signature and /r pages are public.
var publicPrefixes = []string{
	"/r/",
	"/api/v1/public/",
	"/api/v1/auth/google/",
	"/api/v1/billing/webhook",
	"/api/v1/health",
	"/metrics",
}

// Per-user budgets for the routes that call paid providers.
var (
	importRule = middleware.RateLimitRule{Rate: 1.0 / 10, Burst: 5}
	tailorRule = middleware.RateLimitRule{Rate: 1.0 / 6, Burst: 5}
	scoutRule  = middleware.RateLimitRule{Rate: 1.0 / 5, Burst: 3}
)

// RouterDeps carries the handlers registered by NewRouter.
type RouterDeps struct {
	Config   config.Config
	Sessions middleware.Verifier
	Limiter  *middleware.RateLimiter

	Health   *health.Handler
	Auth     *googleauth.Handler
	Profiles *profiles.Handler
	Resumes  *resumes.Handler
	Access   *access.Handler
	Billing  *billing.Handler
	Admin    *admin.Handler
	Scout    *scout.Handler
	Share    *share.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.ServiceKey(deps.Config.DBServiceKey, "/api/v1/admin"),
		middleware.Auth(deps.Sessions, publicPrefixes...),
	)

	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(time.Now)
	}

	r.GET("/metrics", metrics.Handler())
	if deps.Access != nil {
		deps.Access.RegisterPage(r)
	}

	api := r.Group("/api/v1")
	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
	} else {
		api.GET("/health", func(c *gin.Context) {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
		})
	}

	if deps.Auth != nil {
		deps.Auth.RegisterRoutes(api)
	}
	if deps.Profiles != nil {
		deps.Profiles.RegisterRoutes(api, middleware.RateLimit(limiter, "import", importRule))
	}
	if deps.Resumes != nil {
		deps.Resumes.RegisterRoutes(api, middleware.RateLimit(limiter, "tailor", tailorRule))
	}
	if deps.Access != nil {
		deps.Access.RegisterAPI(api)
	}
	if deps.Billing != nil {
		deps.Billing.RegisterRoutes(api)
		deps.Billing.RegisterWebhook(api)
	}
	if deps.Admin != nil {
		deps.Admin.RegisterRoutes(api)
	}
	if deps.Scout != nil {
		deps.Scout.RegisterRoutes(api, middleware.RateLimit(limiter, "scout", scoutRule))
	}
	if deps.Share != nil {
		deps.Share.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
