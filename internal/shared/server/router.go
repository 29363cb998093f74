package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-vault/internal/auth"
	"resume-vault/internal/resumes"
	"resume-vault/internal/shared/config"
	"resume-vault/internal/shared/metrics"
	"resume-vault/internal/shared/server/middleware"
	"resume-vault/internal/shared/server/respond"
	"resume-vault/internal/users"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config        config.Config
	ResumeHandler *resumes.Handler
	UserHandler   *users.Handler
	GoogleAuth    *googleauth.GoogleService
	ArtifactServe gin.HandlerFunc
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())
	if deps.ArtifactServe != nil {
		r.GET("/artifacts/*key", deps.ArtifactServe)
	}

	api := r.Group("/api/v1")

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}

	// Anonymous reads stay open but rate limited; the visibility guard
	// inside the service decides what they may see.
	public := api.Group("", middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"public-read": {Rate: 5, Burst: 20},
		},
		DefaultGroup: "public-read",
		GroupFor: func(c *gin.Context) string {
			if strings.TrimSpace(middleware.UserIDFromContext(c)) != "" {
				return "authenticated"
			}
			return "public-read"
		},
	}))
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterPublicRoutes(public)
	}

	authed := api.Group("", middleware.RequireAuth())
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(authed)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(authed)
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
