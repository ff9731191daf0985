package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sauravdeep01/ResumeAnalyser/internal/resumes"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/auth"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/metrics"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/server/middleware"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/users"
)

// RouterDeps carries everything the router needs to wire the API surface.
type RouterDeps struct {
	Env         string
	CORSOrigins []string
	Tokens      *auth.Manager
	Users       *users.Handler
	Resumes     *resumes.Handler
}

// NewRouter builds the gin engine with the full middleware chain and all
// API routes mounted.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(deps.CORSOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	deps.Users.RegisterPublicRoutes(authGroup)

	authProtected := api.Group("/auth")
	authProtected.Use(middleware.Auth(deps.Tokens))
	deps.Users.RegisterProtectedRoutes(authProtected)

	resumeGroup := api.Group("/resume")
	resumeGroup.Use(middleware.Auth(deps.Tokens))
	deps.Resumes.RegisterRoutes(resumeGroup)

	return router
}
