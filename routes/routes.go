package routes

import (
	"postulate-api/controllers"
	"postulate-api/middleware"
	"postulate-api/models"
	"postulate-api/monitor"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth     *controllers.AuthController
	Ideas    *controllers.IdeaController
	Waitlist *controllers.WaitlistController
	Health   *controllers.HealthController
	Tokens   middleware.TokenVerifier

	AllowedOrigins []string
	ServiceName    string
	Version        string
	LogFile        string
}

const maxLogTail = 1 << 20

func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Tracing(h.ServiceName))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(h.AllowedOrigins))
	router.Use(middleware.ErrorHandler())

	router.GET("/", controllers.Info(h.Version))

	api := router.Group("/api")
	{
		api.GET("/health", h.Health.Health)

		waitlist := api.Group("/waitlist")
		{
			waitlist.POST("", h.Waitlist.Join)
			waitlist.GET("/stats", h.Waitlist.Stats)
			waitlist.GET("", middleware.AuthMiddleware(h.Tokens), middleware.RequireRole(models.RoleAdmin), h.Waitlist.List)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", middleware.AuthMiddleware(h.Tokens), h.Auth.Me)
		}

		ideas := api.Group("/ideas")
		ideas.Use(middleware.AuthMiddleware(h.Tokens))
		{
			ideas.POST("", middleware.RequireRole(models.RoleCreator, models.RoleAdmin), h.Ideas.Create)
			ideas.GET("/my-ideas", h.Ideas.MyIdeas)
			ideas.GET("", h.Ideas.List)
			ideas.GET("/:id", h.Ideas.Get)
			ideas.PATCH("/:id", h.Ideas.Update)
			ideas.POST("/:id/submit", h.Ideas.Submit)
			ideas.POST("/:id/review", middleware.RequireRole(models.RoleCompany, models.RoleAdmin), h.Ideas.Review)
			ideas.DELETE("/:id", h.Ideas.Delete)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(h.Tokens), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/logs", monitor.LogsHandler(h.LogFile, maxLogTail))
		}
	}

	router.NoRoute(controllers.NotFound)

	return router
}
