package handlers

import (
	"intake/auth"
	"intake/middleware"
	"intake/models"
	"intake/service"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Projects      *service.ProjectService
	Authenticator *auth.Authenticator
	// AllowOrigins empty means any origin.
	AllowOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/", Root)
	r.GET("/health", HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/projects", SubmitProject(cfg.Projects))
		api.POST("/admin/login", Login(cfg.Authenticator))

		admin := api.Group("/admin")
		admin.Use(middleware.AdminRequired(cfg.Authenticator))
		{
			admin.GET("/projects", ListProjects(cfg.Projects))
			admin.POST("/projects/:id/accept", DecideProject(cfg.Projects, models.DecisionAccept))
			admin.POST("/projects/:id/reject", DecideProject(cfg.Projects, models.DecisionReject))
			admin.GET("/projects/:id/notifications", ListNotifications(cfg.Projects))
		}
	}

	return r
}
