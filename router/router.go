package router

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newsline-app/newsline/controllers"
	"github.com/newsline-app/newsline/middlewares"
	"github.com/newsline-app/newsline/models"
	"github.com/newsline-app/newsline/realtime"
	"go.uber.org/zap"
)

func InitRouter(hub *realtime.Hub, reactor realtime.Reactor, logger *zap.SugaredLogger) *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:5173", "http://localhost:8080"}
	if raw := os.Getenv("FRONTEND_ORIGINS"); raw != "" {
		split := strings.Split(raw, ",")
		allowedOrigins = allowedOrigins[:0]
		for _, v := range split {
			trimmed := strings.TrimSpace(v)
			if trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
		if len(allowedOrigins) == 0 {
			allowedOrigins = []string{"*"}
		}
	}

	allowCreds := true
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		allowCreds = false
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCreds,
		MaxAge:           12 * time.Hour,
	}))

	// Public health endpoint for liveness/readiness checks
	r.GET("/api/health", controllers.Health)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/register-admin", controllers.RegisterAdmin)
		auth.POST("/signin", controllers.SignIn)
	}

	// Public feed surface; exact paths preserved for the existing clients.
	r.GET("/api/news", controllers.GetNews)
	r.GET("/api/news/tags", controllers.GetTags)
	r.GET("/api/news/tags/:tag", controllers.GetNewsByTag)
	r.GET("/api/news/:id", controllers.GetNewsByID)

	// Reactions are open to anonymous callers.
	r.POST("/news/:id/like", controllers.LikeNews)
	r.POST("/news/:id/dislike", controllers.DislikeNews)
	r.POST("/news/:id/view", controllers.ViewNews)

	admin := r.Group("/api", middlewares.Auth(models.RoleAdmin))
	{
		admin.POST("/news", controllers.CreateNews)
		admin.PUT("/news/:id", controllers.UpdateNews)
		admin.DELETE("/news/:id", controllers.DeleteNews)
		admin.GET("/news/statistics", controllers.GetStatistics)
		admin.GET("/admin/news", controllers.GetAdminNews)
	}

	r.GET("/ws", realtime.ServeWS(hub, reactor, logger))

	return r
}
