package router

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoenix-web/internal/adapter/gin/handler"
	"phoenix-web/internal/adapter/gin/middleware"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	sessionSecret string,
	templateGlob string,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.SetFuncMap(template.FuncMap{
		"sortLink": handler.SortLink,
	})
	router.LoadHTMLGlob(templateGlob)

	// Global middleware
	store := cookie.NewStore([]byte(sessionSecret))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(sessions.Sessions("phoenix_web", store))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "phoenix-web",
		})
	})

	router.GET("/", userHandler.Home)

	users := router.Group("/users")
	{
		users.GET("", userHandler.List)
		users.GET("/create", userHandler.New)
		users.POST("/create", userHandler.Create)
		users.GET("/:id", userHandler.Show)
		users.GET("/:id/edit", userHandler.Edit)
		users.POST("/:id/edit", userHandler.Update)
		users.POST("/:id/delete", userHandler.Delete)
		users.DELETE("/:id", userHandler.Delete)
	}

	return router
}
