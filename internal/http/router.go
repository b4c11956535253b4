package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/smallpress/blog-backend/internal/config"
	"github.com/smallpress/blog-backend/internal/http/handler"
	"github.com/smallpress/blog-backend/internal/http/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(
	cfg config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	tagHandler *handler.TagHandler,
	auth *middleware.Auth,
	rateLimiter *middleware.RateLimiter,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	users := r.Group("/users")
	{
		users.POST("/register", authHandler.Register)
		users.GET("/activate/:token", authHandler.Activate)

		authGroup := users.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)
		}

		users.GET("", auth.RequireAuth, userHandler.List)
		users.GET("/:id", auth.RequireAuth, userHandler.Get)
		users.GET("/:id/posts", postHandler.ListByUser)
	}

	posts := r.Group("/posts")
	{
		posts.GET("", postHandler.List)
		posts.GET("/:id", postHandler.Get)
		posts.POST("", auth.RequireAuth, postHandler.Create)
		posts.PUT("/:id", auth.RequireAuth, postHandler.Update)
		posts.DELETE("/:id", auth.RequireAuth, postHandler.Delete)
	}

	tags := r.Group("/tags", auth.RequireAuth)
	{
		tags.POST("", tagHandler.Create)
		tags.GET("", tagHandler.List)
		tags.DELETE("/:id", tagHandler.Delete)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
