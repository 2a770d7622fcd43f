package api

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/shelf-social/docs"
	"github.com/d60-Lab/shelf-social/internal/api/handler"
	"github.com/d60-Lab/shelf-social/internal/metrics"
	"github.com/d60-Lab/shelf-social/internal/middleware"
	"github.com/d60-Lab/shelf-social/internal/service"
)

// RouterOptions 路由所需的外部依赖
type RouterOptions struct {
	JWTSecret   string
	ServiceName string
	Gatherer    prometheus.Gatherer
	SearchLimit *middleware.RateLimiter
	Tracing     bool
	Swagger     bool
}

// NewRouter 注册全部路由
func NewRouter(h *handler.Handler, opts RouterOptions) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = service.RegisterValidations(v)
	}

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Sentry(), middleware.Logger(), middleware.ReportErrors())
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(opts.Gatherer)))
	}
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := middleware.Auth(opts.JWTSecret)
	optional := middleware.OptionalAuth(opts.JWTSecret)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/feed", auth, h.Feed)
		v1.GET("/activity", auth, h.Activity)
		v1.POST("/posts/:post_id/like", auth, h.ToggleLike)

		users := v1.Group("/users")
		{
			search := []gin.HandlerFunc{optional}
			if opts.SearchLimit != nil {
				search = append(search, opts.SearchLimit.Middleware())
			}
			users.GET("/search", append(search, h.SearchUsers)...)
			users.GET("/:username", optional, h.GetUser)
			users.GET("/:username/followers", h.ListFollowers)
			users.GET("/:username/following", h.ListFollowing)
			users.GET("/:username/library", h.UserLibrary)
			users.GET("/:username/posts", optional, h.UserPosts)
		}

		relations := v1.Group("/relations")
		{
			relations.POST("/follow", auth, h.Follow)
			relations.POST("/unfollow", auth, h.Unfollow)
			relations.GET("/:user_id/counts", h.FollowCounts)
			relations.GET("/:user_id/following", auth, h.IsFollowing)
		}

		profile := v1.Group("/profile", auth)
		{
			profile.POST("", h.CreateProfile)
			profile.PUT("", h.UpdateProfile)
			profile.DELETE("/data", h.DeleteMyData)
		}

		library := v1.Group("/library", auth)
		{
			library.POST("", h.AddToLibrary)
			library.PATCH("/:paper_id", h.SetLibraryStatus)
		}
	}
	return r
}
