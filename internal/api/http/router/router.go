package router

import (
	"github.com/gin-gonic/gin"

	"github.com/avdeev/vidtube-server/internal/api/http/handler"
	"github.com/avdeev/vidtube-server/internal/api/http/middleware"
	"github.com/avdeev/vidtube-server/internal/logger"
)

// Router assembles the HTTP API surface.
type Router struct {
	users    *handler.UserHandler
	channels *handler.ChannelHandler
	auth     *middleware.Authenticate
	logger   *logger.Logger
}

func New(
	users *handler.UserHandler,
	channels *handler.ChannelHandler,
	auth *middleware.Authenticate,
	logger *logger.Logger,
) *Router {
	return &Router{
		users:    users,
		channels: channels,
		auth:     auth,
		logger:   logger,
	}
}

// Register builds the gin engine with all routes and middleware.
func (r *Router) Register() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.NewLogging(r.logger).Handle())

	v1 := engine.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", r.users.Register)
		users.POST("/login", r.users.Login)
		users.POST("/refresh-token", r.users.Refresh)

		users.POST("/logout", r.auth.Required(), r.users.Logout)
		users.POST("/change-password", r.auth.Required(), r.users.ChangePassword)
		users.GET("/current-user", r.auth.Required(), r.users.CurrentUser)
		users.PATCH("/update-account", r.auth.Required(), r.users.UpdateAccount)
		users.PATCH("/avatar", r.auth.Required(), r.users.UpdateAvatar)
		users.PATCH("/cover-image", r.auth.Required(), r.users.UpdateCoverImage)

		users.GET("/c/:username", r.auth.Optional(), r.channels.Profile)
		users.GET("/history", r.auth.Required(), r.channels.WatchHistory)
		users.POST("/history/:videoId", r.auth.Required(), r.channels.RecordWatch)
	}

	subscriptions := v1.Group("/subscriptions")
	{
		subscriptions.POST("/c/:username", r.auth.Required(), r.channels.ToggleSubscription)
	}

	return engine
}
