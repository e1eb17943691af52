package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnai/learnai-api/internal/container"
	handlers "github.com/learnai/learnai-api/internal/interface/http"
	"github.com/learnai/learnai-api/internal/interface/middleware"
	"github.com/learnai/learnai-api/pkg/helpers"
)

// ProfileModule wires the student profile routes.
// All of them require a session; the username availability check is
// limited harder because the setup wizard calls it on every keystroke.
type ProfileModule struct {
	Handler  *handlers.ProfileHandler
	Sessions *helpers.SessionManager
}

func NewProfileModule(h *handlers.ProfileHandler, sessions *helpers.SessionManager) *ProfileModule {
	return &ProfileModule{Handler: h, Sessions: sessions}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	usernameLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil)
	avatarLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUserID(), nil)

	auth := rg.Group("/")
	auth.Use(middleware.RequireSession(m.Sessions))
	auth.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil))
	{
		auth.GET("/profile", m.Handler.Get)
		auth.POST("/profile", m.Handler.Submit)
		auth.GET("/profile/check", m.Handler.Check)
		auth.GET("/profile/username", usernameLimiter, m.Handler.Username)
		auth.POST("/profile/avatar", avatarLimiter, m.Handler.Avatar)
	}
}
