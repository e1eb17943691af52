package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnai/learnai-api/internal/container"
	handlers "github.com/learnai/learnai-api/internal/interface/http"
	"github.com/learnai/learnai-api/internal/interface/middleware"
	"github.com/learnai/learnai-api/pkg/helpers"
)

// LessonModule wires the lesson catalog routes.
type LessonModule struct {
	Handler  *handlers.LessonHandler
	Sessions *helpers.SessionManager
}

func NewLessonModule(h *handlers.LessonHandler, sessions *helpers.SessionManager) *LessonModule {
	return &LessonModule{Handler: h, Sessions: sessions}
}

func (m *LessonModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.RequireSession(m.Sessions))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.GET("/lessons", m.Handler.List)
		auth.GET("/lessons/search", m.Handler.Search)
	}
}
