package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnai/learnai-api/internal/container"
	handlers "github.com/learnai/learnai-api/internal/interface/http"
	"github.com/learnai/learnai-api/internal/interface/middleware"
	"github.com/learnai/learnai-api/pkg/helpers"
)

// AuthModule wires credential and Google sign-in routes.
// Public: POST /api/auth/register, POST /api/auth/login,
// GET /api/auth/google, GET /api/auth/google/callback
// Protected: POST /api/auth/logout, GET /api/auth/session
type AuthModule struct {
	Handler  *handlers.AuthHandler
	OAuth    *handlers.OAuthHandler
	Sessions *helpers.SessionManager
}

func NewAuthModule(h *handlers.AuthHandler, o *handlers.OAuthHandler, sessions *helpers.SessionManager) *AuthModule {
	return &AuthModule{Handler: h, OAuth: o, Sessions: sessions}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	oauthLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/logout", m.Handler.Logout)

	rg.GET("/auth/google", oauthLimiter, m.OAuth.Begin)
	rg.GET("/auth/google/callback", oauthLimiter, m.OAuth.Callback)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.RequireSession(m.Sessions))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/auth/session", m.Handler.Session)
	}
}
