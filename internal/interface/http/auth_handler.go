package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/learnai/learnai-api/internal/application"
	"github.com/learnai/learnai-api/internal/interface/middleware"
	"github.com/learnai/learnai-api/pkg/helpers"
	"github.com/learnai/learnai-api/pkg/response"
	"github.com/learnai/learnai-api/pkg/validation"
)

type AuthHandler struct {
	Svc      *application.AuthService
	Sessions *helpers.SessionManager
	Cookies  *helpers.CookieManager
	Logger   *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, sessions *helpers.SessionManager, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Sessions: sessions, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusConflict, "user with this email already exists", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).Error("registration failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "an error occurred during registration", nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"id": u.ID, "email": u.Email}, "user registered successfully")
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	id, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// one generic message for every failure mode
		response.Error[any](c, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}

	token, exp, err := h.Sessions.Issue(id.ID)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", id.ID).Error("session issue failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "sign in failed", nil)
		return
	}
	h.Cookies.SetSession(c, token, exp)
	response.Success(c, http.StatusOK, id, "signed in")
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"signed_out": true}, "signed out")
}

// Session GET /api/auth/session (auth required)
func (h *AuthHandler) Session(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetUser(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "session user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u.Identity(), "session")
}
