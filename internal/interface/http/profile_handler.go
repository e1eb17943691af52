package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/learnai/learnai-api/internal/application"
	"github.com/learnai/learnai-api/internal/interface/middleware"
	"github.com/learnai/learnai-api/pkg/response"
	"github.com/learnai/learnai-api/pkg/validation"
)

type ProfileHandler struct {
	Svc    *application.ProfileService
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

type setupRequest struct {
	Username    string `json:"username" binding:"required,username"`
	Grade       string `json:"grade" binding:"required"`
	AgeGroup    string `json:"age_group" binding:"required,agegroup"`
	School      string `json:"school"`
	AvatarColor string `json:"avatar_color"`
}

// Check GET /api/profile/check (auth required)
// Reports whether the session's user finished the setup wizard. A store
// failure reports not-complete so callers gate the same way the page
// middleware does.
func (h *ProfileHandler) Check(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	completed, err := h.Svc.HasCompletedProfile(c.Request.Context(), uid)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Error("profile check failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "profile check failed", gin.H{"completed": false})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"completed": completed}, "profile check")
}

// Get GET /api/profile (auth required)
func (h *ProfileHandler) Get(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.Get(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrProfileNotFound) {
			response.Error[any](c, http.StatusNotFound, "profile not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "profile lookup failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"username":     p.Username,
		"grade":        p.Grade,
		"age_group":    p.AgeGroup,
		"school":       p.School,
		"avatar_color": p.AvatarColor,
		"is_completed": p.IsCompleted,
	}, "profile")
}

// Submit POST /api/profile (auth required)
func (h *ProfileHandler) Submit(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req setupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	p, err := h.Svc.Submit(c.Request.Context(), uid, application.SetupInput{
		Username:    req.Username,
		Grade:       req.Grade,
		AgeGroup:    req.AgeGroup,
		School:      req.School,
		AvatarColor: req.AvatarColor,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUsernameTaken):
			response.Error[any](c, http.StatusConflict, "username already taken", nil)
		case errors.Is(err, application.ErrInvalidAgeGroup):
			response.Error[any](c, http.StatusBadRequest, "invalid age group", nil)
		default:
			if h.Logger != nil {
				h.Logger.WithError(err).WithField("user_id", uid).Error("profile submit failed")
			}
			response.Error[any](c, http.StatusInternalServerError, "failed to save profile", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"username": p.Username, "is_completed": p.IsCompleted}, "profile saved")
}

// Username GET /api/profile/username?username=x
func (h *ProfileHandler) Username(c *gin.Context) {
	username := strings.TrimSpace(c.Query("username"))
	if len(username) < 3 || len(username) > 20 {
		response.Error[any](c, http.StatusBadRequest, "username must be 3-20 characters", nil)
		return
	}
	available := h.Svc.UsernameAvailable(c.Request.Context(), username)
	response.Success(c, http.StatusOK, gin.H{"available": available}, "username availability")
}

// Avatar POST /api/profile/avatar (auth required, multipart)
func (h *ProfileHandler) Avatar(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read avatar file", nil)
		return
	}
	defer func() { _ = src.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Error("avatar upload failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "avatar upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"image": url}, "avatar uploaded")
}
