package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/learnai/learnai-api/internal/application"
	"github.com/learnai/learnai-api/internal/domain/entity"
	"github.com/learnai/learnai-api/internal/interface/middleware"
)

// PagesHandler renders the server-side pages. The route access controller
// has already run by the time these execute, so a protected page can assume
// a session and a completed profile.
type PagesHandler struct {
	AppName  string
	Profiles *application.ProfileService
	Lessons  *application.LessonService
	Logger   *logrus.Logger
}

func NewPagesHandler(appName string, profiles *application.ProfileService, lessons *application.LessonService, logger *logrus.Logger) *PagesHandler {
	return &PagesHandler{AppName: appName, Profiles: profiles, Lessons: lessons, Logger: logger}
}

func (h *PagesHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.tmpl", gin.H{"AppName": h.AppName})
}

func (h *PagesHandler) SignIn(c *gin.Context) {
	var msg string
	switch c.Query("error") {
	case "not_linked":
		msg = "That email is already registered. Sign in with your password instead."
	case "oauth", "state":
		msg = "Google sign-in failed. Please try again."
	}
	c.HTML(http.StatusOK, "sign-in.tmpl", gin.H{
		"AppName":     h.AppName,
		"Error":       msg,
		"CallbackURL": c.Query("callbackUrl"),
	})
}

func (h *PagesHandler) SignUp(c *gin.Context) {
	c.HTML(http.StatusOK, "sign-up.tmpl", gin.H{"AppName": h.AppName})
}

func (h *PagesHandler) Setup(c *gin.Context) {
	c.HTML(http.StatusOK, "setup.tmpl", gin.H{
		"AppName":   h.AppName,
		"AgeGroups": entity.AgeGroups,
	})
}

func (h *PagesHandler) Dashboard(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	profile, err := h.Profiles.Get(c.Request.Context(), uid)
	if err != nil {
		profile = nil
	}
	lessons, err := h.Lessons.List(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("dashboard lesson list failed")
		}
		lessons = nil
	}
	if len(lessons) > 4 {
		lessons = lessons[:4]
	}

	c.HTML(http.StatusOK, "dashboard.tmpl", gin.H{
		"AppName": h.AppName,
		"Profile": profile,
		"Lessons": lessons,
	})
}

func (h *PagesHandler) Explore(c *gin.Context) {
	f := entity.LessonFilter{
		Query:      c.Query("q"),
		Category:   c.Query("category"),
		GradeLevel: c.Query("grade"),
		Difficulty: c.Query("difficulty"),
	}
	lessons, err := h.Lessons.Search(c.Request.Context(), f)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("explore search failed")
		}
		lessons = nil
	}
	c.HTML(http.StatusOK, "explore.tmpl", gin.H{
		"AppName": h.AppName,
		"Query":   f.Query,
		"Lessons": lessons,
	})
}
