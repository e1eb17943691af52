package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/learnai/learnai-api/internal/application"
	"github.com/learnai/learnai-api/internal/domain/entity"
	"github.com/learnai/learnai-api/pkg/response"
)

type LessonHandler struct {
	Svc    *application.LessonService
	Logger *logrus.Logger
}

func NewLessonHandler(svc *application.LessonService, logger *logrus.Logger) *LessonHandler {
	return &LessonHandler{Svc: svc, Logger: logger}
}

// List GET /api/lessons
func (h *LessonHandler) List(c *gin.Context) {
	lessons, err := h.Svc.List(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("lesson list failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "lesson list failed", nil)
		return
	}
	response.Success(c, http.StatusOK, lessons, "lessons")
}

// Search GET /api/lessons/search?q=&category=&grade=&difficulty=
func (h *LessonHandler) Search(c *gin.Context) {
	f := entity.LessonFilter{
		Query:      c.Query("q"),
		Category:   c.Query("category"),
		GradeLevel: c.Query("grade"),
		Difficulty: c.Query("difficulty"),
	}
	lessons, err := h.Svc.Search(c.Request.Context(), f)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("lesson search failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "lesson search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, lessons, "lessons")
}
