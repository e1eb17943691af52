package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/learnai/learnai-api/internal/interface/http"
	"github.com/learnai/learnai-api/internal/interface/middleware"
)

// PagesModule registers the server-rendered pages. The access controller
// middleware is attached to the whole page group by the registry, so the
// handlers only render.
type PagesModule struct {
	Handler *handlers.PagesHandler
}

func NewPagesModule(h *handlers.PagesHandler) *PagesModule {
	return &PagesModule{Handler: h}
}

func (m *PagesModule) Register(rg *gin.RouterGroup) {
	rg.GET(middleware.PathHome, m.Handler.Home)
	rg.GET(middleware.PathSignIn, m.Handler.SignIn)
	rg.GET(middleware.PathSignUp, m.Handler.SignUp)
	rg.GET(middleware.PathSetup, m.Handler.Setup)
	rg.GET(middleware.PathDashboard, m.Handler.Dashboard)
	rg.GET("/explore", m.Handler.Explore)
}
