package router

import "github.com/gin-gonic/gin"

type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	Pages       *gin.RouterGroup
	middlewares []gin.HandlerFunc
	pageMW      []gin.HandlerFunc
	modules     []Module
	pageModules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	pages := engine.Group("/")
	return &Registry{Engine: engine, API: api, Pages: pages}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

// UsePages adds middleware that runs on page routes only, not the API.
func (r *Registry) UsePages(mw ...gin.HandlerFunc) {
	r.pageMW = append(r.pageMW, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) AddPages(mod Module) {
	r.pageModules = append(r.pageModules, mod)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
	if len(r.pageMW) > 0 {
		r.Pages.Use(r.pageMW...)
	}
	for _, m := range r.pageModules {
		m.Register(r.Pages)
	}
}
