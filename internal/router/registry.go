package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Registry collects modules and the middleware shared by every /api route.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
	names       map[string]struct{}
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api"), names: map[string]struct{}{}}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

// Add panics on a duplicate module name; wiring happens once at startup.
func (r *Registry) Add(mod Module) {
	if _, dup := r.names[mod.Name()]; dup {
		panic(fmt.Sprintf("router: module %q registered twice", mod.Name()))
	}
	r.names[mod.Name()] = struct{}{}
	r.modules = append(r.modules, mod)
}

// RegisterAll mounts every module under /api and returns their names in order.
func (r *Registry) RegisterAll() []string {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	names := make([]string, 0, len(r.modules))
	for _, m := range r.modules {
		m.Register(r.API)
		names = append(names, m.Name())
	}
	return names
}
