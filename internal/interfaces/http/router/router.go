// Package router mounts the API handlers on a gin engine. Each resource
// declares its routes on a Resource, and Mount registers them all under
// /api/<version> behind the API middleware chain.
package router

import (
	"net/http"
	"path"
	"sort"

	"github.com/assetdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Route is one registered method and path
type Route struct {
	Method   string
	Path     string
	handlers []gin.HandlerFunc
}

// Resource collects the routes of one API resource and its nested
// resources
type Resource struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []Route
	nested     []*Resource
}

// NewResource creates a resource mounted at prefix
func NewResource(name, prefix string) *Resource {
	return &Resource{name: name, prefix: prefix}
}

// Name returns the resource name
func (r *Resource) Name() string { return r.name }

// Use adds middleware for this resource and its nested resources
func (r *Resource) Use(handlers ...gin.HandlerFunc) *Resource {
	r.middleware = append(r.middleware, handlers...)
	return r
}

func (r *Resource) add(method, relPath string, handlers []gin.HandlerFunc) *Resource {
	r.routes = append(r.routes, Route{Method: method, Path: relPath, handlers: handlers})
	return r
}

func (r *Resource) GET(relPath string, handlers ...gin.HandlerFunc) *Resource {
	return r.add(http.MethodGet, relPath, handlers)
}

func (r *Resource) POST(relPath string, handlers ...gin.HandlerFunc) *Resource {
	return r.add(http.MethodPost, relPath, handlers)
}

func (r *Resource) PUT(relPath string, handlers ...gin.HandlerFunc) *Resource {
	return r.add(http.MethodPut, relPath, handlers)
}

func (r *Resource) DELETE(relPath string, handlers ...gin.HandlerFunc) *Resource {
	return r.add(http.MethodDelete, relPath, handlers)
}

// Update registers handlers for both PUT and POST. HTML forms carrying
// file uploads can only POST.
func (r *Resource) Update(relPath string, handlers ...gin.HandlerFunc) *Resource {
	return r.PUT(relPath, handlers...).POST(relPath, handlers...)
}

// Nest adds a resource mounted below this one
func (r *Resource) Nest(name, prefix string) *Resource {
	child := NewResource(name, prefix)
	r.nested = append(r.nested, child)
	return child
}

func (r *Resource) mount(rg *gin.RouterGroup) {
	group := rg.Group(r.prefix, r.middleware...)
	for _, route := range r.routes {
		group.Handle(route.Method, route.Path, route.handlers...)
	}
	for _, child := range r.nested {
		child.mount(group)
	}
}

func (r *Resource) table(base string) []Route {
	base = path.Join(base, r.prefix)
	var out []Route
	for _, route := range r.routes {
		full := base
		if route.Path != "" {
			full = path.Join(base, route.Path)
		}
		out = append(out, Route{Method: route.Method, Path: full})
	}
	for _, child := range r.nested {
		out = append(out, child.table(base)...)
	}
	return out
}

// Mount registers resources under /api/<version> and returns the route
// table sorted by path then method. Each resource's routes record its name
// with middleware.TagResource before running chain.
func Mount(engine *gin.Engine, version string, chain []gin.HandlerFunc, resources ...*Resource) []Route {
	base := "/api/" + version

	var table []Route
	for _, res := range resources {
		handlers := append([]gin.HandlerFunc{middleware.TagResource(res.name)}, chain...)
		res.mount(engine.Group(base, handlers...))
		table = append(table, res.table(base)...)
	}
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Path != table[j].Path {
			return table[i].Path < table[j].Path
		}
		return table[i].Method < table[j].Method
	})
	return table
}
