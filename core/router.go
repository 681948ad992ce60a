package core

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
)

// Controller builds the data for a route and names the template to render it with.
type Controller func(r *http.Request, params map[string]string) (string, map[string]interface{}, error)

// Route binds a path to a controller. Path segments written as [name]
// are captured and passed to the controller as params.
type Route struct {
	Path       string
	Controller Controller
}

type compiledRoute struct {
	Route
	URLPattern *regexp.Regexp
	ParamKeys  []string
}

type RuntimeContext struct {
	Env      string
	Renderer TemplateRenderer
	Routes   []Route
	Logger   *log.Logger
}

type Router struct {
	config   Config
	env      string
	renderer TemplateRenderer
	routes   []compiledRoute
	logger   *log.Logger
}

var NewRouter = func(config Config, ctx RuntimeContext) http.Handler {
	r := &Router{
		config:   config,
		env:      ctx.Env,
		renderer: ctx.Renderer,
		logger:   ctx.Logger,
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	for _, route := range ctx.Routes {
		r.routes = append(r.routes, compileRoute(route))
	}
	return r
}

func compileRoute(route Route) compiledRoute {
	parts := strings.Split(strings.Trim(route.Path, "/"), "/")
	paramKeys := []string{}
	pattern := ""

	for _, part := range parts {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]") {
			paramKeys = append(paramKeys, part[1:len(part)-1])
			pattern += "/([^/]+)"
		} else {
			pattern += "/" + regexp.QuoteMeta(part)
		}
	}

	return compiledRoute{
		Route:      route,
		URLPattern: regexp.MustCompile("^" + strings.TrimPrefix(pattern, "/") + "$"),
		ParamKeys:  paramKeys,
	}
}

func (r *Router) match(path string) (compiledRoute, map[string]string, bool) {
	for _, route := range r.routes {
		if matches := route.URLPattern.FindStringSubmatch(path); matches != nil {
			params := map[string]string{}
			for i, key := range route.ParamKeys {
				params[key] = matches[i+1]
			}
			return route, params, true
		}
	}
	return compiledRoute{}, nil, false
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := strings.Trim(req.URL.Path, "/")

	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		r.writeError(w, ErrMethodNotAllowed)
		return
	}

	if path == "api" || strings.HasPrefix(path, "api/") {
		apiPath := strings.Trim(strings.TrimPrefix(path, "api"), "/")
		if route, params, ok := r.match(apiPath); ok {
			r.handleAPI(w, req, route, params)
			return
		}
	}

	route, params, ok := r.match(path)
	if !ok {
		http.NotFound(w, req)
		return
	}

	r.servePage(w, req, path, route, params)
}

func (r *Router) servePage(w http.ResponseWriter, req *http.Request, path string, route compiledRoute, params map[string]string) {
	if r.config.CacheEnabled {
		if page, ok := GetCachedPage(r.config, path); ok {
			if r.config.DebugHeaders {
				w.Header().Set("X-Fragment-Cache", "HIT")
			}
			w.Header().Set("Vary", "Accept-Encoding")
			if acceptsGzip(req) {
				if gz, ok := GetCachedGzip(r.config, path); ok {
					w.Header().Set("Content-Encoding", "gzip")
					r.writeHTML(w, req, route, page.Template, gz)
					return
				}
			}
			r.writeHTML(w, req, route, page.Template, page.HTML)
			return
		}
	}

	name, data, err := route.Controller(req, params)
	if err != nil {
		r.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := r.renderer.Render(&buf, name, data); err != nil {
		r.serverError(w, err)
		return
	}

	html := buf.Bytes()
	if r.env == "prod" {
		if minified, err := MinifyHTML(html); err == nil {
			html = minified
		} else if r.config.DebugLogs {
			r.logger.Printf("minify %s: %v", route.Path, err)
		}
	}

	if r.config.CacheEnabled {
		if err := SaveCachedPage(r.config, path, CachedPage{Template: name, HTML: html}); err != nil && r.config.DebugLogs {
			r.logger.Printf("cache %s: %v", route.Path, err)
		}
	}

	r.writeHTML(w, req, route, name, html)
}

func (r *Router) writeHTML(w http.ResponseWriter, req *http.Request, route compiledRoute, name string, html []byte) {
	etag := generateETag(html)

	if r.config.DebugHeaders {
		w.Header().Set("X-Fragment-Route", "/"+strings.Trim(route.Path, "/"))
		if name != "" {
			w.Header().Set("X-Fragment-Template", name)
		}
	}
	w.Header().Set("ETag", etag)

	if match := req.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if req.Method != http.MethodHead {
		_, _ = w.Write(html)
	}
}

func (r *Router) writeError(w http.ResponseWriter, err error) {
	if IsNotFoundError(err) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if errors.Is(err, ErrMethodNotAllowed) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	r.serverError(w, err)
}

func (r *Router) serverError(w http.ResponseWriter, err error) {
	if r.config.DebugLogs {
		r.logger.Printf("server error: %v", err)
	}
	http.Error(w, "Server error: "+err.Error(), http.StatusInternalServerError)
}

func acceptsGzip(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept-Encoding"), "gzip")
}

func generateETag(content []byte) string {
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%q", hex.EncodeToString(sum[:])[:16])
}
