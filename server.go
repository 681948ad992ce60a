package fragment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jdiemke/fragment/core"
	"github.com/jdiemke/fragment/routes"
	"github.com/jdiemke/fragment/web"
)

const (
	ConfigFile      = "fragment.config.yml"
	shutdownTimeout = 10 * time.Second
)

type RuntimeConfig struct {
	Env         string
	EnableCache bool
	Port        int
}

// Routes is the route table served by the application.
func Routes() []core.Route {
	return []core.Route{
		{Path: "/", Controller: routes.Fragment},
	}
}

var newLogger = func() *log.Logger {
	return log.New(os.Stdout, "", log.LstdFlags)
}

var Start = func(cfg RuntimeConfig) error {
	fmt.Println("Starting fragment in", cfg.Env, "mode...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr, handler, err := BuildServer(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("✅ fragment running at http://localhost%s\n", addr)
	return Serve(ctx, addr, handler)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully.
var Serve = func(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		fmt.Println("🛑 Shutdown signal received, stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// BuildServer wires config, templates, static files and routes into one handler.
func BuildServer(ctx context.Context, cfg RuntimeConfig) (string, http.Handler, error) {
	config := core.LoadConfig(ConfigFile)
	config.CacheEnabled = cfg.EnableCache

	logger := newLogger()

	public := PublicFS(config.PublicDir)
	templates, templatesDir := TemplateFS(config.TemplatesDir)
	renderer, err := core.NewRenderer(templates, core.TemplateFuncs(cfg.Env, public, config.OutputDir))
	if err != nil {
		return "", nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", core.HealthHandler)

	cacheStaticDir := filepath.Join(config.OutputDir, "static")
	if cfg.Env == "dev" {
		setupDevStaticRoutes(mux, public)

		reloader := core.NewLiveReloader()
		mux.HandleFunc(core.ReloadPath, reloader.Handler)

		if templatesDir != "" {
			err := core.WatchTemplates(ctx, templatesDir, func() {
				if err := renderer.Reload(); err != nil {
					fmt.Println("❌ Template reload failed:", err)
					return
				}
				fmt.Println("🔁 Templates reloaded")
				reloader.BroadcastReload()
			})
			if err != nil {
				fmt.Println("⚠️  Template watch disabled:", err)
			}
		}
	} else {
		mux.Handle("/static/", makeStaticHandler(public, cacheStaticDir))
	}

	router := core.NewRouter(*config, core.RuntimeContext{
		Env:      cfg.Env,
		Renderer: renderer,
		Routes:   Routes(),
		Logger:   logger,
	})
	mux.Handle("/", withPublicFiles(public, router))

	var handler http.Handler = mux
	if config.DebugLogs {
		handler = core.RequestLogger(handler, logger)
	}
	handler = core.RequestID(handler)
	handler = core.Recovery(handler, logger)

	return fmt.Sprintf(":%d", cfg.Port), handler, nil
}

// TemplateFS returns the templates directory when it exists, along with its
// path for watching. Otherwise it falls back to the embedded templates and an
// empty path.
func TemplateFS(dir string) (fs.FS, string) {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return os.DirFS(dir), dir
	}
	return web.Templates(), ""
}

// PublicFS returns the public directory when it exists and the embedded
// public files otherwise.
func PublicFS(dir string) fs.FS {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return os.DirFS(dir)
	}
	return web.Public()
}

// withPublicFiles serves root-level public files such as /openair.png and
// hands every other request to next.
func withPublicFiles(public fs.FS, next http.Handler) http.Handler {
	files := http.FileServer(http.FS(public))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if path.Ext(name) != "" && fs.ValidPath(name) {
			if info, err := fs.Stat(public, name); err == nil && !info.IsDir() {
				if ct := detectMimeType(name); ct != "application/octet-stream" {
					w.Header().Set("Content-Type", ct)
				}
				files.ServeHTTP(w, r)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func setupDevStaticRoutes(mux *http.ServeMux, public fs.FS) {
	files := http.FileServer(http.FS(public))
	noStore := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if ct := detectMimeType(r.URL.Path); ct != "application/octet-stream" {
			w.Header().Set("Content-Type", ct)
		}
		files.ServeHTTP(w, r)
	})

	mux.Handle("/static/", noStore)
	mux.Handle("/favicon.ico", noStore)
	mux.Handle("/robots.txt", noStore)
}

// makeStaticHandler serves /static/ from the minified copies in cacheDir,
// preferring the gzip variant, and falls back to public/static.
func makeStaticHandler(public fs.FS, cacheDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trimmed := strings.TrimPrefix(r.URL.Path, "/static/")
		if strings.Contains(trimmed, "..") || !fs.ValidPath(trimmed) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		cachedFile := filepath.Join(cacheDir, filepath.FromSlash(trimmed))
		gzipFile := cachedFile + ".gz"
		immutable := "public, max-age=31536000, immutable"

		if acceptsGzip(r) {
			if _, err := os.Stat(gzipFile); err == nil {
				w.Header().Set("Content-Type", detectMimeType(cachedFile))
				w.Header().Set("Content-Encoding", "gzip")
				w.Header().Set("Vary", "Accept-Encoding")
				w.Header().Set("Cache-Control", immutable)
				http.ServeFile(w, r, gzipFile)
				return
			}
		}

		if _, err := os.Stat(cachedFile); err == nil {
			serveFileWithHeaders(w, r, cachedFile, immutable)
			return
		}

		name := path.Join("static", trimmed)
		if info, err := fs.Stat(public, name); err == nil && !info.IsDir() {
			w.Header().Set("Content-Type", detectMimeType(name))
			w.Header().Set("Cache-Control", immutable)
			http.ServeFileFS(w, r, public, name)
			return
		}

		http.NotFound(w, r)
	})
}

func serveFileWithHeaders(w http.ResponseWriter, r *http.Request, file, cacheControl string) {
	w.Header().Set("Content-Type", detectMimeType(file))
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFile(w, r, file)
}

func detectMimeType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}
