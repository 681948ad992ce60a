package core

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/dustin/go-humanize"
	"github.com/natefinch/atomic"
	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
	minjs "github.com/tdewolff/minify/v2/js"
)

const ReloadPath = "/__fragment_reload"

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)
	m.Add("text/html", &minhtml.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return m
}

// MinifyHTML compacts a rendered page. Pages that fail to minify are served
// unchanged by the caller.
func MinifyHTML(html []byte) ([]byte, error) {
	return newMinifier().Bytes("text/html", html)
}

// MinifyAsset minifies a /static/ css or js file from public into
// cacheDir/static and returns its versioned .min URL. Outside prod, or when
// anything fails, the original path is returned.
func MinifyAsset(env, path string, public fs.FS, cacheDir string) string {
	if env != "prod" || !strings.HasPrefix(path, "/static/") {
		return path
	}

	ext := filepath.Ext(path)
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, ext)

	if ext != ".css" && ext != ".js" {
		return path
	}

	if strings.Contains(name, ".min") {
		return path
	}

	original, err := fs.ReadFile(public, strings.TrimPrefix(path, "/"))
	if err != nil {
		return path
	}

	mediaType := "text/css"
	if ext == ".js" {
		mediaType = "application/javascript"
	}

	minified, err := newMinifier().Bytes(mediaType, original)
	if err != nil {
		return path
	}

	min := filepath.Join(cacheDir, "static", fmt.Sprintf("%s.min%s", name, ext))
	if err := os.MkdirAll(filepath.Dir(min), os.ModePerm); err != nil {
		return path
	}
	if err := atomic.WriteFile(min, bytes.NewReader(minified)); err != nil {
		return path
	}
	if gz, err := gzipBytes(minified); err == nil {
		_ = atomic.WriteFile(min+".gz", bytes.NewReader(gz))
	}

	return fmt.Sprintf("/static/%s.min%s?v=%s", name, ext, shortHash(minified))
}

func shortHash(content []byte) string {
	h := md5.New()
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))[:6]
}

// TemplateFuncs is the FuncMap every template is parsed with: the sprig
// helpers plus the fragment-specific ones below.
func TemplateFuncs(env string, public fs.FS, cacheDir string) template.FuncMap {
	funcs := sprig.FuncMap()

	own := template.FuncMap{
		"minify": func(path string) string {
			return MinifyAsset(env, path, public, cacheDir)
		},
		"props": func(values ...interface{}) map[string]interface{} {
			if len(values)%2 != 0 {
				panic("props must be called with even number of arguments")
			}
			m := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					panic("props keys must be strings")
				}
				m[key] = values[i+1]
			}
			return m
		},
		"safeHTML": func(s interface{}) template.HTML {
			switch val := s.(type) {
			case template.HTML:
				return val
			case string:
				return template.HTML(val)
			default:
				return ""
			}
		},
		"versioned": func(path string) string {
			if !strings.HasPrefix(path, "/static/") {
				return path
			}

			rel := strings.TrimPrefix(path, "/static/")
			if content, err := fs.ReadFile(public, "static/"+rel); err == nil {
				return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
			}
			if content, err := os.ReadFile(filepath.Join(cacheDir, "static", filepath.FromSlash(rel))); err == nil {
				return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
			}

			return path
		},
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"liveReload": func() template.HTML {
			if env != "dev" {
				return ""
			}
			return template.HTML(liveReloadScript)
		},
	}

	for k, v := range own {
		funcs[k] = v
	}
	return funcs
}

const liveReloadScript = `<script>(function(){var p=location.protocol==="https:"?"wss://":"ws://";` +
	`var ws=new WebSocket(p+location.host+"` + ReloadPath + `");` +
	`ws.onmessage=function(e){if(e.data==="reload"){location.reload();}};})();</script>`
