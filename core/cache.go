package core

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

const (
	cachedHTMLFile     = "index.html"
	cachedGzipFile     = "index.html.gz"
	cachedTemplateFile = "template"
)

// CachedPage is a rendered route as stored under the output directory.
type CachedPage struct {
	Template string
	HTML     []byte
}

func cacheKey(route string) string {
	if route == "" {
		return "_root"
	}
	return route
}

// CacheDir is the directory holding the cached page for route.
func CacheDir(config Config, route string) string {
	return filepath.Join(config.OutputDir, cacheKey(strings.Trim(route, "/")))
}

func GetCachedHTML(config Config, route string) ([]byte, bool) {
	return readCacheFile(config, route, cachedHTMLFile)
}

// GetCachedGzip returns the gzip variant written next to the cached page.
func GetCachedGzip(config Config, route string) ([]byte, bool) {
	return readCacheFile(config, route, cachedGzipFile)
}

// GetCachedPage loads the cached HTML together with the template name it was
// rendered from. Pages cached without a name report an empty Template.
func GetCachedPage(config Config, route string) (CachedPage, bool) {
	html, ok := GetCachedHTML(config, route)
	if !ok {
		return CachedPage{}, false
	}
	name, _ := readCacheFile(config, route, cachedTemplateFile)
	return CachedPage{Template: string(name), HTML: html}, true
}

func readCacheFile(config Config, route, file string) ([]byte, bool) {
	cachePath := filepath.Join(CacheDir(config, route), file)

	if _, err := os.Stat(cachePath); err != nil {
		return nil, false
	}

	content, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}

	return content, true
}

// SaveCachedHTML writes index.html and index.html.gz for the route. Both
// files are replaced atomically so concurrent readers never see a partial page.
func SaveCachedHTML(config Config, route string, html []byte) error {
	return SaveCachedPage(config, route, CachedPage{HTML: html})
}

// SaveCachedPage is SaveCachedHTML plus the template name, when set.
func SaveCachedPage(config Config, route string, page CachedPage) error {
	outDir := CacheDir(config, route)
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return err
	}

	if page.Template != "" {
		if err := atomic.WriteFile(filepath.Join(outDir, cachedTemplateFile), strings.NewReader(page.Template)); err != nil {
			return err
		}
	}

	if err := atomic.WriteFile(filepath.Join(outDir, cachedHTMLFile), bytes.NewReader(page.HTML)); err != nil {
		return err
	}

	gz, err := gzipBytes(page.HTML)
	if err != nil {
		return err
	}
	return atomic.WriteFile(filepath.Join(outDir, cachedGzipFile), bytes.NewReader(gz))
}

func gzipBytes(content []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(content); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
