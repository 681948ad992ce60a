// Package web holds the default templates and public files compiled into
// the binary. They are used when the configured directories are missing.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed public
var publicFS embed.FS

func Templates() fs.FS {
	sub, _ := fs.Sub(templatesFS, "templates")
	return sub
}

func Public() fs.FS {
	sub, _ := fs.Sub(publicFS, "public")
	return sub
}
