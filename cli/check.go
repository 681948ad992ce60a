package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/jdiemke/fragment"
	"github.com/jdiemke/fragment/core"
	"github.com/urfave/cli/v2"
)

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Validate templates by rendering every route with its controller data",
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(fragment.ConfigFile)

		templates, _ := fragment.TemplateFS(config.TemplatesDir)
		renderer, err := core.NewRenderer(templates, core.TemplateFuncs("check", fragment.PublicFS(config.PublicDir), config.OutputDir))
		if err != nil {
			fmt.Printf("❌ templates → parse error: %v\n", err)
			return cli.Exit("some templates failed to compile", 1)
		}

		var failed bool
		for _, route := range fragment.Routes() {
			path := "/" + strings.Trim(route.Path, "/")
			req := httptest.NewRequest(http.MethodGet, path, nil)

			name, data, err := route.Controller(req, map[string]string{})
			if err != nil {
				failed = true
				fmt.Printf("❌ %s → controller error: %v\n", path, err)
				continue
			}

			var buf bytes.Buffer
			if err := renderer.Render(&buf, name, data); err != nil {
				failed = true
				fmt.Printf("❌ %s → exec error: %v\n", path, err)
				continue
			}

			fmt.Printf("✅ %s (%s)\n", path, name)
		}

		if failed {
			return cli.Exit("some templates failed to compile", 1)
		}

		fmt.Println("✅ All templates validated successfully.")
		return nil
	},
}
