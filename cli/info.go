package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jdiemke/fragment"
	"github.com/jdiemke/fragment/core"
	"github.com/urfave/cli/v2"
)

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print configuration, templates and cache summary",
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(fragment.ConfigFile)

		fmt.Println("📁 Output Directory:", config.OutputDir)
		fmt.Println("🔁 Cache Enabled:", config.CacheEnabled)
		fmt.Println("🔁 Debug Headers Enabled:", config.DebugHeaders)
		fmt.Println("🔁 Debug Logs Enabled:", config.DebugLogs)

		templates, dir := fragment.TemplateFS(config.TemplatesDir)
		if dir == "" {
			dir = "(embedded)"
		}
		fmt.Println("🧩 Templates Directory:", dir)
		fmt.Println()

		templateCount := 0
		_ = fs.WalkDir(templates, ".", func(path string, d fs.DirEntry, err error) error {
			if err == nil && !d.IsDir() && strings.HasSuffix(path, ".html") {
				templateCount++
			}
			return nil
		})

		cacheCount := 0
		filepath.Walk(config.OutputDir, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() && strings.HasSuffix(path, ".html") {
				cacheCount++
			}
			return nil
		})

		fmt.Println("🗂️  Routes Found:", len(fragment.Routes()))
		fmt.Println("📦 Templates Found:", templateCount)
		fmt.Println("💾 Cached Pages:", cacheCount)

		return nil
	},
}
