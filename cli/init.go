package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jdiemke/fragment"
	"github.com/jdiemke/fragment/core"
	"github.com/jdiemke/fragment/web"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var templateSource = web.Templates

var InitCommand = &cli.Command{
	Name:  "init",
	Usage: "Write a default config and copy the built-in templates for editing",
	Action: func(c *cli.Context) error {
		targetDir, _ := os.Getwd()
		fmt.Println("🚀 Initialising fragment project in:", targetDir)

		cfg := core.DefaultConfig()

		configPath := filepath.Join(targetDir, fragment.ConfigFile)
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			if err := os.WriteFile(configPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Println("📝 Wrote", fragment.ConfigFile)
		} else {
			fmt.Println("⏭️  Keeping existing", fragment.ConfigFile)
		}

		templatesDir := filepath.Join(targetDir, cfg.TemplatesDir)
		if err := copyEmbeddedDir(templateSource(), ".", templatesDir); err != nil {
			return fmt.Errorf("failed to copy templates: %w", err)
		}

		fmt.Println("✅ Project initialised.")
		fmt.Println("▶  Run: fragment dev")
		return nil
	},
}

// copyEmbeddedDir copies sourceDir of source into targetDir, leaving files
// that already exist untouched.
func copyEmbeddedDir(source fs.FS, sourceDir string, targetDir string) error {
	return fs.WalkDir(source, sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		targetPath := filepath.Join(targetDir, rel)

		if d.IsDir() {
			return os.MkdirAll(targetPath, os.ModePerm)
		}

		if _, err := os.Stat(targetPath); err == nil {
			fmt.Println("⏭️  Keeping existing", targetPath)
			return nil
		}

		data, err := fs.ReadFile(source, path)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), os.ModePerm); err != nil {
			return err
		}

		return os.WriteFile(targetPath, data, 0644)
	})
}
