package core

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	defaultOutputDir    = "./cache"
	defaultTemplatesDir = "web/templates"
	defaultPublicDir    = "public"
)

type Config struct {
	OutputDir    string `yaml:"outputDir"`
	CacheEnabled bool   `yaml:"cache"`
	DebugHeaders bool   `yaml:"debugHeaders"`
	DebugLogs    bool   `yaml:"debugLogs"`
	TemplatesDir string `yaml:"templatesDir"`
	PublicDir    string `yaml:"publicDir"`
}

func DefaultConfig() *Config {
	return &Config{
		OutputDir:    defaultOutputDir,
		CacheEnabled: false,
		DebugHeaders: false,
		DebugLogs:    false,
		TemplatesDir: defaultTemplatesDir,
		PublicDir:    defaultPublicDir,
	}
}

// LoadConfig reads the YAML config at path and applies FRAGMENT_* environment
// overrides. A missing or unreadable file yields the defaults.
var LoadConfig = func(path string) *Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			cfg = &fileCfg
		}
	}

	applyEnv(cfg)

	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = defaultTemplatesDir
	}
	if cfg.PublicDir == "" {
		cfg.PublicDir = defaultPublicDir
	}

	return cfg
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("FRAGMENT_OUTPUT_DIR"); ok && v != "" {
		cfg.OutputDir = v
	}
	if v, ok := os.LookupEnv("FRAGMENT_TEMPLATES_DIR"); ok && v != "" {
		cfg.TemplatesDir = v
	}
	if v, ok := os.LookupEnv("FRAGMENT_PUBLIC_DIR"); ok && v != "" {
		cfg.PublicDir = v
	}
	envBool("FRAGMENT_CACHE", &cfg.CacheEnabled)
	envBool("FRAGMENT_DEBUG_HEADERS", &cfg.DebugHeaders)
	envBool("FRAGMENT_DEBUG_LOGS", &cfg.DebugLogs)
}

func envBool(key string, dst *bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return
	}
	*dst = b
}
