// Package config loads runtime configuration for the werset service.
//
// Settings come from three layers, later layers winning: built-in
// defaults, an optional YAML file, then WERSET_* environment variables.
// A .env file in the working directory is folded into the environment
// before any of it is read.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "90s" or bare numbers of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if n, err := strconv.Atoi(node.Value); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all configuration for the application.
type Config struct {
	BaseURL     string   `yaml:"base_url"`
	ListenAddr  string   `yaml:"listen_addr"`
	CacheTTL    Duration `yaml:"cache_ttl"`
	HTTPTimeout Duration `yaml:"http_timeout"`
	PageWorkers int      `yaml:"page_workers"`
	MaxPages    int      `yaml:"max_pages"`
	LogLevel    string   `yaml:"log_level"`
	LogFormat   string   `yaml:"log_format"`

	// Overlay extends the built-in lookup tables without a rebuild.
	Books        BooksOverlay      `yaml:"books"`
	Translations map[string]string `yaml:"translations"`
}

// BooksOverlay adds book aliases and slug fallbacks to the resolver.
type BooksOverlay struct {
	Aliases  map[string]string   `yaml:"aliases"`
	Variants map[string][]string `yaml:"variants"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:     "https://www.biblia.info.pl/api",
		ListenAddr:  ":8080",
		CacheTTL:    Duration(5 * time.Minute),
		HTTPTimeout: Duration(15 * time.Second),
		PageWorkers: 10,
		MaxPages:    50,
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

// Load builds the effective configuration. path names an optional YAML
// file; an empty path skips the file layer. Missing .env is not an
// error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides cfg fields from WERSET_* variables.
func applyEnv(cfg *Config) {
	if v := getenv("WERSET_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := getenv("WERSET_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := getenv("WERSET_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CacheTTL = Duration(d)
		}
	}
	if v := getenv("WERSET_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.HTTPTimeout = Duration(d)
		}
	}
	if v := getenv("WERSET_PAGE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageWorkers = n
		}
	}
	if v := getenv("WERSET_MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxPages = n
		}
	}
	if v := getenv("WERSET_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("WERSET_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
