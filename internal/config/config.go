package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgallion1/pagenav/internal/nav"
	"github.com/dgallion1/pagenav/internal/parser"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides: PAGENAV_PORT -> port.
const EnvPrefix = "PAGENAV_"

type Config struct {
	Port string `yaml:"port" koanf:"port"`

	// Auth
	APIKey string `yaml:"api_key" koanf:"api_key"`

	// Navigation
	ClassPrefix  string `yaml:"class_prefix" koanf:"class_prefix"`
	Title        string `yaml:"title" koanf:"title"`
	HeadingLevel string `yaml:"heading_level" koanf:"heading_level"`
	MainSelector string `yaml:"main_selector" koanf:"main_selector"`
	TopRank      string `yaml:"top_rank" koanf:"top_rank"`
	SubRank      string `yaml:"sub_rank" koanf:"sub_rank"`
	Scope        string `yaml:"scope" koanf:"scope"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count" koanf:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size" koanf:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes" koanf:"max_upload_bytes"`

	// Job state
	JobTTL time.Duration `yaml:"job_ttl" koanf:"job_ttl"`

	// Input handling
	Sanitize             bool `yaml:"sanitize" koanf:"sanitize"`
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext" koanf:"pdf_fallback_pdftotext"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Port: "8090",

		ClassPrefix:  nav.DefaultPrefix,
		Title:        nav.DefaultTitle,
		HeadingLevel: nav.DefaultHeadingLevel,
		MainSelector: nav.DefaultMainSelector,
		TopRank:      nav.DefaultTopRank,
		SubRank:      nav.DefaultSubRank,
		Scope:        string(nav.ScopeDocument),

		WorkerCount:  4,
		MaxQueueSize: 100,

		MaxUploadBytes: 52428800, // 50MB

		JobTTL: 1 * time.Hour,

		Sanitize:             true,
		PDFFallbackPdftotext: true,
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PAGENAV_*). A missing file, or an empty
// path, leaves the defaults in place.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.ClassPrefix == "" {
		return fmt.Errorf("class_prefix is required")
	}
	if err := c.NavConfig().Validate(); err != nil {
		return err
	}
	return nil
}

// NavConfig converts the navigation settings for the component.
func (c *Config) NavConfig() nav.Config {
	return nav.Config{
		Prefix:       c.ClassPrefix,
		Title:        c.Title,
		HeadingLevel: c.HeadingLevel,
		MainSelector: c.MainSelector,
		TopRank:      c.TopRank,
		SubRank:      c.SubRank,
		Scope:        nav.Scope(c.Scope),
	}
}

// Shell returns the page shell used for converted documents. The nav title
// is left to the component so data-title only appears when configured away
// from the default.
func (c *Config) Shell() parser.Shell {
	s := parser.Shell{Prefix: c.ClassPrefix, Sanitize: c.Sanitize}
	if c.Title != nav.DefaultTitle {
		s.NavTitle = c.Title
	}
	return s
}
