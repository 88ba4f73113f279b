// Package config loads runtime configuration from flags, environment, an optional config
// file and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/resume-analyzer/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. RESUME_MAX_REPOS.
const EnvPrefix = "RESUME"

// Page formats accepted by page_format.
const (
	PageFormatText     = "text"
	PageFormatMarkdown = "markdown"
)

// Config is the full runtime configuration.
type Config struct {
	Provider string       `mapstructure:"provider"`
	APIKey   string       `mapstructure:"api_key"`
	Models   ModelsConfig `mapstructure:"models"`

	GithubToken           string        `mapstructure:"github_token"`
	GithubAPIURL          string        `mapstructure:"github_api_url"`
	HTTPTimeout           time.Duration `mapstructure:"http_timeout"`
	MaxRepos              int           `mapstructure:"max_repos"`
	MaxChunkBytes         int           `mapstructure:"max_chunk_bytes"`
	MaxListingConcurrency int           `mapstructure:"max_listing_concurrency"`

	UseBrowser    bool          `mapstructure:"use_browser"`
	RenderTimeout time.Duration `mapstructure:"render_timeout"`
	PageFormat    string        `mapstructure:"page_format"`

	Port      int             `mapstructure:"port"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	LogJSON bool `mapstructure:"log_json"`
	Debug   bool `mapstructure:"debug"`
}

// ModelsConfig maps model tiers to model names.
type ModelsConfig struct {
	Lite     string `mapstructure:"lite"`
	Standard string `mapstructure:"standard"`
	Advanced string `mapstructure:"advanced"`
}

// RateLimitConfig bounds requests per client IP on the HTTP surface.
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

// SetDefaults registers every key with its default value. Keys must be registered for
// environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	models := llm.DefaultConfig().Models

	v.SetDefault("provider", string(llm.ProviderGemini))
	v.SetDefault("api_key", "")
	v.SetDefault("models.lite", models[llm.TierLite])
	v.SetDefault("models.standard", models[llm.TierStandard])
	v.SetDefault("models.advanced", models[llm.TierAdvanced])

	v.SetDefault("github_token", "")
	v.SetDefault("github_api_url", "https://api.github.com")
	v.SetDefault("http_timeout", 50*time.Second)
	v.SetDefault("max_repos", 10)
	v.SetDefault("max_chunk_bytes", 300000)
	v.SetDefault("max_listing_concurrency", 16)

	v.SetDefault("use_browser", true)
	v.SetDefault("render_timeout", 30*time.Second)
	v.SetDefault("page_format", PageFormatText)

	v.SetDefault("port", 8080)
	v.SetDefault("rate_limit.requests_per_minute", 30)
	v.SetDefault("rate_limit.burst", 5)

	v.SetDefault("log_json", false)
	v.SetDefault("debug", false)
}

// Load reads configuration into a Config. path may be empty; flags should already be bound to v.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", EnvPrefix+"_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api_key env: %w", err)
	}
	if err := v.BindEnv("github_token", EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github_token env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.PageFormat = strings.ToLower(strings.TrimSpace(cfg.PageFormat))

	return &cfg, nil
}

// Validate checks ranges and enumerations. It does not require an API key; commands that
// call the generative service check that themselves.
func (c *Config) Validate() error {
	var errs []error

	if _, err := llm.ParseProvider(c.Provider); err != nil {
		errs = append(errs, fmt.Errorf("config error: %w", err))
	}
	if c.MaxRepos < 1 || c.MaxRepos > 10 {
		errs = append(errs, fmt.Errorf("config error: 'max_repos' must be between 1 and 10, got %d", c.MaxRepos))
	}
	if c.MaxChunkBytes <= 0 {
		errs = append(errs, errors.New("config error: 'max_chunk_bytes' must be positive"))
	}
	if c.MaxListingConcurrency < 0 {
		errs = append(errs, errors.New("config error: 'max_listing_concurrency' must be non-negative"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("config error: 'http_timeout' must be positive"))
	}
	if c.RenderTimeout <= 0 {
		errs = append(errs, errors.New("config error: 'render_timeout' must be positive"))
	}
	if c.PageFormat != PageFormatText && c.PageFormat != PageFormatMarkdown {
		errs = append(errs, fmt.Errorf("config error: 'page_format' must be %q or %q", PageFormatText, PageFormatMarkdown))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'port' out of range: %d", c.Port))
	}
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("config error: 'rate_limit' values must be non-negative"))
	}

	return errors.Join(errs...)
}

// RequireAPIKey reports whether an API key for the generative service is present.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("API key is required (set GEMINI_API_KEY or RESUME_API_KEY)")
	}
	return nil
}

// LLM returns the model configuration for llm.NewClient.
func (c *Config) LLM() *llm.Config {
	provider, err := llm.ParseProvider(c.Provider)
	if err != nil {
		provider = llm.ProviderGemini
	}
	cfg := llm.DefaultConfig()
	cfg.Provider = provider
	if c.Models.Lite != "" {
		cfg = cfg.WithModel(llm.TierLite, c.Models.Lite)
	}
	if c.Models.Standard != "" {
		cfg = cfg.WithModel(llm.TierStandard, c.Models.Standard)
	}
	if c.Models.Advanced != "" {
		cfg = cfg.WithModel(llm.TierAdvanced, c.Models.Advanced)
	}
	return cfg
}
