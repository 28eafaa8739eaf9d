// Package config loads blogbuilder.yaml.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/retry"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "blogbuilder.yaml"

// Config is the complete blogbuilder configuration.
type Config struct {
	Site      SiteConfig    `yaml:"site"`
	Content   ContentConfig `yaml:"content"`
	Render    RenderConfig  `yaml:"render"`
	Output    OutputConfig  `yaml:"output"`
	Server    ServerConfig  `yaml:"server"`
	History   HistoryConfig `yaml:"history"`
	Notify    NotifyConfig  `yaml:"notify"`
	Logging   LoggingConfig `yaml:"logging"`
	Redirects []Redirect    `yaml:"redirects,omitempty"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"`
	Language    string `yaml:"language"` // default page language: en|cs
}

// ContentConfig locates the markdown posts.
type ContentConfig struct {
	Directory  string             `yaml:"directory"`
	Extension  string             `yaml:"extension"`
	DatePolicy content.DatePolicy `yaml:"date_policy"` // warn|reject
	Workers    int                `yaml:"workers"`     // 0 = GOMAXPROCS
}

// RenderConfig tunes markdown rendering.
type RenderConfig struct {
	HighlightStyle  string            `yaml:"highlight_style"`
	TabWidth        int               `yaml:"tab_width"`
	LanguageAliases map[string]string `yaml:"language_aliases,omitempty"`
}

// OutputConfig controls where the static site is written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`
}

// ServerConfig configures `blogbuilder serve`.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	Watch           bool          `yaml:"watch"`
	RebuildInterval time.Duration `yaml:"rebuild_interval"`
	Metrics         bool          `yaml:"metrics"`
}

// HistoryConfig enables the build history database. Empty Database disables it.
type HistoryConfig struct {
	Database string `yaml:"database"`
}

// NotifyConfig enables build notifications over NATS. Empty NATSURL disables them.
type NotifyConfig struct {
	NATSURL   string      `yaml:"nats_url"`
	Subject   string      `yaml:"subject"`
	JetStream bool        `yaml:"jetstream"` // publish through JetStream and wait for the ack
	Retry     RetryConfig `yaml:"retry"`
}

// RetryConfig controls how failed publishes are retried.
type RetryConfig struct {
	Backoff    retry.Mode    `yaml:"backoff"` // fixed|linear|exponential
	Initial    time.Duration `yaml:"initial"`
	Max        time.Duration `yaml:"max"`
	MaxRetries int           `yaml:"max_retries"`
}

// Policy returns the retry schedule for r.
func (r RetryConfig) Policy() retry.Policy {
	return retry.NewPolicy(r.Backoff, r.Initial, r.Max, r.MaxRetries)
}

// LoggingConfig selects the log level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Redirect maps a legacy /post/<slug> URL onto /<slug>-<id>.
type Redirect struct {
	Slug string `yaml:"slug"`
	ID   string `yaml:"id"`
}

// Default returns the configuration used for any key the file leaves out.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Title:    "Tech Blog",
			Language: "en",
		},
		Content: ContentConfig{
			Directory:  "content/posts",
			Extension:  ".md",
			DatePolicy: content.DatePolicyWarn,
		},
		Render: RenderConfig{
			HighlightStyle: "github",
			TabWidth:       4,
		},
		Output: OutputConfig{
			Directory: "./public",
			Clean:     true,
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Watch:   true,
			Metrics: true,
		},
		Notify: NotifyConfig{
			Subject: "blog.builds",
			Retry: RetryConfig{
				Backoff:    retry.ModeLinear,
				Initial:    time.Second,
				Max:        30 * time.Second,
				MaxRetries: 2,
			},
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}

// Load reads the configuration at path. A missing file at DefaultPath yields the
// defaults; a missing file anywhere else is an error.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) && path == DefaultPath {
			cfg := Default()
			if err := finish(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration").
			WithContext("path", path).
			Build()
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references from the
// environment first.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration").Build()
	}
	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finish(cfg *Config) error {
	if err := normalize(cfg); err != nil {
		return err
	}
	applyDefaults(cfg)
	return cfg.Validate()
}
