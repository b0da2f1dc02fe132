package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Duration accepts either a Go duration string ("10m") or a bare number of
// seconds in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	// A bare number decodes into a string as well, so the integer form has
	// to be tried first.
	var seconds int64
	if err := value.Decode(&seconds); err == nil {
		*d = Duration(time.Duration(seconds) * time.Second)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full runtime configuration. Values come from an optional
// YAML file, overridden by the environment variables named in envOverrides.
type Config struct {
	Keyword     string   `yaml:"keyword"`
	SearchHours float64  `yaml:"search_hours"`
	Interval    Duration `yaml:"interval"`
	ResultsDir  string   `yaml:"results_dir"`
	HTTPPort    int      `yaml:"http_port"`
	Sources     []string `yaml:"sources"`
	LogLevel    string   `yaml:"log_level"`
	PostgresDSN string   `yaml:"postgres_dsn"`

	Email   EmailConfig   `yaml:"email"`
	YouTube YouTubeConfig `yaml:"youtube"`
	TVB     TVBConfig     `yaml:"tvb"`
}

type EmailConfig struct {
	ZohoEmail      string   `yaml:"zoho_email"`
	ZohoAppPass    string   `yaml:"zoho_app_pass"`
	SendGridAPIKey string   `yaml:"sendgrid_api_key"`
	GmailEmail     string   `yaml:"gmail_email"`
	GmailPassword  string   `yaml:"gmail_password"`
	Recipients     []string `yaml:"recipients"`
}

type YouTubeConfig struct {
	Channels []string `yaml:"channels"`
}

type TVBConfig struct {
	KnownURLs []string `yaml:"known_urls"`
}

// envOverrides mirrors the environment contract. Every field is optional;
// set fields win over the YAML file.
type envOverrides struct {
	Keyword     string  `envconfig:"KEYWORD"`
	SearchHours float64 `envconfig:"SEARCH_HOURS"`
	IntervalSec int    `envconfig:"RUN_INTERVAL_SECONDS"`
	ResultsDir  string `envconfig:"RESULTS_DIR"`
	HTTPPort    int    `envconfig:"PORT"`
	Sources     string `envconfig:"SOURCES"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	ZohoEmail      string `envconfig:"ZOHO_EMAIL"`
	ZohoAppPass    string `envconfig:"ZOHO_APP_PASS"`
	SendGridAPIKey string `envconfig:"SENDGRID_API_KEY"`
	GmailEmail     string `envconfig:"GMAIL_EMAIL"`
	GmailPassword  string `envconfig:"GMAIL_PASSWORD"`
	Recipients     string `envconfig:"RECIPIENT_EMAILS"`
	Channels       string `envconfig:"YOUTUBE_CHANNEL_IDS"`
}

// Load reads the YAML file at path (empty path skips the file), applies
// environment overrides, fills defaults and validates.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	applyEnv(cfg, env)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Keyword:     "王敏奕",
		SearchHours: 3,
		Interval:    Duration(600 * time.Second),
		ResultsDir:  "results",
		HTTPPort:    8080,
		LogLevel:    "info",
	}
}

func applyEnv(cfg *Config, env envOverrides) {
	if env.Keyword != "" {
		cfg.Keyword = env.Keyword
	}
	if env.SearchHours > 0 {
		cfg.SearchHours = env.SearchHours
	}
	if env.IntervalSec > 0 {
		cfg.Interval = Duration(time.Duration(env.IntervalSec) * time.Second)
	}
	if env.ResultsDir != "" {
		cfg.ResultsDir = env.ResultsDir
	}
	if env.HTTPPort > 0 {
		cfg.HTTPPort = env.HTTPPort
	}
	if env.Sources != "" {
		cfg.Sources = splitList(env.Sources)
	}
	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
	}
	if env.PostgresDSN != "" {
		cfg.PostgresDSN = env.PostgresDSN
	}
	if env.ZohoEmail != "" {
		cfg.Email.ZohoEmail = env.ZohoEmail
	}
	if env.ZohoAppPass != "" {
		cfg.Email.ZohoAppPass = env.ZohoAppPass
	}
	if env.SendGridAPIKey != "" {
		cfg.Email.SendGridAPIKey = env.SendGridAPIKey
	}
	if env.GmailEmail != "" {
		cfg.Email.GmailEmail = env.GmailEmail
	}
	if env.GmailPassword != "" {
		cfg.Email.GmailPassword = env.GmailPassword
	}
	if env.Recipients != "" {
		cfg.Email.Recipients = splitList(env.Recipients)
	}
	if env.Channels != "" {
		cfg.YouTube.Channels = splitList(env.Channels)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Keyword) == "" {
		return fmt.Errorf("keyword must not be empty")
	}
	if c.SearchHours <= 0 {
		return fmt.Errorf("search_hours must be positive, got %g", c.SearchHours)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval.Std())
	}
	return nil
}

// Window is the recency window as a duration. Fractional hours are allowed,
// the tight polling mode runs with 0.5.
func (c *Config) Window() time.Duration {
	return time.Duration(c.SearchHours * float64(time.Hour))
}
