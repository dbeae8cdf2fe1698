package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the settings of a single run
type Config struct {
	URL         string `yaml:"url"`
	ClassMarker string `yaml:"class_marker"`
	Schedule    string `yaml:"schedule"`

	Fetcher  FetcherConfig  `yaml:"fetcher"`
	Store    StoreConfig    `yaml:"store"`
	Notifier NotifierConfig `yaml:"notifier"`
	Filter   FilterConfig   `yaml:"filter"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Log      LogConfig      `yaml:"log"`
}

// FetcherConfig selects how the target page is downloaded
type FetcherConfig struct {
	Driver    string        `yaml:"driver"` // "http", "colly" or "rod"
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"` // 0 means no timeout
}

// StoreConfig selects where the link snapshot lives
type StoreConfig struct {
	Driver string `yaml:"driver"` // "csv", "sqlite" or "postgres"
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// NotifierConfig selects the push notification service
type NotifierConfig struct {
	Driver   string `yaml:"driver"` // "line" or "telegram"
	Endpoint string `yaml:"endpoint"`
	TokenEnv string `yaml:"token_env"`
	ChatID   int64  `yaml:"chat_id"`

	// Token is resolved from the environment, never from the file
	Token string `yaml:"-"`
}

// FilterConfig lists glob patterns of links that are never reported
type FilterConfig struct {
	Exclude []string `yaml:"exclude"`
}

// SheetsConfig enables the optional spreadsheet report
type SheetsConfig struct {
	SpreadsheetURL  string `yaml:"spreadsheet_url"`
	CredentialsPath string `yaml:"credentials_path"`
}

// LogConfig configures the run log
type LogConfig struct {
	Path    string `yaml:"path"`
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

const (
	DefaultClassMarker  = "line2"
	DefaultLineEndpoint = "https://notify-api.line.me/api/notify"
	DefaultTokenEnv     = "LINE_TOKEN"
)

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	return &Config{
		ClassMarker: DefaultClassMarker,
		Fetcher: FetcherConfig{
			Driver: "http",
		},
		Store: StoreConfig{
			Driver: "csv",
			Path:   "links.csv",
		},
		Notifier: NotifierConfig{
			Driver:   "line",
			Endpoint: DefaultLineEndpoint,
			TokenEnv: DefaultTokenEnv,
		},
		Log: LogConfig{
			Path:  "log.log",
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
// A missing file is not an error: the defaults are returned as they are.
func LoadConfig(path string) (*Config, error) {
	cfg := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadEnvFile loads variables from a .env file if one exists
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ResolveToken reads the notification token from the configured environment variable
func (c *Config) ResolveToken() {
	name := c.Notifier.TokenEnv
	if name == "" {
		name = DefaultTokenEnv
	}
	c.Notifier.Token = strings.TrimSpace(os.Getenv(name))
}

// Validate checks that everything a run needs is present before any network call
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.URL) == "" {
		errs = append(errs, errors.New("url is required"))
	}
	if strings.TrimSpace(c.ClassMarker) == "" {
		errs = append(errs, errors.New("class_marker is required"))
	}

	switch c.Fetcher.Driver {
	case "http", "colly", "rod":
	default:
		errs = append(errs, fmt.Errorf("unknown fetcher driver %q", c.Fetcher.Driver))
	}

	switch c.Store.Driver {
	case "csv", "sqlite":
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store.path is required for %s driver", c.Store.Driver))
		}
	case "postgres":
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}

	switch c.Notifier.Driver {
	case "line":
		if c.Notifier.Endpoint == "" {
			errs = append(errs, errors.New("notifier.endpoint is required for line driver"))
		}
	case "telegram":
		if c.Notifier.ChatID == 0 {
			errs = append(errs, errors.New("notifier.chat_id is required for telegram driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown notifier driver %q", c.Notifier.Driver))
	}
	if c.Notifier.Token == "" {
		errs = append(errs, errors.New("notification access token is not set"))
	}

	return errors.Join(errs...)
}
