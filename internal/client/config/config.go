package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds runtime settings for the board CLI.
//
// Fields:
//   - APIBaseURL: root of the Board API, http or https.
//   - StoragePath: SQLite file holding the persisted session.
//   - LogLevel: minimum level written to stderr.
//   - RequestTimeout: limit for one API request; zero disables it.
//   - PostsLimit: how many posts the board view fetches.
//   - OnlineCheckInterval: how often the CLI probes the API.
type Config struct {
	APIBaseURL          string
	StoragePath         string
	LogLevel            string
	RequestTimeout      time.Duration
	PostsLimit          int
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.StoragePath = "session.db"
	c.LogLevel = "info"
	c.RequestTimeout = 30 * time.Second
	c.PostsLimit = 100
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig builds a Config from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, then JSON, then environment, then flags from args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var ErrInvalidConfig = errors.New("invalid config")

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api url %q must be an absolute http(s) URL", ErrInvalidConfig, c.APIBaseURL)
	}
	if c.StoragePath == "" {
		return fmt.Errorf("%w: storage path is empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative request timeout", ErrInvalidConfig)
	}
	if c.PostsLimit < 0 {
		return fmt.Errorf("%w: negative posts limit", ErrInvalidConfig)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("%w: online check interval must be positive", ErrInvalidConfig)
	}
	return nil
}
