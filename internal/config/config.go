package config

import (
	"fmt"
	"net/url"
	"time"

	"ice-extent/internal/archive"

	"github.com/alecthomas/kong"
)

// Config holds the runtime settings. Nothing is persisted; every run starts
// from today's date.
type Config struct {
	ArchiveURL string        `name:"archive-url" env:"ICE_EXTENT_ARCHIVE_URL" help:"Base URL of the IMS archive host." default:"${archive_url}"`
	Timeout    time.Duration `name:"timeout" env:"ICE_EXTENT_TIMEOUT" help:"Per-image fetch timeout (0 disables)." default:"30s"`
	LogLevel   string        `name:"log-level" env:"LOG_LEVEL" help:"Log level." enum:"debug,info,warn,error" default:"info"`
	JSONLogs   bool          `name:"json-logs" env:"ICE_EXTENT_JSON_LOGS" help:"Emit JSON logs instead of console output."`
}

// Parse reads flags and environment variables
func Parse(name, description string, args []string, opts ...kong.Option) (*Config, error) {
	var cfg Config

	options := append([]kong.Option{
		kong.Name(name),
		kong.Description(description),
		kong.Vars{"archive_url": archive.DefaultBaseURL},
	}, opts...)

	parser, err := kong.New(&cfg, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to build flag parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) check() error {
	u, err := url.Parse(c.ArchiveURL)
	if err != nil {
		return fmt.Errorf("invalid archive URL %q: %w", c.ArchiveURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid archive URL %q: scheme must be http or https", c.ArchiveURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid archive URL %q: missing host", c.ArchiveURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
