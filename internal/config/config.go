// Package config resolves the runtime settings of taskreport.
//
// Values come from, in increasing priority: built-in defaults, environment
// variables with the TASKREPORT_ prefix, and command-line flags (applied by the
// cmd package on top of the value returned by Load).
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// EnvPrefix is the prefix shared by every environment variable read by Load.
const EnvPrefix = "TASKREPORT_"

// Keys understood in the environment (TASKREPORT_API_URL -> api-url) and used as flag names.
const (
	KeyAPIURL          = "api-url"
	KeyTimeout         = "timeout"
	KeyQuery           = "query"
	KeyLogLevel        = "log-level"
	KeyMetricsTextfile = "metrics-textfile"
)

// Defaults.
const (
	DefaultAPIURL   = "http://localhost:5000/api/tasks"
	DefaultTimeout  = 10 * time.Second
	DefaultLogLevel = "warn"
)

// Config holds the settings of one report run.
type Config struct {
	// APIURL is the task list endpoint.
	APIURL string

	// Timeout bounds the whole HTTP exchange.
	Timeout time.Duration

	// Query is an optional case-insensitive title filter forwarded as ?q=.
	Query string

	// LogLevel is the minimum level written to stderr.
	LogLevel string

	// MetricsTextfile, when set, receives the run's metrics in Prometheus text format.
	MetricsTextfile string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		Timeout:  DefaultTimeout,
		LogLevel: DefaultLogLevel,
	}
}

// Load returns the defaults overlaid with any TASKREPORT_* environment variables.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("error loading environment variables: %w", err)
	}

	cfg := Default()
	if v := k.String(KeyAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := k.String(KeyTimeout); v != "" {
		d, err := ParseTimeout(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s%s: %w", EnvPrefix, "TIMEOUT", err)
		}
		cfg.Timeout = d
	}
	if k.Exists(KeyQuery) {
		cfg.Query = k.String(KeyQuery)
	}
	if v := k.String(KeyLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := k.String(KeyMetricsTextfile); v != "" {
		cfg.MetricsTextfile = v
	}

	return cfg, nil
}

// envKey converts TASKREPORT_API_URL into api-url.
func envKey(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

// ParseTimeout accepts Go duration syntax extended with days and weeks (e.g. "1d2h").
func ParseTimeout(s string) (time.Duration, error) {
	d, err := str2duration.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return d, nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api url must not be empty")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api url %q: %w", c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api url %q: scheme must be http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api url %q: missing host", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// BaseURL returns scheme://host of the API endpoint, used in operator hints.
func (c *Config) BaseURL() string {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" {
		return c.APIURL
	}
	return u.Scheme + "://" + u.Host
}
