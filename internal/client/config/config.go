package config

import "time"

// Config holds runtime settings for the orgbook CLI.
//
// Fields:
//   - ServerURL: base URL of the REST server, without the /api/v1 suffix.
//   - Backend: HTTP client implementation, "nethttp" or "resty".
//   - RequestTimeout: upper bound for a single request round trip.
type Config struct {
	ServerURL      string
	Backend        string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:7070"
	c.Backend = "nethttp"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
