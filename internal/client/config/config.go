package config

import "time"

// Config holds runtime settings for the certification portal CLI.
//
// Fields:
//   - APIBaseURL: base address every API path is resolved against.
//   - MediaBaseURL: prefix for relative media paths (photos, resumes).
//   - SessionDBPath: SQLite file holding the persisted bearer tokens.
//   - RequestTimeout: upper bound for a single API call.
//   - RequestsPerSecond: client-side pacing of API calls; 0 disables it.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL        string
	MediaBaseURL      string
	SessionDBPath     string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	LogLevel          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.MediaBaseURL = "http://127.0.0.1:8000"
	c.SessionDBPath = "session.db"
	c.RequestTimeout = 15 * time.Second
	c.RequestsPerSecond = 0
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a dotenv file, the environment, a JSON file and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	loadEnvFile()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
