package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/socrp/internal/flagx"
	"github.com/dmitrijs2005/socrp/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values so a partial file only
// overrides what it names.
type JsonConfig struct {
	APIBaseURL        *string         `json:"api_base_url"`
	MediaBaseURL      *string         `json:"media_base_url"`
	SessionDBPath     *string         `json:"session_db_path"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
	RequestsPerSecond *float64        `json:"requests_per_second"`
	LogLevel          *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c / -config. Without the flag nothing happens. Read or unmarshal errors
// panic (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.MediaBaseURL != nil {
		cfg.MediaBaseURL = *jc.MediaBaseURL
	}
	if jc.SessionDBPath != nil {
		cfg.SessionDBPath = *jc.SessionDBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *jc.RequestsPerSecond
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
