package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/socrp/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// loadEnvFile exports variables from a dotenv file into the process
// environment. A missing default file is ignored; a missing or malformed
// file named explicitly via flags panics, like a broken JSON config does.
func loadEnvFile() {
	path := flagx.EnvFileFlags()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return
		}
		panic(err)
	}
}

// parseEnv overlays Config with SOCRP_* environment variables. Unset or
// empty variables leave the current value untouched; unparsable numbers
// and durations panic.
func parseEnv(cfg *Config) {
	if v, ok := lookup("SOCRP_API_URL"); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup("SOCRP_MEDIA_URL"); ok {
		cfg.MediaBaseURL = v
	}
	if v, ok := lookup("SOCRP_SESSION_DB"); ok {
		cfg.SessionDBPath = v
	}
	if v, ok := lookup("SOCRP_REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := lookup("SOCRP_RPS"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(err)
		}
		cfg.RequestsPerSecond = rps
	}
	if v, ok := lookup("SOCRP_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
