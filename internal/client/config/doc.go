// Package config loads runtime configuration for the certification portal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file: ".env" in the working directory if it exists, or the
//     file named by -e / -env-file. Values are exported into the process
//     environment without overriding variables that are already set.
//  3. Environment variables (see parseEnv).
//  4. Optional JSON file selected via -c or -config.
//  5. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-m string   media base URL
//	-d string   session database path
//	-t int      request timeout (seconds)
//	-r float    requests per second (0 = unlimited)
//	-l string   log level
//
// Environment
//
//	SOCRP_API_URL, SOCRP_MEDIA_URL, SOCRP_SESSION_DB,
//	SOCRP_REQUEST_TIMEOUT (e.g. "20s"), SOCRP_RPS, SOCRP_LOG_LEVEL
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "15s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://portal.example.org/api",
//	  "media_base_url": "https://portal.example.org",
//	  "session_db_path": "/var/lib/socrp/session.db",
//	  "request_timeout": "15s",
//	  "requests_per_second": 5,
//	  "log_level": "debug"
//	}
package config
