// Package config loads runtime configuration for the board CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables with the BOARD_ prefix, read through viper.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the Board API
//	-s string   path of the local session database
//	-l string   log level: debug, info, warn or error
//	-t int      request timeout (seconds)
//	-n int      number of posts to fetch
//	-i int      online status check interval (seconds)
//
// Environment
//
//	BOARD_API_URL, BOARD_STORAGE_PATH, BOARD_LOG_LEVEL,
//	BOARD_REQUEST_TIMEOUT ("30s"), BOARD_POSTS_LIMIT,
//	BOARD_ONLINE_CHECK_INTERVAL ("3s")
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "30s" or
// integer nanoseconds. Missing keys keep their earlier value:
//
//	{
//	  "api_url": "http://localhost:8000",
//	  "storage_path": "session.db",
//	  "log_level": "info",
//	  "request_timeout": "30s",
//	  "posts_limit": 100,
//	  "online_check_interval": "3s"
//	}
//
// The configuration is resolved once at startup and never reloaded.
package config
