package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "BOARD"

// parseEnv overlays cfg with BOARD_* environment variables. Empty
// variables count as unset.
func parseEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)

	keys := []string{"api_url", "storage_path", "log_level", "request_timeout", "posts_limit", "online_check_interval"}
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	if v.IsSet("api_url") {
		cfg.APIBaseURL = v.GetString("api_url")
	}
	if v.IsSet("storage_path") {
		cfg.StoragePath = v.GetString("storage_path")
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("request_timeout") {
		d, err := time.ParseDuration(v.GetString("request_timeout"))
		if err != nil {
			return fmt.Errorf("%s_REQUEST_TIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}
	if v.IsSet("posts_limit") {
		n, err := strconv.Atoi(v.GetString("posts_limit"))
		if err != nil {
			return fmt.Errorf("%s_POSTS_LIMIT: %w", envPrefix, err)
		}
		cfg.PostsLimit = n
	}
	if v.IsSet("online_check_interval") {
		d, err := time.ParseDuration(v.GetString("online_check_interval"))
		if err != nil {
			return fmt.Errorf("%s_ONLINE_CHECK_INTERVAL: %w", envPrefix, err)
		}
		cfg.OnlineCheckInterval = d
	}
	return nil
}
