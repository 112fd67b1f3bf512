package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// legacyEnv carries variables kept for compatibility with existing
// deployments, which configure the token lifetime in minutes.
type legacyEnv struct {
	AccessTokenExpireMinutes int `env:"ACCESS_TOKEN_EXPIRE_MINUTES"`
}

// parseEnv overlays config with environment variables. Unset variables leave
// the current values untouched. Malformed values panic like a broken config file.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}

	var legacy legacyEnv
	if err := env.Parse(&legacy); err != nil {
		panic(err)
	}
	if legacy.AccessTokenExpireMinutes > 0 {
		config.AccessTokenValidityDuration = time.Duration(legacy.AccessTokenExpireMinutes) * time.Minute
	}
}
