package config

import (
	"encoding/json"
	"os"

	"github.com/lvdopqt/carteira-digital-api/internal/flagx"
	"github.com/lvdopqt/carteira-digital-api/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so "24h" and integer nanoseconds are both accepted.
type JsonConfig struct {
	HTTPAddr                    string         `json:"http_addr"`
	GRPCHealthAddr              string         `json:"grpc_health_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	BalanceStore                string         `json:"balance_store"`
	RunMigrations               bool           `json:"run_migrations"`
	HealthCheckInterval         timex.Duration `json:"health_check_interval"`
	HTTPReadTimeout             timex.Duration `json:"http_read_timeout"`
	HTTPWriteTimeout            timex.Duration `json:"http_write_timeout"`
	LogLevel                    string         `json:"log_level"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	S3PresignValidityDuration   timex.Duration `json:"s3_presign_validity_duration"`
}

// parseJson overlays config with the file named by -c/-config. Keys missing
// from the file keep their current values. Unreadable files and invalid JSON
// panic, since the server cannot start with a half-read configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.HTTPAddr = c.HTTPAddr
	config.GRPCHealthAddr = c.GRPCHealthAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.BcryptCost = c.BcryptCost
	config.BalanceStore = c.BalanceStore
	config.RunMigrations = c.RunMigrations
	config.HealthCheckInterval = c.HealthCheckInterval.Duration
	config.HTTPReadTimeout = c.HTTPReadTimeout.Duration
	config.HTTPWriteTimeout = c.HTTPWriteTimeout.Duration
	config.LogLevel = c.LogLevel
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.S3PresignValidityDuration = c.S3PresignValidityDuration.Duration
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:                    c.HTTPAddr,
		GRPCHealthAddr:              c.GRPCHealthAddr,
		DatabaseDSN:                 c.DatabaseDSN,
		SecretKey:                   c.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: c.AccessTokenValidityDuration},
		BcryptCost:                  c.BcryptCost,
		BalanceStore:                c.BalanceStore,
		RunMigrations:               c.RunMigrations,
		HealthCheckInterval:         timex.Duration{Duration: c.HealthCheckInterval},
		HTTPReadTimeout:             timex.Duration{Duration: c.HTTPReadTimeout},
		HTTPWriteTimeout:            timex.Duration{Duration: c.HTTPWriteTimeout},
		LogLevel:                    c.LogLevel,
		S3RootUser:                  c.S3RootUser,
		S3RootPassword:              c.S3RootPassword,
		S3Bucket:                    c.S3Bucket,
		S3Region:                    c.S3Region,
		S3BaseEndpoint:              c.S3BaseEndpoint,
		S3PresignValidityDuration:   timex.Duration{Duration: c.S3PresignValidityDuration},
	}
}
