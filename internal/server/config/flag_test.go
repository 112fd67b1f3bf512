package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"server",
				"-a", "127.0.0.1:9090", "-g", ":9091", "-d", "db", "-s", "secret", "-t", "60", "-k", "12",
				"-l", "debug", "-u", "user", "-p", "password", "-b", "bucket", "-r", "us-west-1",
				"-e", "http://endpoint", "-balance-store", "postgres", "-migrate=false",
			},
			expected: &Config{
				HTTPAddr:                    "127.0.0.1:9090",
				GRPCHealthAddr:              ":9091",
				DatabaseDSN:                 "db",
				SecretKey:                   "secret",
				AccessTokenValidityDuration: time.Hour,
				BcryptCost:                  12,
				LogLevel:                    "debug",
				S3RootUser:                  "user",
				S3RootPassword:              "password",
				S3Bucket:                    "bucket",
				S3Region:                    "us-west-1",
				S3BaseEndpoint:              "http://endpoint",
				BalanceStore:                "postgres",
				RunMigrations:               false,
			},
		},
		{
			name:     "ttl untouched without -t",
			args:     []string{"server", "-s", "secret"},
			expected: &Config{SecretKey: "secret", AccessTokenValidityDuration: 90 * time.Second},
		},
		{
			name:        "bad int panics",
			args:        []string{"server", "-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}
			if tt.name == "ttl untouched without -t" {
				config.AccessTokenValidityDuration = 90 * time.Second
			}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
