package warehouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfig_Validate_RequiredFields(t *testing.T) {
	t.Parallel()

	type tc struct {
		name    string
		cfg     Config
		wantErr string
	}

	tests := []tc{
		{
			name:    "missing host",
			cfg:     Config{Database: "analytics", User: "etl"},
			wantErr: "host is required",
		},
		{
			name:    "missing database",
			cfg:     Config{Host: "wh.example.com", User: "etl"},
			wantErr: "database is required",
		},
		{
			name:    "missing user",
			cfg:     Config{Host: "wh.example.com", Database: "analytics"},
			wantErr: "user is required",
		},
		{
			name: "ok minimal",
			cfg:  Config{Host: "wh.example.com", Database: "analytics", User: "etl"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_DefaultsApplied(t *testing.T) {
	t.Parallel()

	cfg := Config{Host: "wh.example.com", Database: "analytics", User: "etl"}
	require.NoError(t, cfg.Validate())
	require.Equal(t, 5439, cfg.Port)
	require.Equal(t, "require", cfg.SSLMode)
	require.Equal(t, 60*time.Second, cfg.ConnectTimeout)
	require.Equal(t, 120*time.Second, cfg.StatementTimeout)
}

func TestConfig_Validate_DoesNotOverrideProvidedValues(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Host:             "wh.example.com",
		Port:             5432,
		Database:         "analytics",
		User:             "etl",
		SSLMode:          "disable",
		ConnectTimeout:   5 * time.Second,
		StatementTimeout: 10 * time.Second,
	}
	require.NoError(t, cfg.Validate())
	require.Equal(t, 5432, cfg.Port)
	require.Equal(t, "disable", cfg.SSLMode)
	require.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	require.Equal(t, 10*time.Second, cfg.StatementTimeout)
}

func TestConfig_DSN(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Host:     "wh.example.com",
		Database: "analytics",
		User:     "etl",
		Password: "p@ss word",
	}
	require.NoError(t, cfg.Validate())

	dsn := cfg.DSN()
	require.Contains(t, dsn, "postgres://")
	require.Contains(t, dsn, "wh.example.com:5439")
	require.Contains(t, dsn, "/analytics")
	require.Contains(t, dsn, "connect_timeout=60")
	require.Contains(t, dsn, "statement_timeout%3D120000")
	require.Contains(t, dsn, "sslmode=require")
	// Password with special characters must be URL-escaped.
	require.NotContains(t, dsn, "p@ss word")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("TELESENSE_DB_HOST", "wh.example.com")
	t.Setenv("TELESENSE_DB_PORT", "5440")
	t.Setenv("TELESENSE_DB_NAME", "analytics")
	t.Setenv("TELESENSE_DB_USER", "etl")
	t.Setenv("TELESENSE_DB_PASSWORD", "secret")
	t.Setenv("TELESENSE_DB_SSLMODE", "disable")

	cfg := ConfigFromEnv()
	require.Equal(t, "wh.example.com", cfg.Host)
	require.Equal(t, 5440, cfg.Port)
	require.Equal(t, "analytics", cfg.Database)
	require.Equal(t, "etl", cfg.User)
	require.Equal(t, "secret", cfg.Password)
	require.Equal(t, "disable", cfg.SSLMode)
}
