package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"STORAGE_DRIVER", "STORAGE_NAMESPACE", "REPLAY_DELAY", "COMPARE_REDIRECT_DELAY", "COMPARE_MAX_ITEMS", "COLLABORATOR_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "franchise", cfg.Storage.Namespace)
	assert.Equal(t, 500*time.Millisecond, cfg.Session.ReplayDelay)
	assert.Equal(t, time.Second, cfg.Session.CompareRedirectDelay)
	assert.Equal(t, 4, cfg.Session.CompareMaxItems)
	assert.Equal(t, 5*time.Second, cfg.Collaborators.Timeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REPLAY_DELAY", "2s")
	t.Setenv("COMPARE_MAX_ITEMS", "6")
	t.Setenv("ENGAGEMENT_SERVICE_URL", "http://engagement.local")

	cfg := Load()

	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "localhost:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, 2*time.Second, cfg.Session.ReplayDelay)
	assert.Equal(t, 6, cfg.Session.CompareMaxItems)
	assert.Equal(t, "http://engagement.local", cfg.Collaborators.EngagementURL)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("REPLAY_DELAY", "soon")

	cfg := Load()

	assert.Equal(t, 500*time.Millisecond, cfg.Session.ReplayDelay)
}

func validConfig() *Config {
	return &Config{
		Service:       ServiceConfig{Name: "franchise", Port: "8080", Env: "development"},
		Logging:       LoggingConfig{Level: "info", Format: "json"},
		Storage:       StorageConfig{Driver: "memory", Namespace: "franchise"},
		Session:       SessionConfig{ReplayDelay: 500 * time.Millisecond, CompareRedirectDelay: time.Second, CompareMaxItems: 4},
		Collaborators: CollaboratorsConfig{Timeout: 5 * time.Second},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Storage.Driver = "localstorage" },
			wantErr: "STORAGE_DRIVER must be one of",
		},
		{
			name:    "redis without address",
			mutate:  func(c *Config) { c.Storage.Driver = "redis" },
			wantErr: "REDIS_ADDR is required",
		},
		{
			name:    "postgres without host",
			mutate:  func(c *Config) { c.Storage.Driver = "postgres" },
			wantErr: "DB_HOST is required when STORAGE_DRIVER=postgres",
		},
		{
			name:    "namespace with colon",
			mutate:  func(c *Config) { c.Storage.Namespace = "a:b" },
			wantErr: "STORAGE_NAMESPACE",
		},
		{
			name:    "empty compare list",
			mutate:  func(c *Config) { c.Session.CompareMaxItems = 0 },
			wantErr: "COMPARE_MAX_ITEMS must be at least 1",
		},
		{
			name:    "negative replay delay",
			mutate:  func(c *Config) { c.Session.ReplayDelay = -time.Second },
			wantErr: "REPLAY_DELAY must not be negative",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_BuildDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", Name: "franchise", User: "app", Password: "p@ss", SSLMode: "disable"}

	assert.Equal(t, "postgresql://app:p%40ss@db:5432/franchise?sslmode=disable", c.BuildDSN())
}
