package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"trailerstore/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.App.Port)
	assert.Equal(t, config.DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 10*1024*1024, cfg.BodyLimit())
	assert.Equal(t, "catalog", cfg.RabbitMQ.Exchange)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.False(t, cfg.Production())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("DATABASE_DRIVER", "SQLITE")
	t.Setenv("DATABASE_DSN", "file:trailers.db")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_DB", "2")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Production())
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file:trailers.db", cfg.Database.DSN)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trailerstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app_port: \":9000\"\nrabbitmq_exchange: events\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.App.Port)
	assert.Equal(t, "events", cfg.RabbitMQ.Exchange)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		dsn     string
		wantErr bool
	}{
		{name: "memory", driver: config.DriverMemory},
		{name: "postgres with dsn", driver: config.DriverPostgres, dsn: "host=localhost"},
		{name: "postgres without dsn", driver: config.DriverPostgres, wantErr: true},
		{name: "unknown driver", driver: "mongo", dsn: "mongodb://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				App:      config.AppConfig{BodyLimitMB: 10},
				Database: config.DatabaseConfig{Driver: tt.driver, DSN: tt.dsn},
			}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
