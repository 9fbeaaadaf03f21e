package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "5432"
	cfg.Database.User = "app"
	cfg.Database.Password = "secret"
	cfg.Database.DBName = "enrollment"
	cfg.Database.MaxOpenConns = 12
	cfg.Database.MaxIdleConns = 3
	cfg.Database.ConnMaxLifetime = "45m"
	return cfg
}

func TestNewPoolConfigUsesDatabaseSection(t *testing.T) {
	poolConfig, err := newPoolConfig(testConfig())
	require.NoError(t, err)

	assert.Equal(t, int32(12), poolConfig.MaxConns)
	assert.Equal(t, int32(3), poolConfig.MinConns)
	assert.Equal(t, 45*time.Minute, poolConfig.MaxConnLifetime)
	assert.Equal(t, "db.internal", poolConfig.ConnConfig.Host)
	assert.Equal(t, "enrollment", poolConfig.ConnConfig.Database)
	assert.NotNil(t, poolConfig.BeforeAcquire)
}

func TestNewPoolConfigFallsBackOnEmptyLifetime(t *testing.T) {
	cfg := testConfig()
	cfg.Database.ConnMaxLifetime = ""

	poolConfig, err := newPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, poolConfig.MaxConnLifetime)
}

func TestNewPostgresDBHonoursConnectTimeout(t *testing.T) {
	cfg := testConfig()
	// Reserved TEST-NET address; the dial can only time out
	cfg.Database.Host = "192.0.2.1"
	cfg.Database.ConnectTimeout = "200ms"

	start := time.Now()
	database, err := NewPostgresDB(cfg)
	require.Error(t, err)
	assert.Nil(t, database)
	assert.Less(t, time.Since(start), 5*time.Second)
}
