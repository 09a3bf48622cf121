package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picksmart/storesync/internal/config"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(config.Config{
		DBType:            "postgres",
		DBHost:            "db.internal",
		DBPort:            "5433",
		DBName:            "picksmart",
		DBUser:            "app",
		DBPassword:        "secret",
		DBSSLMode:         "require",
		DBMaxIdleConn:     2,
		DBMaxOpenConn:     10,
		DBConnMaxLifetime: 1800,
		DBConnMaxIdleTime: 300,
	})

	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, "5433", cfg.Port)
	assert.Equal(t, "picksmart", cfg.Name)
	assert.Equal(t, "require", cfg.SSLMode)
	assert.Equal(t, 10, cfg.MaxOpenConn)
}

func TestDialect(t *testing.T) {
	for _, tc := range []struct {
		dbType string
		name   string
	}{
		{"postgres", "postgres"},
		{"mysql", "mysql"},
		{"sqlite", "sqlite"},
	} {
		dialector, err := Dialect(Config{Type: tc.dbType, Name: "picksmart"})
		require.NoError(t, err, tc.dbType)
		assert.Equal(t, tc.name, dialector.Name())
	}

	_, err := Dialect(Config{Type: "oracle"})
	assert.Error(t, err)
}
