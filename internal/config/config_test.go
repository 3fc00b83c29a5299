package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_PATH", "file::memory:")
	t.Setenv("CONTEXT_TIMEOUT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, 30*time.Second, cfg.ContextTimeout)
	assert.Equal(t, "file::memory:", cfg.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadMySQLDSN(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("DATABASE_USER", "blog")
	t.Setenv("DATABASE_PASS", "pw")
	t.Setenv("DATABASE_HOST", "db")
	t.Setenv("DATABASE_NAME", "social")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Contains(t, cfg.DatabaseDSN, "blog:pw@tcp(db:3306)/social?")
	assert.Contains(t, cfg.DatabaseDSN, "parseTime=1")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadRejectsMissingSecretAndBadDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DATABASE_DRIVER", "postgres")
	_, err = Load()
	assert.Error(t, err)
}
