package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("TOKEN_TTL_DAYS", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "users.db", cfg.GetDSN())
	assert.Equal(t, 90*24*time.Hour, cfg.App.TokenTTL)
	assert.Equal(t, 5, cfg.App.ReferralCodeAttempts)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoadPostgresDSN(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "refs")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "host=db port=6543 user=app password=pw dbname=refs sslmode=disable TimeZone=UTC", cfg.GetDSN())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	t.Setenv("DB_DRIVER", "oracle")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("DB_DRIVER", "")
	t.Setenv("TOKEN_TTL_DAYS", "-1")
	_, err = Load()
	require.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a , ,http://b "))
	assert.Nil(t, splitList(" "))
}
