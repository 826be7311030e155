package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":       "postgres://localhost/petanque",
		"JWT_SECRET_KEY":     "secret",
		"ORGANIZER_PASSWORD": "boules",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadFrom(baseEnv())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 13, cfg.MaxScore)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.LegacyTieScoring)
	assert.False(t, cfg.Export.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	environ := baseEnv()
	environ["DB_DRIVER"] = "SQLite"
	environ["SERVER_PORT"] = "9000"
	environ["LEGACY_TIE_SCORING"] = "true"
	environ["CORS_ALLOWED_ORIGINS"] = "http://a.test,http://b.test"
	environ["EXPORT_S3_BUCKET"] = "standings"
	environ["EXPORT_S3_ACCESS_KEY_ID"] = "id"
	environ["EXPORT_S3_SECRET_ACCESS_KEY"] = "key"
	environ["EXPORT_PUBLIC_BASE_URL"] = "https://cdn.test/"

	cfg, err := loadFrom(environ)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.True(t, cfg.LegacyTieScoring)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.Export.Enabled())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing database url", "DATABASE_URL", ""},
		{"missing jwt secret", "JWT_SECRET_KEY", ""},
		{"unknown driver", "DB_DRIVER", "mysql"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"zero max score", "MAX_SCORE", "0"},
		{"bad log level", "LOG_LEVEL", "loud"},
		{"export without credentials", "EXPORT_S3_BUCKET", "standings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := baseEnv()
			if tt.val == "" {
				delete(environ, tt.key)
			} else {
				environ[tt.key] = tt.val
			}
			_, err := loadFrom(environ)
			assert.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
