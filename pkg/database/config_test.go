package database_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/masteryhub/pkg/database"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{Name: "mastery", User: "mastery"}
	require.NoError(t, cfg.Finalize(nil))

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, "15m", cfg.ConnMaxLifetime)
	assert.Equal(t, "5s", cfg.ConnTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestFinalizeURLOnly(t *testing.T) {
	t.Setenv("TEST_DATABASE_URL", "postgres://u:p@db:5432/app")

	cfg := database.Config{}
	require.NoError(t, cfg.Finalize(&database.Env{URL: "TEST_DATABASE_URL"}))

	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.Dsn())
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "remotehost")
	t.Setenv("TEST_DB_PORT", "5433")
	t.Setenv("TEST_DB_NAME", "envdb")
	t.Setenv("TEST_DB_USER", "envuser")
	t.Setenv("TEST_DB_MAX_OPEN", "50")
	t.Setenv("TEST_DB_LOG_LEVEL", "info")

	cfg := database.Config{}
	require.NoError(t, cfg.Finalize(&database.Env{
		Host:         "TEST_DB_HOST",
		Port:         "TEST_DB_PORT",
		Name:         "TEST_DB_NAME",
		User:         "TEST_DB_USER",
		MaxOpenConns: "TEST_DB_MAX_OPEN",
		LogLevel:     "TEST_DB_LOG_LEVEL",
	}))

	assert.Equal(t, "remotehost", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, 50, cfg.MaxOpenConns)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Contains(t, cfg.Dsn(), "dbname=envdb")
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
		want string
	}{
		{"missing name", database.Config{User: "u"}, "url or name required"},
		{"missing user", database.Config{Name: "n"}, "user required"},
		{"bad lifetime", database.Config{URL: "postgres://x", ConnMaxLifetime: "soon"}, "conn_max_lifetime"},
		{"bad log level", database.Config{URL: "postgres://x", LogLevel: "loud"}, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{Host: "a", Port: 1, LogLevel: "warn"}
	base.Merge(&database.Config{URL: "postgres://b", LogLevel: "info"})

	assert.Equal(t, "postgres://b", base.URL)
	assert.Equal(t, "a", base.Host)
	assert.Equal(t, "info", base.LogLevel)
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		want    string
		hidden  string
		trimmed bool
	}{
		{
			name:   "url password masked",
			dsn:    "postgres://admin:hunter2@db/app",
			want:   "postgres://admin:xxxxx@db/app",
			hidden: "hunter2",
		},
		{
			name:   "key value password masked",
			dsn:    "host=db password=hunter2 dbname=app",
			want:   "host=db password=xxxxx dbname=app",
			hidden: "hunter2",
		},
		{
			name:   "url query password masked",
			dsn:    "postgres://u@h/db?password=secret",
			want:   "postgres://u@h/db?password=xxxxx",
			hidden: "secret",
		},
		{
			name:   "quoted key value password masked",
			dsn:    "host=h password='se cret' user=u",
			want:   "host=h password=xxxxx user=u",
			hidden: "cret",
		},
		{
			name:   "escaped quote inside password",
			dsn:    `host=h password='it\'s' user=u`,
			want:   "host=h password=xxxxx user=u",
			hidden: "it",
		},
		{
			name:    "long value truncated",
			dsn:     "postgres://admin@" + strings.Repeat("a", 80) + ".example.com/app",
			trimmed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := database.Redact(tt.dsn)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			}
			if tt.hidden != "" {
				assert.NotContains(t, got, tt.hidden)
			}
			if tt.trimmed {
				assert.Len(t, got, 53)
				assert.True(t, strings.HasSuffix(got, "..."))
			}
		})
	}
}
