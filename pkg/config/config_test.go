package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Drafts.DebounceDelay)
	assert.Equal(t, "@daily", cfg.Scheduler.OverdueSpec)
	assert.False(t, cfg.Mail.Enabled())
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestFromViper_EnvStrings(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("DRAFT_DEBOUNCE_MS", "250")
	v.Set("MAIL_HOST", "smtp.example.com")
	v.Set("MAIL_VERIFIED_DOMAINS", "Acme.com, , invoices.io")
	v.Set("RATE_LIMIT_RPS", "2.5")
	v.Set("DB_AUTO_MIGRATE", "false")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Drafts.DebounceDelay)
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, []string{"acme.com", "invoices.io"}, cfg.Mail.VerifiedDomains)
	assert.InDelta(t, 2.5, cfg.RateLimit.RequestsPerSecond, 0.0001)
	assert.False(t, cfg.DB.AutoMigrate)
}

func TestFromViper_ProductionRequiereSecret(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "invoices", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/invoices?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
