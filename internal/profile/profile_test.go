package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFromEnv(t *testing.T) {
	t.Run("prefixed token", func(t *testing.T) {
		t.Setenv("CAREERBOT_TELEGRAM_TOKEN", "123:abc")
		t.Setenv("BOT_TOKEN", "legacy")
		t.Setenv("CAREERBOT_TELEGRAM_WEBHOOK_SECRET", "s3cret")

		p := &Profile{}
		p.FromEnv()
		assert.Equal(t, "123:abc", p.TelegramToken)
		assert.Equal(t, "s3cret", p.WebhookSecret)
		assert.True(t, p.HasTelegram())
		assert.Equal(t, DefaultMaxConcurrentMessages, p.MaxConcurrentMessages)
	})

	t.Run("legacy token", func(t *testing.T) {
		t.Setenv("CAREERBOT_TELEGRAM_TOKEN", "")
		t.Setenv("BOT_TOKEN", "legacy")

		p := &Profile{}
		p.FromEnv()
		assert.Equal(t, "legacy", p.TelegramToken)
	})

	t.Run("explicit value wins", func(t *testing.T) {
		t.Setenv("CAREERBOT_TELEGRAM_TOKEN", "from-env")
		t.Setenv("CAREERBOT_MAX_CONCURRENT_MESSAGES", "3")

		p := &Profile{TelegramToken: "from-flag"}
		p.FromEnv()
		assert.Equal(t, "from-flag", p.TelegramToken)
		assert.Equal(t, 3, p.MaxConcurrentMessages)
	})
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr string
	}{
		{name: "defaults", profile: Profile{Mode: "dev"}},
		{name: "negative threshold", profile: Profile{Threshold: -1}, wantErr: "threshold"},
		{name: "negative cache size", profile: Profile{CacheSize: -1}, wantErr: "cache size"},
		{name: "negative send rate", profile: Profile{SendRatePerSecond: -2}, wantErr: "send rate"},
		{name: "negative concurrency", profile: Profile{MaxConcurrentMessages: -1}, wantErr: "max concurrent"},
		{name: "webhook without url", profile: Profile{TelegramMode: "webhook"}, wantErr: "webhook URL"},
		{name: "unknown telegram mode", profile: Profile{TelegramMode: "push"}, wantErr: "telegram mode"},
		{name: "unknown log format", profile: Profile{LogFormat: "xml"}, wantErr: "log format"},
		{name: "unknown driver", profile: Profile{AuditEnabled: true, Driver: "mysql"}, wantErr: "audit driver"},
		{name: "postgres without dsn", profile: Profile{AuditEnabled: true, Driver: "postgres"}, wantErr: "dsn"},
		{name: "postgres with dsn", profile: Profile{AuditEnabled: true, Driver: "postgres", DSN: "postgres://localhost/careerbot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.profile
			err := p.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProfileValidateDefaults(t *testing.T) {
	p := &Profile{Mode: "staging"}
	require.NoError(t, p.Validate())

	assert.Equal(t, "demo", p.Mode)
	assert.True(t, p.IsDev())
	assert.Equal(t, DefaultPort, p.Port)
	assert.Equal(t, ":28090", p.ListenAddr())
	assert.Equal(t, DefaultSendRatePerSecond, p.SendRatePerSecond)
	assert.Equal(t, DefaultMaxConcurrentMessages, p.MaxConcurrentMessages)
	assert.Equal(t, "polling", p.TelegramMode)
	assert.Equal(t, "info", p.LogLevel)
	assert.Equal(t, "json", p.LogFormat)
	assert.Empty(t, p.DSN)
}

func TestProfileValidateSQLiteDSN(t *testing.T) {
	dir := t.TempDir()

	p := &Profile{Mode: "prod", AuditEnabled: true, Data: dir}
	require.NoError(t, p.Validate())
	assert.Equal(t, "sqlite", p.Driver)
	assert.Equal(t, filepath.Join(dir, "careerbot_prod.db"), p.DSN)

	missing := &Profile{Mode: "dev", AuditEnabled: true, Data: filepath.Join(dir, "missing")}
	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to access data folder")
}
