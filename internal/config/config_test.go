package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("OSU_API_KEY", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setCredentials(t)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "secret", cfg.Osu.APIKey)
	assert.Empty(t, cfg.Telegram.AllowedChatIDs)
	assert.Equal(t, "/", cfg.Bot.Prefix)
	assert.Equal(t, "info", cfg.Bot.LogLevel)
	assert.Equal(t, 60*time.Second, cfg.Handler.Timeout)
	assert.Equal(t, 16, cfg.Handler.MaxConcurrency)
	assert.Equal(t, 20*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "https://osu.ppy.sh/api", cfg.Osu.APIURL)
	assert.Equal(t, "https://osu.ppy.sh/osu", cfg.Osu.BeatmapURL)
	assert.Equal(t, "https://assets.ppy.sh/beatmaps", cfg.Osu.AssetsURL)
	assert.Empty(t, cfg.Log.File)
	assert.Empty(t, cfg.Metrics.ListenAddress)
}

func TestLoadMissingCredentials(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		apiKey  string
		wantKey string
	}{
		{name: "no bot token", apiKey: "secret", wantKey: KeyBotToken},
		{name: "no api key", token: "123:abc", wantKey: KeyOsuAPIKey},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", tc.token)
			t.Setenv("OSU_API_KEY", tc.apiKey)

			_, err := Load(viper.New())
			require.ErrorIs(t, err, ErrMissingCredential)
			assert.Contains(t, err.Error(), tc.wantKey)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	setCredentials(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
[telegram]
allowed_chat_ids = [-100123, 42]
admin_username = "fishkeeper"

[bot]
prefix = "~"
log_level = "debug"

[handler]
timeout = "15s"

[osu]
api_url = "http://localhost:8080/api/"

[metrics]
listen_address = ":9090"
`), 0o600)
	require.NoError(t, err)

	v := viper.New()
	v.SetConfigFile(path)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, []int64{-100123, 42}, cfg.Telegram.AllowedChatIDs)
	assert.Equal(t, "fishkeeper", cfg.Telegram.AdminUsername)
	assert.Equal(t, "~", cfg.Bot.Prefix)
	assert.Equal(t, "debug", cfg.Bot.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.Handler.Timeout)
	assert.Equal(t, "http://localhost:8080/api", cfg.Osu.APIURL)
	assert.Equal(t, ":9090", cfg.Metrics.ListenAddress)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	setCredentials(t)
	t.Setenv("TELEGRAM_ALLOWED_CHAT_IDS", "1, 2,3")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("LOG_FILE", "/var/log/fishbot.log")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, cfg.Telegram.AllowedChatIDs)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "/var/log/fishbot.log", cfg.Log.File)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{name: "unparsable handler timeout", env: "HANDLER_TIMEOUT", val: "soon"},
		{name: "negative http timeout", env: "HTTP_TIMEOUT", val: "-1s"},
		{name: "bad chat id", env: "TELEGRAM_ALLOWED_CHAT_IDS", val: "1,abc"},
		{name: "bad concurrency", env: "HANDLER_MAX_CONCURRENCY", val: "many"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setCredentials(t)
			t.Setenv(tc.env, tc.val)

			_, err := Load(viper.New())
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrMissingCredential)
		})
	}
}

func TestLoadBrokenConfigFile(t *testing.T) {
	setCredentials(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[telegram\n"), 0o600))

	v := viper.New()
	v.SetConfigFile(path)

	_, err := Load(v)
	require.Error(t, err)
}
