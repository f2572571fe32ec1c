package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glebk/sati-bot/internal/llm"
)

// clearEnv blanks every variable Load reads so the host environment does not
// leak into the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SATI_CONFIG", "BOT_TOKEN", "CSV_PATH", "MEDITATION_CSV_PATH", "SUBS_PATH",
		"REFLECTIONS_PATH", "SUBSCRIBERS_BACKEND", "SUBSCRIBERS_DB_PATH", "TZ",
		"DAILY_SUMMARY_AT", "ADMIN_ADDR", "LOG_LEVEL", "SKIP_TELEGRAM", "LLM_PROVIDER",
		"GEMINI_API_KEY", "GEMINI_MODEL", "OPENAI_API_KEY", "OPENAI_MODEL",
		"OPENAI_BASE_URL", "ANTHROPIC_API_KEY", "ANTHROPIC_MODEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sati_logs.csv", cfg.Storage.EventsPath)
	assert.Equal(t, "meditations.csv", cfg.Storage.MeditationsPath)
	assert.Equal(t, "subscribers.json", cfg.Storage.SubscribersPath)
	assert.Equal(t, "reflections.txt", cfg.Storage.ReflectionsPath)
	assert.Equal(t, SubscribersJSON, cfg.Storage.SubscribersBackend)
	assert.Equal(t, "Asia/Bangkok", cfg.Location.String())
	assert.Equal(t, llm.ProviderNone, cfg.LLM.Provider)
	assert.False(t, cfg.SkipTelegram)

	hour, minute, err := cfg.DailyTime()
	require.NoError(t, err)
	assert.Equal(t, 21, hour)
	assert.Equal(t, 0, minute)

	assert.Error(t, cfg.RequireToken())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CSV_PATH", "/data/events.csv")
	t.Setenv("TZ", "UTC")
	t.Setenv("DAILY_SUMMARY_AT", "07:30")
	t.Setenv("SUBSCRIBERS_BACKEND", "sqlite")
	t.Setenv("SKIP_TELEGRAM", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, "/data/events.csv", cfg.Storage.EventsPath)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, SubscribersSQLite, cfg.Storage.SubscribersBackend)
	assert.True(t, cfg.SkipTelegram)
	assert.NoError(t, cfg.RequireToken())

	hour, minute, err := cfg.DailyTime()
	require.NoError(t, err)
	assert.Equal(t, 7, hour)
	assert.Equal(t, 30, minute)
}

func TestGeminiKeySelectsGemini(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Gemini.Model)
}

func TestExplicitProviderWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "a-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
}

func TestYAMLFileWithEnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sati.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bot_token: from-file
timezone: Europe/Berlin
daily_summary_at: "22:15"
admin_addr: ":8081"
storage:
  events_path: file-events.csv
llm:
  provider: openai
  openai:
    api_key: o-key
    model: gpt-4o
`), 0o644))
	t.Setenv("SATI_CONFIG", path)
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.BotToken)
	assert.Equal(t, "file-events.csv", cfg.Storage.EventsPath)
	assert.Equal(t, "meditations.csv", cfg.Storage.MeditationsPath, "defaults survive a partial file")
	assert.Equal(t, "Europe/Berlin", cfg.Location.String())
	assert.Equal(t, "127.0.0.1:8081", cfg.AdminAddr, "host-less address binds to loopback")
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.OpenAI.Model)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"timezone":    {"TZ", "Mars/Olympus"},
		"daily time":  {"DAILY_SUMMARY_AT", "9pm"},
		"backend":     {"SUBSCRIBERS_BACKEND", "redis"},
		"provider":    {"LLM_PROVIDER", "llama"},
		"missing key": {"LLM_PROVIDER", "openai"},
		"admin addr":  {"ADMIN_ADDR", "8081"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestAdminAddrDefaultsToLoopback(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: ":8081", want: "127.0.0.1:8081"},
		{in: "127.0.0.1:9000", want: "127.0.0.1:9000"},
		{in: "0.0.0.0:8081", want: "0.0.0.0:8081"},
		{in: "[::1]:8081", want: "[::1]:8081"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("ADMIN_ADDR", tt.in)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.AdminAddr)
		})
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SATI_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
