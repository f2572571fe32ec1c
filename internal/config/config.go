package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/glebk/sati-bot/internal/llm"
)

// Subscriber registry backends.
const (
	SubscribersJSON   = "json"
	SubscribersSQLite = "sqlite"
)

// Config holds application configuration
type Config struct {
	BotToken       string        `yaml:"bot_token"`
	Storage        StorageConfig `yaml:"storage"`
	Timezone       string        `yaml:"timezone"`
	DailySummaryAt string        `yaml:"daily_summary_at"`
	LLM            llm.Config    `yaml:"llm"`
	AdminAddr      string        `yaml:"admin_addr"`
	LogLevel       string        `yaml:"log_level"`
	SkipTelegram   bool          `yaml:"skip_telegram"`

	// Location is resolved from Timezone by Load.
	Location *time.Location `yaml:"-"`
}

// StorageConfig holds the paths of the backing files.
type StorageConfig struct {
	EventsPath         string `yaml:"events_path"`
	MeditationsPath    string `yaml:"meditations_path"`
	SubscribersPath    string `yaml:"subscribers_path"`
	ReflectionsPath    string `yaml:"reflections_path"`
	SubscribersBackend string `yaml:"subscribers_backend"`
	SubscribersDBPath  string `yaml:"subscribers_db_path"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			EventsPath:         "sati_logs.csv",
			MeditationsPath:    "meditations.csv",
			SubscribersPath:    "subscribers.json",
			ReflectionsPath:    "reflections.txt",
			SubscribersBackend: SubscribersJSON,
			SubscribersDBPath:  "subscribers.db",
		},
		Timezone:       "Asia/Bangkok",
		DailySummaryAt: "21:00",
		LLM:            llm.DefaultConfig(),
		LogLevel:       "info",
	}
}

// Load builds the configuration from defaults, the YAML file named by
// SATI_CONFIG (if any) and environment variables, in that order of
// precedence from lowest to highest. A .env file in the working directory is
// read into the environment first.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("SATI_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	setString("BOT_TOKEN", &c.BotToken)
	setString("CSV_PATH", &c.Storage.EventsPath)
	setString("MEDITATION_CSV_PATH", &c.Storage.MeditationsPath)
	setString("SUBS_PATH", &c.Storage.SubscribersPath)
	setString("REFLECTIONS_PATH", &c.Storage.ReflectionsPath)
	setString("SUBSCRIBERS_BACKEND", &c.Storage.SubscribersBackend)
	setString("SUBSCRIBERS_DB_PATH", &c.Storage.SubscribersDBPath)
	setString("TZ", &c.Timezone)
	setString("DAILY_SUMMARY_AT", &c.DailySummaryAt)
	setString("ADMIN_ADDR", &c.AdminAddr)
	setString("LOG_LEVEL", &c.LogLevel)

	setString("LLM_PROVIDER", &c.LLM.Provider)
	setString("GEMINI_API_KEY", &c.LLM.Gemini.APIKey)
	setString("GEMINI_MODEL", &c.LLM.Gemini.Model)
	setString("OPENAI_API_KEY", &c.LLM.OpenAI.APIKey)
	setString("OPENAI_MODEL", &c.LLM.OpenAI.Model)
	setString("OPENAI_BASE_URL", &c.LLM.OpenAI.BaseURL)
	setString("ANTHROPIC_API_KEY", &c.LLM.Anthropic.APIKey)
	setString("ANTHROPIC_MODEL", &c.LLM.Anthropic.Model)

	if v := os.Getenv("SKIP_TELEGRAM"); v != "" {
		c.SkipTelegram = true
	}
}

// finalize fills derived fields and validates.
func (c *Config) finalize() error {
	c.LLM.Provider = strings.ToLower(c.LLM.Provider)
	// Gemini is used whenever its key is present and nothing else was chosen.
	if c.LLM.Provider == llm.ProviderNone && c.LLM.Gemini.APIKey != "" {
		c.LLM.Provider = llm.ProviderGemini
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.Location = loc

	if c.AdminAddr != "" {
		addr, err := loopbackDefault(c.AdminAddr)
		if err != nil {
			return err
		}
		c.AdminAddr = addr
	}

	return c.Validate()
}

// loopbackDefault binds a host-less address such as ":8081" to 127.0.0.1.
// The admin server has no authentication, so exposing it on every interface
// needs an explicit host like "0.0.0.0:8081".
func loopbackDefault(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid admin address %q: %w", addr, err)
	}
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port), nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if _, _, err := c.DailyTime(); err != nil {
		return err
	}

	switch c.Storage.SubscribersBackend {
	case SubscribersJSON, SubscribersSQLite:
	default:
		return fmt.Errorf("invalid subscribers backend: %q (valid: %s, %s)",
			c.Storage.SubscribersBackend, SubscribersJSON, SubscribersSQLite)
	}

	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("invalid llm config: %w", err)
	}
	return nil
}

// DailyTime parses DailySummaryAt as a wall-clock HH:MM.
func (c *Config) DailyTime() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.DailySummaryAt)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid daily summary time %q, want HH:MM: %w", c.DailySummaryAt, err)
	}
	return t.Hour(), t.Minute(), nil
}

// RequireToken reports an error when the bot has to talk to Telegram but no
// token is set.
func (c *Config) RequireToken() error {
	if c.SkipTelegram || c.BotToken != "" {
		return nil
	}
	return fmt.Errorf("BOT_TOKEN is not set")
}
