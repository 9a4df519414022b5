package config

import (
	"time"

	"portfolio-intelligence/pkg/config"
)

// Supabase holds the two values needed to reach the hosted table store.
// They map to SUPABASE_URL and SUPABASE_KEY.
type Supabase struct {
	URL    string `mapstructure:"url"`
	Key    string `mapstructure:"key"`
	Schema string `mapstructure:"schema"`
}

// Store selects the table store backend: "supabase", "postgres" or "sqlite".
type Store struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// Dedup configures the optional per-ticker per-day insert guard.
type Dedup struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Agent holds run behaviour.
type Agent struct {
	ExitOnFailure bool  `mapstructure:"exit_on_failure"`
	Dedup         Dedup `mapstructure:"dedup"`
}

// AI selects the intelligence generator: "stub", "rss" or "gemini".
type AI struct {
	Provider      string `mapstructure:"provider"`
	GroundWithRSS bool   `mapstructure:"ground_with_rss"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// RSS holds the configuration for the news feed source.
type RSS struct {
	BaseURL     string        `mapstructure:"base_url"`
	QueryParams string        `mapstructure:"query_params"`
	MaxItems    int           `mapstructure:"max_items"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Metrics holds the Prometheus Pushgateway target. Empty URL disables pushing.
type Metrics struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
}

// Config holds the full configuration for the daily agent.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Supabase Supabase        `mapstructure:"supabase"`
	Store    Store           `mapstructure:"store"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	Agent    Agent           `mapstructure:"agent"`
	AI       AI              `mapstructure:"ai"`
	Gemini   Gemini          `mapstructure:"gemini"`
	RSS      RSS             `mapstructure:"rss"`
	Telegram Telegram        `mapstructure:"telegram"`
	Metrics  Metrics         `mapstructure:"metrics"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.name":      "daily-agent",
		"app.env":       "production",
		"app.time_zone": "UTC",

		"logger.level":    "info",
		"logger.encoding": "json",

		"supabase.url":    "",
		"supabase.key":    "",
		"supabase.schema": "public",

		"store.driver":      "supabase",
		"store.sqlite_path": "daily-agent.db",

		"database.dsn":               "",
		"database.host":              "localhost",
		"database.port":              5432,
		"database.user":              "postgres",
		"database.password":          "",
		"database.name":              "postgres",
		"database.ssl_mode":          "require",
		"database.time_zone":         "UTC",
		"database.max_idle_conns":    2,
		"database.max_open_conns":    4,
		"database.conn_max_lifetime": "5m",
		"database.log_level":         "warn",

		"redis.host":      "localhost",
		"redis.port":      6379,
		"redis.password":  "",
		"redis.db":        0,
		"redis.pool_size": 4,

		"agent.exit_on_failure": false,
		"agent.dedup.enabled":   false,
		"agent.dedup.ttl":       "48h",

		"ai.provider":        "stub",
		"ai.ground_with_rss": false,

		"gemini.api_key":                "",
		"gemini.model":                  "gemini-2.0-flash",
		"gemini.max_request_per_minute": 10,
		"gemini.timeout":                "60s",

		"rss.base_url":     "https://news.google.com/rss/search",
		"rss.query_params": "hl=en-US&gl=US&ceid=US:en",
		"rss.max_items":    5,
		"rss.timeout":      "20s",
		"rss.cache_ttl":    "5m",

		"telegram.enabled":   false,
		"telegram.bot_token": "",
		"telegram.chat_id":   0,

		"metrics.pushgateway_url": "",
	}
}

// Load loads the agent configuration from the given path and the environment.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, defaults()); err != nil {
		return nil, err
	}
	return &cfg, nil
}
