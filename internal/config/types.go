package config

// Config is the full application configuration. It decodes strictly
// (unknown fields are errors) from JSON, or from YAML coerced to JSON.
//
// All duration fields are Go duration strings (e.g. "20s", "30m").
type Config struct {
	// Shop is the display name used in notification headers.
	Shop string `json:"shop"`

	Telegram TelegramConfig `json:"telegram"`
	WB       WBConfig       `json:"wb"`
	Poll     PollConfig     `json:"poll"`
	Summary  SummaryConfig  `json:"summary"`
	Storage  StorageConfig  `json:"storage"`
	Logging  LoggingConfig  `json:"logging"`
	Ops      OpsConfig      `json:"ops,omitempty"`
}

type TelegramConfig struct {
	Token    string `json:"token"`
	ChatID   int64  `json:"chat_id"`
	ThreadID int    `json:"thread_id,omitempty"`
	// RatePerSec bounds outgoing sends; 0 means 1/s.
	RatePerSec int `json:"rate_per_sec,omitempty"`
}

// WBConfig holds the per-API tokens. Base URLs are overridable for tests
// and staging; empty means production.
type WBConfig struct {
	MarketplaceToken string `json:"marketplace_token"`
	StatisticsToken  string `json:"statistics_token"`
	FeedbacksToken   string `json:"feedbacks_token"`
	ContentToken     string `json:"content_token,omitempty"`

	MarketplaceBase string `json:"marketplace_base,omitempty"`
	StatisticsBase  string `json:"statistics_base,omitempty"`
	FeedbacksBase   string `json:"feedbacks_base,omitempty"`
	ContentBase     string `json:"content_base,omitempty"`

	// Timeout bounds each upstream HTTP call. Default "25s".
	Timeout string `json:"timeout,omitempty"`
}

// PollConfig sets per-source poll intervals. An empty interval disables
// that source.
type PollConfig struct {
	Orders    string `json:"orders,omitempty"`
	Sales     string `json:"sales,omitempty"`
	Feedbacks string `json:"feedbacks,omitempty"`
	Questions string `json:"questions,omitempty"`
	Stocks    string `json:"stocks,omitempty"`

	// StockThreshold triggers the low-stock alert at or below this
	// quantity. Default 3.
	StockThreshold int `json:"stock_threshold,omitempty"`

	// TitleTTL caps catalog title cache staleness. Default "1h".
	TitleTTL string `json:"title_ttl,omitempty"`
}

type SummaryConfig struct {
	Enabled  bool   `json:"enabled"`
	At       string `json:"at,omitempty"`       // "HH:MM", default "23:55"
	Timezone string `json:"timezone,omitempty"` // default "Europe/Moscow"
}

type StorageConfig struct {
	Driver      string `json:"driver,omitempty"` // "sqlite" (default) or "memory"
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"`
	// Retention drops sent-event rows older than this age; empty disables.
	Retention string `json:"retention,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level,omitempty"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file,omitempty"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

type OpsConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"` // default "127.0.0.1:8080"
}

// Default returns the baseline configuration before file overrides.
func Default() Config {
	return Config{
		Shop: "My Shop",
		Poll: PollConfig{
			Orders:         "20s",
			Sales:          "30m",
			Feedbacks:      "1m",
			Questions:      "2m",
			Stocks:         "1h",
			StockThreshold: 3,
			TitleTTL:       "1h",
		},
		Summary: SummaryConfig{
			Enabled:  true,
			At:       "23:55",
			Timezone: "Europe/Moscow",
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "./shopwatch.sqlite",
		},
		Logging: LoggingConfig{
			Level:   "INFO",
			Console: true,
		},
	}
}
