package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalYAML = `
telegram:
  token: "123:abc"
  chat_id: -100123
storage:
  path: "/tmp/test.sqlite"
`

func TestLoadYAMLAppliesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(writeConfig(t, "config.yaml", minimalYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" || cfg.Telegram.ChatID != -100123 {
		t.Fatalf("telegram = %+v", cfg.Telegram)
	}
	if cfg.Poll.Orders != "20s" || cfg.Poll.StockThreshold != 3 {
		t.Fatalf("poll defaults not applied: %+v", cfg.Poll)
	}
	if !cfg.Summary.Enabled || cfg.Summary.At != "23:55" || cfg.Summary.Timezone != "Europe/Moscow" {
		t.Fatalf("summary defaults not applied: %+v", cfg.Summary)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Fatalf("storage driver = %q", cfg.Storage.Driver)
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	t.Parallel()
	cfg, err := Load(writeConfig(t, "config.yaml", minimalYAML+`
poll:
  orders: "5s"
  sales: ""
summary:
  enabled: false
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Poll.Orders != "5s" {
		t.Fatalf("orders = %q", cfg.Poll.Orders)
	}
	if cfg.Poll.Sales != "" {
		t.Fatalf("sales = %q, want disabled", cfg.Poll.Sales)
	}
	if cfg.Summary.Enabled {
		t.Fatal("summary should be disabled")
	}
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	cfg, err := Load(writeConfig(t, "config.json", `{
  "telegram": {"token": "123:abc", "chat_id": 5},
  "storage": {"driver": "memory"}
}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("driver = %q", cfg.Storage.Driver)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	t.Parallel()
	_, err := Load(writeConfig(t, "config.yaml", minimalYAML+`
pol:
  orders: "5s"
`))
	if err == nil {
		t.Fatal("misspelled section accepted")
	}
	if !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("error = %v, want unknown-field decode error", err)
	}
}

func TestValidateFailures(t *testing.T) {
	t.Parallel()
	base := func() Config {
		cfg := Default()
		cfg.Telegram.Token = "123:abc"
		cfg.Telegram.ChatID = 5
		cfg.Storage.Path = "/tmp/x.sqlite"
		return cfg
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing token", func(c *Config) { c.Telegram.Token = " " }},
		{"missing chat id", func(c *Config) { c.Telegram.ChatID = 0 }},
		{"missing storage path", func(c *Config) { c.Storage.Path = "" }},
		{"bad poll interval", func(c *Config) { c.Poll.Orders = "soon" }},
		{"negative duration", func(c *Config) { c.Poll.Sales = "-1m" }},
		{"bad summary time", func(c *Config) { c.Summary.At = "23.55" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("invalid config accepted")
			}
		})
	}
}

func TestValidateMemoryDriverNeedsNoPath(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.ChatID = 5
	cfg.Storage.Driver = "memory"
	cfg.Storage.Path = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateSummaryTimeIgnoredWhenDisabled(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.ChatID = 5
	cfg.Storage.Path = "/tmp/x.sqlite"
	cfg.Summary.Enabled = false
	cfg.Summary.At = "not a time"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()
	d, err := ParseDurationField("poll.orders", " 20s ")
	if err != nil || d != 20*time.Second {
		t.Fatalf("got %v, %v", d, err)
	}
	if d, err := ParseDurationField("poll.orders", ""); err != nil || d != 0 {
		t.Fatalf("empty: %v, %v", d, err)
	}
	if _, err := ParseDurationField("poll.orders", "5"); err == nil {
		t.Fatal("unitless duration accepted")
	}
}

func TestParseDurationOrDefault(t *testing.T) {
	t.Parallel()
	d, err := ParseDurationOrDefault("wb.timeout", "", 25*time.Second)
	if err != nil || d != 25*time.Second {
		t.Fatalf("got %v, %v", d, err)
	}
	d, err = ParseDurationOrDefault("wb.timeout", "10s", 25*time.Second)
	if err != nil || d != 10*time.Second {
		t.Fatalf("got %v, %v", d, err)
	}
}
