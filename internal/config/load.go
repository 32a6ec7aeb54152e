package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Load reads and validates the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	j, err := coerceToJSONBytes(path, data)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(j))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required fields and that every parseable field parses.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("telegram.token is required")
	}
	if c.Telegram.ChatID == 0 {
		return errors.New("telegram.chat_id is required")
	}
	if strings.TrimSpace(c.Storage.Path) == "" && !strings.EqualFold(c.Storage.Driver, "memory") {
		return errors.New("storage.path is required")
	}

	durations := []struct{ path, raw string }{
		{"wb.timeout", c.WB.Timeout},
		{"poll.orders", c.Poll.Orders},
		{"poll.sales", c.Poll.Sales},
		{"poll.feedbacks", c.Poll.Feedbacks},
		{"poll.questions", c.Poll.Questions},
		{"poll.stocks", c.Poll.Stocks},
		{"poll.title_ttl", c.Poll.TitleTTL},
		{"storage.busy_timeout", c.Storage.BusyTimeout},
		{"storage.retention", c.Storage.Retention},
	}
	for _, d := range durations {
		if _, err := ParseDurationField(d.path, d.raw); err != nil {
			return err
		}
	}

	if c.Summary.Enabled {
		at := strings.TrimSpace(c.Summary.At)
		parts := strings.Split(at, ":")
		if len(parts) != 2 {
			return fmt.Errorf("summary.at: invalid time %q, expected HH:MM", c.Summary.At)
		}
	}
	return nil
}
