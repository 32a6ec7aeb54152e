package wb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	logx "shopwatch/pkg/logx"
)

const defaultTimeout = 25 * time.Second

// bodyLimit caps how much of an error response is kept for logging.
const bodyLimit = 2048

type Config struct {
	MarketplaceBase string
	StatisticsBase  string
	FeedbacksBase   string
	ContentBase     string

	MarketplaceToken string
	StatisticsToken  string
	FeedbacksToken   string
	ContentToken     string

	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MarketplaceBase == "" {
		c.MarketplaceBase = "https://marketplace-api.wildberries.ru"
	}
	if c.StatisticsBase == "" {
		c.StatisticsBase = "https://statistics-api.wildberries.ru"
	}
	if c.FeedbacksBase == "" {
		c.FeedbacksBase = "https://feedbacks-api.wildberries.ru"
	}
	if c.ContentBase == "" {
		c.ContentBase = "https://content-api.wildberries.ru"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

type Client struct {
	cfg  Config
	http *http.Client
	log  logx.Logger
}

func NewClient(cfg Config, log logx.Logger) *Client {
	cfg = cfg.withDefaults()
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

func (c *Client) getJSON(ctx context.Context, base, path, token string, q url.Values, out any) error {
	u := strings.TrimRight(base, "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &APIError{Path: path, cause: err}
	}
	req.Header.Set("Authorization", token)
	return c.do(req, path, out)
}

func (c *Client) postJSON(ctx context.Context, base, path, token string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return &APIError{Path: path, cause: err}
	}
	u := strings.TrimRight(base, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return &APIError{Path: path, cause: err}
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Path: path, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, bodyLimit))
		return &APIError{Status: resp.StatusCode, Path: path, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Status: resp.StatusCode, Path: path, Body: "malformed response: " + err.Error()}
	}
	return nil
}
