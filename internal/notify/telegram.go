package notify

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	logx "shopwatch/pkg/logx"
)

const telegramTextLimit = 4000

type TelegramConfig struct {
	Token    string
	ChatID   int64
	ThreadID int

	// RatePerSec bounds outgoing sends (Telegram flood control).
	// Defaults to 1 message per second, which is safe for a single chat.
	RatePerSec int
}

// Telegram sends messages to one chat (optionally a forum thread).
// The bot is send-only; it never polls for updates.
type Telegram struct {
	bot      *tele.Bot
	chat     *tele.Chat
	threadID int
	limiter  *rate.Limiter
	log      logx.Logger
}

func NewTelegram(cfg TelegramConfig, log logx.Logger) (*Telegram, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat_id is empty")
	}
	b, err := tele.NewBot(tele.Settings{Token: cfg.Token})
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	return &Telegram{
		bot:      b,
		chat:     &tele.Chat{ID: cfg.ChatID},
		threadID: cfg.ThreadID,
		limiter:  rate.NewLimiter(rate.Limit(rps), rps),
		log:      log,
	}, nil
}

func (t *Telegram) Send(ctx context.Context, text string) error {
	chunks := splitText(text, telegramTextLimit)
	for _, chunk := range chunks {
		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}
		opt := &tele.SendOptions{
			DisableWebPagePreview: true,
			ThreadID:              t.threadID,
		}
		if _, err := t.bot.Send(t.chat, chunk, opt); err != nil {
			t.log.Warn("telegram send failed", logx.Err(err))
			return err
		}
	}
	return nil
}

// splitText splits long messages into chunks that fit Telegram's message
// size limit, preferring newline boundaries.
func splitText(s string, limit int) []string {
	if limit <= 0 {
		limit = telegramTextLimit
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return []string{s}
	}

	out := make([]string, 0, (len(rs)+limit-1)/limit)
	start := 0
	for start < len(rs) {
		end := start + limit
		if end > len(rs) {
			end = len(rs)
		}

		// Prefer splitting on a newline near the end of the window,
		// but avoid producing tiny chunks.
		if end < len(rs) {
			for i := end - 1; i > start; i-- {
				if rs[i] == '\n' && i-start >= limit/3 {
					end = i + 1
					break
				}
			}
		}

		chunk := strings.TrimRight(string(rs[start:end]), "\n")
		out = append(out, chunk)

		start = end
		for start < len(rs) && rs[start] == '\n' {
			start++
		}
	}
	return out
}

var _ Sink = (*Telegram)(nil)
