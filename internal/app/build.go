package app

import (
	"fmt"
	"strings"
	"time"

	"shopwatch/internal/catalog"
	"shopwatch/internal/config"
	"shopwatch/internal/notify"
	"shopwatch/internal/ops"
	"shopwatch/internal/poll"
	"shopwatch/internal/sources"
	"shopwatch/internal/store"
	"shopwatch/internal/summary"
	"shopwatch/internal/wb"
	logx "shopwatch/pkg/logx"
)

func (a *App) build(cfg config.Config) error {
	busy, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return err
	}
	retention, err := config.ParseDurationField("storage.retention", cfg.Storage.Retention)
	if err != nil {
		return err
	}
	st, err := store.Open(store.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
		Retention:   retention,
	}, a.log.With(logx.String("comp", "store")))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.store = st

	tg, err := notify.NewTelegram(notify.TelegramConfig{
		Token:      cfg.Telegram.Token,
		ChatID:     cfg.Telegram.ChatID,
		ThreadID:   cfg.Telegram.ThreadID,
		RatePerSec: cfg.Telegram.RatePerSec,
	}, a.log.With(logx.String("comp", "telegram")))
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	a.sink = tg

	timeout, err := config.ParseDurationOrDefault("wb.timeout", cfg.WB.Timeout, 25*time.Second)
	if err != nil {
		return err
	}
	client := wb.NewClient(wb.Config{
		MarketplaceBase:  cfg.WB.MarketplaceBase,
		StatisticsBase:   cfg.WB.StatisticsBase,
		FeedbacksBase:    cfg.WB.FeedbacksBase,
		ContentBase:      cfg.WB.ContentBase,
		MarketplaceToken: cfg.WB.MarketplaceToken,
		StatisticsToken:  cfg.WB.StatisticsToken,
		FeedbacksToken:   cfg.WB.FeedbacksToken,
		ContentToken:     cfg.WB.ContentToken,
		Timeout:          timeout,
	}, a.log.With(logx.String("comp", "wb")))

	titles := sources.NoTitles
	if strings.TrimSpace(cfg.WB.ContentToken) != "" {
		ttl, err := config.ParseDurationOrDefault("poll.title_ttl", cfg.Poll.TitleTTL, time.Hour)
		if err != nil {
			return err
		}
		titles = catalog.New(client.CardTitle, ttl, a.log.With(logx.String("comp", "catalog")))
	}

	if err := a.buildRunners(cfg, client, titles); err != nil {
		return err
	}

	if cfg.Summary.Enabled {
		if strings.TrimSpace(cfg.WB.StatisticsToken) == "" {
			a.log.Warn("summary enabled without wb.statistics_token; disabling")
		} else {
			sum, err := summary.New(summary.Config{
				At:       cfg.Summary.At,
				Timezone: cfg.Summary.Timezone,
				Shop:     cfg.Shop,
			}, client, a.store, a.sink, a.log)
			if err != nil {
				return err
			}
			a.summary = sum
		}
	}

	trigger := make([]ops.Triggerable, 0, len(a.runners))
	for _, r := range a.runners {
		trigger = append(trigger, r)
	}
	var sumRunner ops.SummaryRunner
	if a.summary != nil {
		sumRunner = a.summary
	}
	a.ops = ops.NewServer(a.log, trigger, sumRunner)
	return nil
}

// buildRunners instantiates one poll runner per configured source. A
// source is skipped when its interval is empty or its API token is
// missing; each skip is logged once at startup instead of failing on
// every tick forever.
func (a *App) buildRunners(cfg config.Config, client *wb.Client, titles sources.TitleResolver) error {
	opts := func(interval time.Duration) poll.Options {
		return poll.Options{
			Interval:    interval,
			IsTransient: wb.IsTransient,
			Signature:   wb.ErrorSignature,
		}
	}
	add := func(name, rawInterval, token string, build func() poll.Source, prime bool) error {
		if strings.TrimSpace(rawInterval) == "" {
			a.log.Info("source disabled (no interval)", logx.String("source", name))
			return nil
		}
		if strings.TrimSpace(token) == "" {
			a.log.Warn("source disabled (missing token)", logx.String("source", name))
			return nil
		}
		interval, err := config.ParseDurationField("poll."+name, rawInterval)
		if err != nil {
			return err
		}
		r := poll.NewRunner(build(), a.store, a.sink, a.log, opts(interval))
		a.runners = append(a.runners, r)
		if prime {
			a.primed = append(a.primed, r)
		}
		return nil
	}

	shop := cfg.Shop
	if err := add("orders", cfg.Poll.Orders, cfg.WB.MarketplaceToken, func() poll.Source {
		return sources.NewOrders(client, titles, shop)
	}, false); err != nil {
		return err
	}
	if err := add("sales", cfg.Poll.Sales, cfg.WB.StatisticsToken, func() poll.Source {
		return sources.NewSales(client, titles, shop)
	}, false); err != nil {
		return err
	}
	if err := add("feedbacks", cfg.Poll.Feedbacks, cfg.WB.FeedbacksToken, func() poll.Source {
		return sources.NewFeedbacks(client, shop)
	}, true); err != nil {
		return err
	}
	if err := add("questions", cfg.Poll.Questions, cfg.WB.FeedbacksToken, func() poll.Source {
		return sources.NewQuestions(client, shop)
	}, true); err != nil {
		return err
	}
	if err := add("stocks", cfg.Poll.Stocks, cfg.WB.StatisticsToken, func() poll.Source {
		return sources.NewStocks(client, titles, shop, cfg.Poll.StockThreshold)
	}, false); err != nil {
		return err
	}
	return nil
}
