// Package summary sends one aggregated sales rollup per calendar day.
//
// The trigger is a fine-grained cron tick: every minute the service checks
// whether the configured time of day has passed and whether the day's
// guard key is already marked. This makes the trigger robust to restarts
// near the configured time and retries a failed send a minute later.
package summary

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"shopwatch/internal/notify"
	"shopwatch/internal/store"
	"shopwatch/internal/wb"
	logx "shopwatch/pkg/logx"
)

type Config struct {
	At       string // "HH:MM" in Timezone
	Timezone string // IANA name, default Europe/Moscow
	Shop     string
}

type salesAPI interface {
	Sales(ctx context.Context, dateFrom string) ([]wb.Sale, error)
}

type Service struct {
	cfg   Config
	api   salesAPI
	store store.Store
	sink  notify.Sink
	log   logx.Logger

	loc          *time.Location
	hour, minute int
	c            *cron.Cron
	now          func() time.Time
}

func New(cfg Config, api salesAPI, st store.Store, sink notify.Sink, log logx.Logger) (*Service, error) {
	h, m, err := parseHHMM(cfg.At)
	if err != nil {
		return nil, err
	}
	tz := strings.TrimSpace(cfg.Timezone)
	if tz == "" {
		tz = "Europe/Moscow"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("summary timezone: %w", err)
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		cfg:    cfg,
		api:    api,
		store:  st,
		sink:   sink,
		log:    log.With(logx.String("comp", "summary")),
		loc:    loc,
		hour:   h,
		minute: m,
		now:    time.Now,
	}, nil
}

func (s *Service) Start(ctx context.Context) error {
	if s.c != nil {
		return nil
	}
	s.c = cron.New(cron.WithLocation(s.loc))
	_, err := s.c.AddFunc("* * * * *", func() {
		tctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		s.tick(tctx)
	})
	if err != nil {
		return err
	}
	s.c.Start()
	s.log.Info("daily summary scheduled", logx.String("at", s.cfg.At), logx.String("tz", s.loc.String()))
	return nil
}

func (s *Service) Stop(ctx context.Context) {
	if s.c == nil {
		return
	}
	select {
	case <-s.c.Stop().Done():
	case <-ctx.Done():
	}
	s.c = nil
}

func (s *Service) tick(ctx context.Context) {
	now := s.now().In(s.loc)
	trigger := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
	if now.Before(trigger) {
		return
	}
	if err := s.RunOnce(ctx, now); err != nil {
		s.log.Warn("summary run failed, retrying next minute", logx.Err(err))
	}
}

// RunOnce computes and sends the rollup for asOf's calendar date, guarded
// by the daily:<date> key. Already-marked dates are a silent no-op, which
// covers the restart-near-trigger duplicate risk.
func (s *Service) RunOnce(ctx context.Context, asOf time.Time) error {
	date := asOf.In(s.loc).Format("2006-01-02")
	guard := "daily:" + date

	sent, err := s.store.WasNotified(ctx, guard)
	if err != nil {
		return fmt.Errorf("guard read: %w", err)
	}
	if sent {
		return nil
	}

	sales, err := s.api.Sales(ctx, date+"T00:00:00")
	if err != nil {
		return fmt.Errorf("sales fetch: %w", err)
	}

	text := s.render(date, sales)
	if err := s.sink.Send(ctx, text); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if err := s.store.MarkNotified(ctx, guard); err != nil {
		return fmt.Errorf("guard mark: %w", err)
	}
	s.log.Info("daily summary sent", logx.String("date", date), logx.Int("records", len(sales)))
	return nil
}

func (s *Service) render(date string, sales []wb.Sale) string {
	var (
		saleCount, returnCount int
		saleSum, returnSum     decimal.Decimal
	)
	for _, sale := range sales {
		// The API serves everything changed since dateFrom; keep only
		// records that belong to the summary date.
		if !strings.HasPrefix(sale.Date, date) {
			continue
		}
		amount := decimal.NewFromFloat(sale.ForPay)
		if sale.IsReturn() {
			returnCount++
			returnSum = returnSum.Add(amount.Abs())
		} else {
			saleCount++
			saleSum = saleSum.Add(amount)
		}
	}
	net := saleSum.Sub(returnSum)

	day, err := time.Parse("2006-01-02", date)
	display := date
	if err == nil {
		display = day.Format("02.01.2006")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Daily summary · (%s) · %s\n", s.cfg.Shop, display)
	fmt.Fprintf(&b, "Sales: %d · %s\n", saleCount, rub(saleSum))
	fmt.Fprintf(&b, "Returns: %d · %s\n", returnCount, rub(returnSum))
	fmt.Fprintf(&b, "Net: %s", rub(net))
	return b.String()
}

func rub(d decimal.Decimal) string {
	d = d.Round(2)
	if d.IsInteger() {
		return d.StringFixed(0) + " ₽"
	}
	return d.StringFixed(2) + " ₽"
}

func parseHHMM(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}
