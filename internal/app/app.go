// Package app wires the config, store, sink, poll runners, daily summary
// and ops server into one process.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"shopwatch/internal/config"
	"shopwatch/internal/notify"
	"shopwatch/internal/ops"
	"shopwatch/internal/poll"
	"shopwatch/internal/runtime/supervisor"
	"shopwatch/internal/store"
	"shopwatch/internal/summary"
	logx "shopwatch/pkg/logx"
)

type App struct {
	cfgMgr *config.Manager
	logSvc *logx.Service
	log    logx.Logger

	store   store.Store
	sink    notify.Sink
	runners []*poll.Runner
	primed  []*poll.Runner
	summary *summary.Service
	ops     *ops.Server

	sup *supervisor.Supervisor
}

func New(cfgPath string) (*App, error) {
	boot := logx.NewConsole("INFO")
	mgr, err := config.NewManager(cfgPath, boot)
	if err != nil {
		return nil, err
	}
	cfg := mgr.Current()

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
	})

	a := &App{cfgMgr: mgr, logSvc: logSvc, log: log}
	if err := a.build(cfg); err != nil {
		logSvc.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx, supervisor.WithLogger(a.log.With(logx.String("comp", "supervisor"))))

	// Silent prime for sources whose API only serves "latest" pages.
	// Prime failures are not fatal: the source starts cold and the first
	// tick may replay some backlog, which beats not starting at all.
	for _, r := range a.primed {
		if err := r.Prime(ctx); err != nil {
			a.log.Warn("prime failed", logx.String("source", r.Name()), logx.Err(err))
		}
	}

	a.greet(ctx)

	for _, r := range a.runners {
		runner := r
		a.sup.GoRestart("poll."+runner.Name(), runner.Run)
	}

	if a.summary != nil {
		if err := a.summary.Start(a.sup.Context()); err != nil {
			return fmt.Errorf("summary start: %w", err)
		}
	}

	a.ops.Start(ops.Config{
		Enabled: a.cfgMgr.Current().Ops.Enabled,
		Addr:    a.cfgMgr.Current().Ops.Addr,
	})

	a.sup.Go("config.watch", func(ctx context.Context) error {
		err := a.cfgMgr.Watch(ctx, a.onConfigChange)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	a.log.Info("started", logx.Int("sources", len(a.runners)))
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	if a.sup != nil {
		a.sup.Cancel()
	}
	if a.summary != nil {
		a.summary.Stop(ctx)
	}
	a.ops.Stop(ctx)

	if a.sup != nil {
		wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.sup.Wait(wctx); err != nil && wctx.Err() == nil {
			a.log.Warn("shutdown with error", logx.Err(err))
		}
	}

	if a.store != nil {
		_ = a.store.Close()
	}
	a.log.Info("stopped")
	return a.logSvc.Close()
}

// greet sends the one-time startup message, guarded like any other event
// so restarts stay silent.
func (a *App) greet(ctx context.Context) {
	const key = "hello:started"
	seen, err := a.store.WasNotified(ctx, key)
	if err != nil || seen {
		return
	}
	if err := a.sink.Send(ctx, "✅ shopwatch is up. Watching orders, sales and reviews."); err != nil {
		a.log.Warn("greeting send failed", logx.Err(err))
		return
	}
	_ = a.store.MarkNotified(ctx, key)
}

// onConfigChange applies what can change at runtime (logging); everything
// else requires a restart and is only reported.
func (a *App) onConfigChange(old, cur config.Config) {
	if old.Logging != cur.Logging {
		a.logSvc.Apply(logx.Config{
			Level:   cur.Logging.Level,
			Console: cur.Logging.Console,
			File:    logx.FileConfig{Enabled: cur.Logging.File.Enabled, Path: cur.Logging.File.Path},
		})
		a.log.Info("logging config applied")
	}
	if old.Poll != cur.Poll || old.Telegram != cur.Telegram || old.WB != cur.WB ||
		old.Storage != cur.Storage || old.Summary != cur.Summary || old.Ops != cur.Ops {
		a.log.Warn("config changed; restart required for non-logging sections")
	}
}
