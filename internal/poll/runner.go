package poll

import (
	"context"
	"fmt"
	"time"

	"shopwatch/internal/notify"
	"shopwatch/internal/store"
	logx "shopwatch/pkg/logx"
)

// Options configures one Runner.
type Options struct {
	Interval time.Duration

	// IsTransient classifies fetch errors. Transient errors are swallowed
	// and retried next tick; everything else is reported to the sink once
	// per distinct Signature.
	IsTransient func(error) bool
	Signature   func(error) string
}

// Runner drives one source: fetch, filter through the store, send novel
// events, mark them, advance the cursor. A tick that cannot read or write
// the store aborts before sending anything, so an event is never sent
// without the ability to record it.
type Runner struct {
	src   Source
	store store.Store
	sink  notify.Sink
	log   logx.Logger
	opts  Options
}

func NewRunner(src Source, st store.Store, sink notify.Sink, log logx.Logger, opts Options) *Runner {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.IsTransient == nil {
		opts.IsTransient = func(error) bool { return false }
	}
	if opts.Signature == nil {
		opts.Signature = func(err error) string { return err.Error() }
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Runner{
		src:   src,
		store: st,
		sink:  sink,
		log:   log.With(logx.String("source", src.Name())),
		opts:  opts,
	}
}

func (r *Runner) Name() string { return r.src.Name() }

// Run ticks immediately, then on every interval until ctx is canceled.
// Tick failures are contained here: they are logged and retried on the
// next cycle, never propagated across sources.
func (r *Runner) Run(ctx context.Context) error {
	t := time.NewTicker(r.opts.Interval)
	defer t.Stop()
	for {
		if err := r.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.log.Warn("tick aborted", logx.Err(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Tick runs one poll cycle. The returned error means the cycle aborted
// early (store unavailable); upstream fetch errors are handled internally.
func (r *Runner) Tick(ctx context.Context) error {
	tickTotal.WithLabelValues(r.src.Name()).Inc()

	cursor, cs, err := r.loadCursor(ctx)
	if err != nil {
		return fmt.Errorf("cursor read: %w", err)
	}

	events, err := r.src.Fetch(ctx, cursor)
	if err != nil {
		if r.opts.IsTransient(err) {
			fetchErrors.WithLabelValues(r.src.Name(), "transient").Inc()
			r.log.Debug("transient fetch error", logx.Err(err))
			return nil
		}
		fetchErrors.WithLabelValues(r.src.Name(), "persistent").Inc()
		return r.reportPersistent(ctx, err)
	}

	maxTS := cursor
	for _, ev := range events {
		if ev.Key == "" {
			continue
		}
		seen, err := r.store.WasNotified(ctx, ev.Key)
		if err != nil {
			return fmt.Errorf("dedup read: %w", err)
		}
		switch {
		case seen:
			duplicatesSkipped.WithLabelValues(r.src.Name()).Inc()
		default:
			if err := r.sink.Send(ctx, ev.Text); err != nil {
				// Leave the event unmarked so the next tick retries it.
				sendFailures.WithLabelValues(r.src.Name()).Inc()
				r.log.Warn("send failed, event will retry", logx.String("key", ev.Key), logx.Err(err))
				continue
			}
			if err := r.store.MarkNotified(ctx, ev.Key); err != nil {
				return fmt.Errorf("mark %s: %w", ev.Key, err)
			}
			eventsSent.WithLabelValues(r.src.Name()).Inc()
		}
		// Record timestamps are ISO-8601, so lexicographic max is the
		// chronological max.
		if cs != nil && ev.TS > maxTS {
			maxTS = ev.TS
		}
	}

	if cs != nil && len(events) > 0 && maxTS != cursor {
		if err := r.store.SetCursor(ctx, cs.CursorName(), maxTS); err != nil {
			return fmt.Errorf("cursor write: %w", err)
		}
	}
	return nil
}

// Prime fetches the current latest batch and marks every record as
// notified without sending. Trades a possible miss in the prime-to-poll
// gap for never replaying history after a restart.
func (r *Runner) Prime(ctx context.Context) error {
	cursor, cs, err := r.loadCursor(ctx)
	if err != nil {
		return fmt.Errorf("cursor read: %w", err)
	}
	events, err := r.src.Fetch(ctx, cursor)
	if err != nil {
		return fmt.Errorf("prime fetch: %w", err)
	}
	maxTS := cursor
	for _, ev := range events {
		if ev.Key == "" {
			continue
		}
		if err := r.store.MarkNotified(ctx, ev.Key); err != nil {
			return fmt.Errorf("prime mark %s: %w", ev.Key, err)
		}
		if cs != nil && ev.TS > maxTS {
			maxTS = ev.TS
		}
	}
	if cs != nil && len(events) > 0 && maxTS != cursor {
		if err := r.store.SetCursor(ctx, cs.CursorName(), maxTS); err != nil {
			return fmt.Errorf("cursor write: %w", err)
		}
	}
	r.log.Info("primed", logx.Int("records", len(events)))
	return nil
}

func (r *Runner) loadCursor(ctx context.Context) (string, CursorSpec, error) {
	cs, ok := r.src.(CursorSpec)
	if !ok {
		return "", nil, nil
	}
	cursor, err := r.store.GetCursor(ctx, cs.CursorName(), cs.DefaultCursor(time.Now()))
	if err != nil {
		return "", nil, err
	}
	return cursor, cs, nil
}

// reportPersistent surfaces an unexpected upstream failure to the sink at
// most once per distinct error signature, keyed through the same store as
// regular events.
func (r *Runner) reportPersistent(ctx context.Context, cause error) error {
	key := "err:" + r.src.Name() + ":" + r.opts.Signature(cause)
	seen, err := r.store.WasNotified(ctx, key)
	if err != nil {
		return fmt.Errorf("error-dedup read: %w", err)
	}
	if seen {
		r.log.Debug("persistent fetch error (already reported)", logx.Err(cause))
		return nil
	}
	r.log.Error("persistent fetch error", logx.Err(cause))
	msg := fmt.Sprintf("⚠️ %s polling failed: %v", r.src.Name(), cause)
	if err := r.sink.Send(ctx, msg); err != nil {
		// Unreported; retried next tick through the same path.
		return nil
	}
	if err := r.store.MarkNotified(ctx, key); err != nil {
		return fmt.Errorf("error-dedup mark: %w", err)
	}
	return nil
}
