package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	logx "shopwatch/pkg/logx"
)

func TestTitleForCachesHits(t *testing.T) {
	t.Parallel()
	var calls atomic.Int64
	c := New(func(_ context.Context, nmID int64) (string, error) {
		calls.Add(1)
		return "Blue Mug", nil
	}, time.Hour, logx.Nop())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if got := c.TitleFor(ctx, 111); got != "Blue Mug" {
			t.Fatalf("TitleFor = %q", got)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("lookup called %d times, want 1", n)
	}
}

func TestTitleForCachesMissesAndFailures(t *testing.T) {
	t.Parallel()
	var calls atomic.Int64
	c := New(func(_ context.Context, nmID int64) (string, error) {
		calls.Add(1)
		if nmID == 222 {
			return "", errors.New("http 500")
		}
		return "", nil // not found
	}, time.Hour, logx.Nop())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if got := c.TitleFor(ctx, 222); got != "" {
			t.Fatalf("failed lookup returned %q", got)
		}
		if got := c.TitleFor(ctx, 333); got != "" {
			t.Fatalf("miss returned %q", got)
		}
	}
	// One call per key: both the failure and the miss are cached.
	if n := calls.Load(); n != 2 {
		t.Fatalf("lookup called %d times, want 2", n)
	}
}

func TestTitleForZeroID(t *testing.T) {
	t.Parallel()
	c := New(func(context.Context, int64) (string, error) {
		t.Fatal("lookup must not run for nmID 0")
		return "", nil
	}, time.Hour, logx.Nop())

	if got := c.TitleFor(context.Background(), 0); got != "" {
		t.Fatalf("TitleFor(0) = %q", got)
	}
}
