// Package notify delivers rendered event messages to the operator chat.
package notify

import "context"

// Sink is the single delivery channel for event notifications. Callers
// only record an event as notified after Send returns nil.
type Sink interface {
	Send(ctx context.Context, text string) error
}

// Func adapts a function to the Sink interface.
type Func func(ctx context.Context, text string) error

func (f Func) Send(ctx context.Context, text string) error { return f(ctx, text) }
