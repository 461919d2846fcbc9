// Package notify delivers reminder notifications to the user. Each delivery
// channel is a Sink; platform-specific channels live in build-tagged files
// so callers never branch on the operating system.
package notify

import (
	"context"
	"errors"
)

// Kind distinguishes the advance warning from the notification at the
// due-time itself.
type Kind int

const (
	Advance Kind = iota
	Main
)

func (k Kind) String() string {
	switch k {
	case Advance:
		return "advance"
	case Main:
		return "main"
	default:
		return "unknown"
	}
}

// ErrUnreachable is wrapped by every delivery failure. Callers must not
// retry synchronously; the scheduler retries on its next tick.
var ErrUnreachable = errors.New("notification sink unreachable")

// Sink delivers one notification. Delivery is best-effort: a nil error only
// means local dispatch succeeded.
type Sink interface {
	Notify(ctx context.Context, kind Kind, title, message string) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, kind Kind, title, message string) error

func (f SinkFunc) Notify(ctx context.Context, kind Kind, title, message string) error {
	return f(ctx, kind, title, message)
}
