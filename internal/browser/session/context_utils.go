// internal/browser/session/context_utils.go
package session

import (
	"context"
)

// CombineContext returns a context derived from session (values, deadline
// and cancellation) that is also canceled when op ends. chromedp keeps the
// target in the session context's values, so commands must run on a
// context derived from it while still honoring the operation's lifetime.
// context.Cause on the result reports why op ended.
func CombineContext(session, op context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancelCause(session)
	stop := context.AfterFunc(op, func() {
		cancel(context.Cause(op))
	})
	return combined, func() {
		stop()
		cancel(context.Canceled)
	}
}

// Detach returns a context that keeps ctx's values but is never canceled
// and has no deadline. Cleanup such as releasing a pressed button uses it
// after the operation context is gone.
func Detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
