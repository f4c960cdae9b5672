package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs handler in a new goroutine on a background context. The
// caller's cancellation does not propagate (a webhook response must not kill
// an in-flight release run), but the context logger is preserved. Panics are
// recovered and logged together with the handler name.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	newCtx := ctxlog.With(context.Background(), ctxlog.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(newCtx).Error("panic in async handler",
					"handler", name,
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("error in async handler",
				"handler", name,
				"error", err,
			)
		}
	}()
}
