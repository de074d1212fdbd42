package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/warden/pkg/utils/apperr"
)

// Dispatch executes a handler asynchronously with panic recovery. HTTP
// handlers use this to respond immediately while work such as event-lake
// seeding continues in the background.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	// Detach from the request context so cancellation of the request does
	// not abort the background work, but keep the logger.
	newCtx := newBackgroundContext(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				ctxlog.From(newCtx).Error("Panic in async handler",
					"recover", r,
					"stack", string(stack),
				)
			}
		}()

		if err := handler(newCtx); err != nil {
			apperr.Handle(newCtx, err)
		}
	}()
}

func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()

	logger := ctxlog.From(ctx)
	if logger != nil {
		newCtx = ctxlog.With(newCtx, logger)
	}

	return newCtx
}
