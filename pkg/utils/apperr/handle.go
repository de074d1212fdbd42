// Package apperr reports errors from best-effort paths that must not fail
// the operation in progress, such as audit writes during logout or
// background seeding batches.
package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
)

// Handle logs the error with the context logger. Nil errors are ignored so
// callers can pass results through unconditionally.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	ctxlog.From(ctx).Error("application error", "error", err)
}
