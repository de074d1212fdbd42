package apperr_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/warden/pkg/utils/apperr"
)

func TestHandleLogsError(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.With(context.Background(),
		slog.New(slog.NewTextHandler(&buf, nil)))

	apperr.Handle(ctx, goerr.New("audit write failed", goerr.V("userID", "u1")))

	gt.S(t, buf.String()).Contains("application error")
	gt.S(t, buf.String()).Contains("audit write failed")
}

func TestHandleIgnoresNil(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.With(context.Background(),
		slog.New(slog.NewTextHandler(&buf, nil)))

	apperr.Handle(ctx, nil)

	gt.Equal(t, "", buf.String())
}
