package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/repository"
	"github.com/secmon-lab/warden/pkg/usecase"
)

func TestAuditPrependOrder(t *testing.T) {
	ctx := context.Background()
	audit := usecase.NewAudit(repository.NewMemory())

	gt.NoError(t, audit.AddLog(ctx, "u1", "a@b.c", types.ActionLogin, "first"))
	gt.NoError(t, audit.AddLog(ctx, "u1", "a@b.c", types.ActionLogout, "second"))

	logs, err := audit.ListLogs(ctx)
	gt.NoError(t, err)
	gt.Equal(t, 2, len(logs))
	gt.Equal(t, "second", logs[0].Details)
	gt.Equal(t, "first", logs[1].Details)
}

func TestAuditCapDropsOldest(t *testing.T) {
	ctx := context.Background()
	audit := usecase.NewAudit(repository.NewMemory())

	for i := 0; i < 510; i++ {
		gt.NoError(t, audit.AddLog(ctx, "u1", "a@b.c", types.ActionRefreshData, fmt.Sprintf("entry-%d", i)))
	}

	logs, err := audit.ListLogs(ctx)
	gt.NoError(t, err)
	gt.Equal(t, 500, len(logs))

	// Newest entry survives at the head, the earliest entries are gone
	gt.Equal(t, "entry-509", logs[0].Details)
	gt.Equal(t, "entry-10", logs[499].Details)
}
