package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/interfaces"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
)

// maxAuditLogs caps the stored audit history. The newest entries are kept.
const maxAuditLogs = 500

// Audit records and lists the audit trail
type Audit struct {
	repo interfaces.Repository
}

// NewAudit creates a new Audit use case
func NewAudit(repo interfaces.Repository) *Audit {
	return &Audit{repo: repo}
}

// AddLog prepends an entry to the audit trail, trimming to the cap
func (u *Audit) AddLog(ctx context.Context, userID types.UserID, userEmail string, action types.LogAction, details string) error {
	logs, err := u.repo.GetAuditLogs(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load audit logs")
	}

	entry := &model.AuditLog{
		ID:        types.NewLogID(),
		Timestamp: time.Now(),
		UserID:    userID,
		UserEmail: userEmail,
		Action:    action,
		Details:   details,
	}

	logs = append([]*model.AuditLog{entry}, logs...)
	if len(logs) > maxAuditLogs {
		logs = logs[:maxAuditLogs]
	}

	if err := u.repo.PutAuditLogs(ctx, logs); err != nil {
		return goerr.Wrap(err, "failed to save audit logs")
	}

	return nil
}

// ListLogs returns the audit trail, newest first
func (u *Audit) ListLogs(ctx context.Context) ([]*model.AuditLog, error) {
	logs, err := u.repo.GetAuditLogs(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load audit logs")
	}
	return logs, nil
}
