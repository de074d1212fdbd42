package model

import (
	"time"

	"github.com/secmon-lab/warden/pkg/domain/types"
)

// AuditLog is one entry of the append-only audit trail. The stored history is
// capped; oldest entries are dropped once the cap is reached.
type AuditLog struct {
	ID        types.LogID     `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	UserID    types.UserID    `json:"userId,omitempty"`
	UserEmail string          `json:"userEmail"`
	Action    types.LogAction `json:"action"`
	Details   string          `json:"details,omitempty"`
}
