package interfaces

import (
	"context"

	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
)

// Repository defines the interface for data persistence. Each entity type has
// its own collection; alert, investigation, audit log, user, hunt, inbox and
// calendar collections are read and written whole (read-modify-write, last write wins)
// to preserve the console's storage contract, while sessions and pending OTPs
// are keyed records.
type Repository interface {
	// Alert event store
	GetAlerts(ctx context.Context) ([]*model.Alert, error)
	PutAlerts(ctx context.Context, alerts []*model.Alert) error

	// Investigation cases
	GetInvestigations(ctx context.Context) ([]*model.Investigation, error)
	PutInvestigations(ctx context.Context, investigations []*model.Investigation) error

	// Audit logs
	GetAuditLogs(ctx context.Context) ([]*model.AuditLog, error)
	PutAuditLogs(ctx context.Context, logs []*model.AuditLog) error

	// Users
	GetUsers(ctx context.Context) ([]*model.User, error)
	PutUsers(ctx context.Context, users []*model.User) error

	// Threat hunts
	GetHunts(ctx context.Context) ([]*model.Hunt, error)
	PutHunts(ctx context.Context, hunts []*model.Hunt) error

	// Inbox messages
	GetInboxMessages(ctx context.Context) ([]*model.InboxMessage, error)
	PutInboxMessages(ctx context.Context, messages []*model.InboxMessage) error

	// Department calendar events
	GetCalendarEvents(ctx context.Context) ([]*model.CalendarEvent, error)
	PutCalendarEvents(ctx context.Context, events []*model.CalendarEvent) error

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id types.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id types.SessionID) error

	// Pending OTP operations, keyed by email. GetOTP returns (nil, nil)
	// when no challenge is pending for the email.
	SaveOTP(ctx context.Context, otp *model.PendingOTP) error
	GetOTP(ctx context.Context, email string) (*model.PendingOTP, error)
	DeleteOTP(ctx context.Context, email string) error

	// Close closes the repository connection
	Close() error
}
