package repository

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/interfaces"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
)

// Memory implements Repository interface with in-memory storage. Collections
// are held as whole slices so that the read-modify-write contract of the
// persistence layer is the same as with the Firestore backend.
type Memory struct {
	mu             sync.RWMutex
	alerts         []*model.Alert
	investigations []*model.Investigation
	auditLogs      []*model.AuditLog
	users          []*model.User
	hunts          []*model.Hunt
	inbox          []*model.InboxMessage
	calendar       []*model.CalendarEvent
	sessions       map[types.SessionID]*model.Session
	otps           map[string]*model.PendingOTP
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		sessions: make(map[types.SessionID]*model.Session),
		otps:     make(map[string]*model.PendingOTP),
	}
}

func copyAlerts(src []*model.Alert) []*model.Alert {
	dst := make([]*model.Alert, len(src))
	for i, v := range src {
		c := *v
		dst[i] = &c
	}
	return dst
}

// GetAlerts returns a copy of the alert collection
func (m *Memory) GetAlerts(ctx context.Context) ([]*model.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyAlerts(m.alerts), nil
}

// PutAlerts replaces the alert collection
func (m *Memory) PutAlerts(ctx context.Context, alerts []*model.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = copyAlerts(alerts)
	return nil
}

func copyInvestigations(src []*model.Investigation) []*model.Investigation {
	dst := make([]*model.Investigation, len(src))
	for i, v := range src {
		c := *v
		c.Team = append([]model.Member(nil), v.Team...)
		c.Timeline = append([]model.TimelineEvent(nil), v.Timeline...)
		c.Evidence = append([]model.EvidenceFile(nil), v.Evidence...)
		dst[i] = &c
	}
	return dst
}

// GetInvestigations returns a copy of the investigation collection
func (m *Memory) GetInvestigations(ctx context.Context) ([]*model.Investigation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyInvestigations(m.investigations), nil
}

// PutInvestigations replaces the investigation collection
func (m *Memory) PutInvestigations(ctx context.Context, investigations []*model.Investigation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.investigations = copyInvestigations(investigations)
	return nil
}

func copyAuditLogs(src []*model.AuditLog) []*model.AuditLog {
	dst := make([]*model.AuditLog, len(src))
	for i, v := range src {
		c := *v
		dst[i] = &c
	}
	return dst
}

// GetAuditLogs returns a copy of the audit log collection
func (m *Memory) GetAuditLogs(ctx context.Context) ([]*model.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyAuditLogs(m.auditLogs), nil
}

// PutAuditLogs replaces the audit log collection
func (m *Memory) PutAuditLogs(ctx context.Context, logs []*model.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auditLogs = copyAuditLogs(logs)
	return nil
}

func copyUsers(src []*model.User) []*model.User {
	dst := make([]*model.User, len(src))
	for i, v := range src {
		c := *v
		dst[i] = &c
	}
	return dst
}

// GetUsers returns a copy of the user collection
func (m *Memory) GetUsers(ctx context.Context) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyUsers(m.users), nil
}

// PutUsers replaces the user collection
func (m *Memory) PutUsers(ctx context.Context, users []*model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = copyUsers(users)
	return nil
}

func copyHunts(src []*model.Hunt) []*model.Hunt {
	dst := make([]*model.Hunt, len(src))
	for i, v := range src {
		c := *v
		dst[i] = &c
	}
	return dst
}

// GetHunts returns a copy of the hunt collection
func (m *Memory) GetHunts(ctx context.Context) ([]*model.Hunt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyHunts(m.hunts), nil
}

// PutHunts replaces the hunt collection
func (m *Memory) PutHunts(ctx context.Context, hunts []*model.Hunt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hunts = copyHunts(hunts)
	return nil
}

func copyInbox(src []*model.InboxMessage) []*model.InboxMessage {
	dst := make([]*model.InboxMessage, len(src))
	for i, v := range src {
		c := *v
		dst[i] = &c
	}
	return dst
}

// GetInboxMessages returns a copy of the inbox collection
func (m *Memory) GetInboxMessages(ctx context.Context) ([]*model.InboxMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyInbox(m.inbox), nil
}

// PutInboxMessages replaces the inbox collection
func (m *Memory) PutInboxMessages(ctx context.Context, messages []*model.InboxMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbox = copyInbox(messages)
	return nil
}

func copyCalendar(src []*model.CalendarEvent) []*model.CalendarEvent {
	dst := make([]*model.CalendarEvent, len(src))
	for i, v := range src {
		c := *v
		dst[i] = &c
	}
	return dst
}

// GetCalendarEvents returns a copy of the calendar collection
func (m *Memory) GetCalendarEvents(ctx context.Context) ([]*model.CalendarEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyCalendar(m.calendar), nil
}

// PutCalendarEvents replaces the calendar collection
func (m *Memory) PutCalendarEvents(ctx context.Context, events []*model.CalendarEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calendar = copyCalendar(events)
	return nil
}

// SaveSession saves a session
func (m *Memory) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sessionCopy := *session
	m.sessions[session.ID] = &sessionCopy
	return nil
}

// GetSession retrieves a session by ID
func (m *Memory) GetSession(ctx context.Context, id types.SessionID) (*model.Session, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, goerr.New("session not found")
	}

	sessionCopy := *session
	return &sessionCopy, nil
}

// DeleteSession removes a session
func (m *Memory) DeleteSession(ctx context.Context, id types.SessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// SaveOTP stores a pending OTP challenge, replacing any previous challenge
// for the same email
func (m *Memory) SaveOTP(ctx context.Context, otp *model.PendingOTP) error {
	if otp == nil {
		return goerr.New("otp is nil")
	}
	if otp.Email == "" {
		return goerr.New("otp email is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	otpCopy := *otp
	m.otps[otp.Email] = &otpCopy
	return nil
}

// GetOTP retrieves the pending challenge for an email, or (nil, nil) if none
// is pending
func (m *Memory) GetOTP(ctx context.Context, email string) (*model.PendingOTP, error) {
	if email == "" {
		return nil, goerr.New("email is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	otp, exists := m.otps[email]
	if !exists {
		return nil, nil
	}

	otpCopy := *otp
	return &otpCopy, nil
}

// DeleteOTP removes the pending challenge for an email
func (m *Memory) DeleteOTP(ctx context.Context, email string) error {
	if email == "" {
		return goerr.New("email is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.otps, email)
	return nil
}

// Close is a no-op for memory repository
func (m *Memory) Close() error {
	return nil
}
