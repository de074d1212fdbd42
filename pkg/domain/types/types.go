package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserID represents a user identifier
type UserID string

// String returns the string representation
func (id UserID) String() string {
	return string(id)
}

// NewUserID creates a new UserID
func NewUserID() UserID {
	return UserID(fmt.Sprintf("user-%d", time.Now().UnixMilli()))
}

// SessionID represents a session identifier
type SessionID string

// String returns the string representation
func (id SessionID) String() string {
	return string(id)
}

// AlertID represents an alert identifier
type AlertID string

// String returns the string representation
func (id AlertID) String() string {
	return string(id)
}

// NewAlertID creates a new AlertID
func NewAlertID() AlertID {
	return AlertID(fmt.Sprintf("alert-%s", uuid.New().String()))
}

// CaseID represents an investigation case identifier.
// Case IDs embed the creation timestamp in milliseconds so they sort
// monotonically by creation time.
type CaseID string

// String returns the string representation
func (id CaseID) String() string {
	return string(id)
}

// NewCaseID creates a new CaseID for the given creation time
func NewCaseID(t time.Time) CaseID {
	return CaseID(fmt.Sprintf("case-%d", t.UnixMilli()))
}

// TimelineEventID represents a timeline event identifier
type TimelineEventID string

// String returns the string representation
func (id TimelineEventID) String() string {
	return string(id)
}

// NewTimelineEventID creates a new TimelineEventID for the given time
func NewTimelineEventID(t time.Time) TimelineEventID {
	return TimelineEventID(fmt.Sprintf("t-evt-%d", t.UnixMilli()))
}

// EvidenceID represents an evidence file identifier
type EvidenceID string

// String returns the string representation
func (id EvidenceID) String() string {
	return string(id)
}

// NewEvidenceID creates a new EvidenceID for the given time
func NewEvidenceID(t time.Time) EvidenceID {
	return EvidenceID(fmt.Sprintf("evd-%d", t.UnixMilli()))
}

// HuntID represents a threat hunt identifier
type HuntID string

// String returns the string representation
func (id HuntID) String() string {
	return string(id)
}

// NewHuntID creates a new HuntID
func NewHuntID() HuntID {
	return HuntID(fmt.Sprintf("hunt-%s", uuid.New().String()))
}

// MessageID represents an inbox message identifier
type MessageID string

// String returns the string representation
func (id MessageID) String() string {
	return string(id)
}

// NewMessageID creates a new MessageID
func NewMessageID() MessageID {
	return MessageID(fmt.Sprintf("msg-%s", uuid.New().String()))
}

// CalendarEventID represents a department calendar event identifier
type CalendarEventID string

// String returns the string representation
func (id CalendarEventID) String() string {
	return string(id)
}

// NewCalendarEventID creates a new CalendarEventID for the given time
func NewCalendarEventID(t time.Time) CalendarEventID {
	return CalendarEventID(fmt.Sprintf("event-%d", t.UnixMilli()))
}

// LogID represents an audit log entry identifier
type LogID string

// String returns the string representation
func (id LogID) String() string {
	return string(id)
}

// NewLogID creates a new LogID
func NewLogID() LogID {
	return LogID(fmt.Sprintf("log-%s", uuid.New().String()))
}
