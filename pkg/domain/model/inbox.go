package model

import (
	"time"

	"github.com/secmon-lab/warden/pkg/domain/types"
)

// InboxMessage is a notification delivered to a single user's inbox
type InboxMessage struct {
	ID        types.MessageID `json:"id"`
	From      string          `json:"from"`
	ToUserID  types.UserID    `json:"toUserId"`
	Subject   string          `json:"subject"`
	Body      string          `json:"body"`
	Timestamp time.Time       `json:"timestamp"`
	Read      bool            `json:"read"`
}

// NewInboxMessage creates an unread message stamped with the current time
func NewInboxMessage(from string, to types.UserID, subject, body string) *InboxMessage {
	return &InboxMessage{
		ID:        types.NewMessageID(),
		From:      from,
		ToUserID:  to,
		Subject:   subject,
		Body:      body,
		Timestamp: time.Now(),
		Read:      false,
	}
}
