package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/interfaces"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
)

// Inbox delivers per-user notifications
type Inbox struct {
	repo interfaces.Repository
}

// NewInbox creates a new Inbox use case
func NewInbox(repo interfaces.Repository) *Inbox {
	return &Inbox{repo: repo}
}

// ListMessages returns the messages addressed to a user, newest first
func (u *Inbox) ListMessages(ctx context.Context, userID types.UserID) ([]*model.InboxMessage, error) {
	messages, err := u.repo.GetInboxMessages(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load inbox")
	}

	var mine []*model.InboxMessage
	for _, m := range messages {
		if m.ToUserID == userID {
			mine = append(mine, m)
		}
	}
	return mine, nil
}

// UnreadCount returns the number of unread messages for a user
func (u *Inbox) UnreadCount(ctx context.Context, userID types.UserID) (int, error) {
	messages, err := u.ListMessages(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range messages {
		if !m.Read {
			count++
		}
	}
	return count, nil
}

// Send delivers a message to a single user
func (u *Inbox) Send(ctx context.Context, from string, to types.UserID, subject, body string) error {
	messages, err := u.repo.GetInboxMessages(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load inbox")
	}

	msg := model.NewInboxMessage(from, to, subject, body)
	messages = append([]*model.InboxMessage{msg}, messages...)

	if err := u.repo.PutInboxMessages(ctx, messages); err != nil {
		return goerr.Wrap(err, "failed to save inbox")
	}
	return nil
}

// NotifyPrivileged delivers a message to every active Admin and Security
// Manager except the excluded user
func (u *Inbox) NotifyPrivileged(ctx context.Context, from string, exclude types.UserID, subject, body string) error {
	users, err := u.repo.GetUsers(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load users")
	}

	messages, err := u.repo.GetInboxMessages(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load inbox")
	}

	for _, user := range users {
		if user.ID == exclude || !user.IsActive() || !user.Role.IsPrivileged() {
			continue
		}
		msg := model.NewInboxMessage(from, user.ID, subject, body)
		messages = append([]*model.InboxMessage{msg}, messages...)
	}

	if err := u.repo.PutInboxMessages(ctx, messages); err != nil {
		return goerr.Wrap(err, "failed to save inbox")
	}
	return nil
}

// MarkRead flags a message as read. Only the recipient can mark it, and
// marking an already-read message is a no-op.
func (u *Inbox) MarkRead(ctx context.Context, userID types.UserID, messageID types.MessageID) error {
	messages, err := u.repo.GetInboxMessages(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load inbox")
	}

	for _, m := range messages {
		if m.ID != messageID {
			continue
		}
		if m.ToUserID != userID {
			return goerr.Wrap(model.ErrMessageNotFound, "message belongs to another user")
		}
		if m.Read {
			return nil
		}
		m.Read = true
		if err := u.repo.PutInboxMessages(ctx, messages); err != nil {
			return goerr.Wrap(err, "failed to save inbox")
		}
		return nil
	}

	return goerr.Wrap(model.ErrMessageNotFound, "no such message", goerr.V("messageID", messageID))
}
