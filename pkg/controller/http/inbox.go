package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/usecase"
)

// InboxHandler serves the notification inbox endpoints
type InboxHandler struct {
	inboxUC *usecase.Inbox
}

// NewInboxHandler creates a new inbox handler
func NewInboxHandler(inboxUC *usecase.Inbox) *InboxHandler {
	return &InboxHandler{inboxUC: inboxUC}
}

// HandleList returns the messages of the signed-in user, newest first
func (h *InboxHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	messages, err := h.inboxUC.ListMessages(r.Context(), user.ID)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// HandleUnreadCount returns the unread message count
func (h *InboxHandler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	count, err := h.inboxUC.UnreadCount(r.Context(), user.ID)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// HandleMarkRead flags a message as read
func (h *InboxHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := h.inboxUC.MarkRead(r.Context(), user.ID, types.MessageID(chi.URLParam(r, "messageID"))); err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "marked read"})
}
