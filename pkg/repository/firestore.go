package repository

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/interfaces"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	alertsCollection         = "warden_alerts"
	investigationsCollection = "warden_investigations"
	auditLogsCollection      = "warden_audit_logs"
	usersCollection          = "warden_users"
	huntsCollection          = "warden_hunts"
	inboxCollection          = "warden_inbox"
	calendarCollection       = "warden_calendar"
	sessionsCollection       = "warden_sessions"
	otpsCollection           = "warden_otps"

	// Each whole-collection entity lives in a single snapshot document
	snapshotDocID = "snapshot"
)

// snapshotDoc carries a whole entity collection as one JSON blob. Storing the
// collection as a single document keeps writes atomic and preserves the
// last-write-wins contract of the persistence layer.
type snapshotDoc struct {
	Data string `firestore:"data"`
}

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on credential problems; an empty collection is fine
	_, err = client.Collection(alertsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{client: client}, nil
}

// getSnapshot loads a whole-collection snapshot into out. A missing snapshot
// document leaves out untouched.
func (f *Firestore) getSnapshot(ctx context.Context, collection string, out any) error {
	doc, err := f.client.Collection(collection).Doc(snapshotDocID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return goerr.Wrap(err, "failed to get snapshot from firestore",
			goerr.V("collection", collection))
	}

	var snapshot snapshotDoc
	if err := doc.DataTo(&snapshot); err != nil {
		return goerr.Wrap(err, "failed to decode snapshot document",
			goerr.V("collection", collection))
	}

	if err := json.Unmarshal([]byte(snapshot.Data), out); err != nil {
		return goerr.Wrap(err, "failed to unmarshal snapshot data",
			goerr.V("collection", collection))
	}

	return nil
}

// putSnapshot replaces a whole-collection snapshot
func (f *Firestore) putSnapshot(ctx context.Context, collection string, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal snapshot data",
			goerr.V("collection", collection))
	}

	_, err = f.client.Collection(collection).Doc(snapshotDocID).Set(ctx, snapshotDoc{Data: string(data)})
	if err != nil {
		return goerr.Wrap(err, "failed to put snapshot to firestore",
			goerr.V("collection", collection))
	}

	return nil
}

// GetAlerts retrieves the alert collection
func (f *Firestore) GetAlerts(ctx context.Context) ([]*model.Alert, error) {
	var alerts []*model.Alert
	if err := f.getSnapshot(ctx, alertsCollection, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// PutAlerts replaces the alert collection
func (f *Firestore) PutAlerts(ctx context.Context, alerts []*model.Alert) error {
	return f.putSnapshot(ctx, alertsCollection, alerts)
}

// GetInvestigations retrieves the investigation collection
func (f *Firestore) GetInvestigations(ctx context.Context) ([]*model.Investigation, error) {
	var investigations []*model.Investigation
	if err := f.getSnapshot(ctx, investigationsCollection, &investigations); err != nil {
		return nil, err
	}
	return investigations, nil
}

// PutInvestigations replaces the investigation collection
func (f *Firestore) PutInvestigations(ctx context.Context, investigations []*model.Investigation) error {
	return f.putSnapshot(ctx, investigationsCollection, investigations)
}

// GetAuditLogs retrieves the audit log collection
func (f *Firestore) GetAuditLogs(ctx context.Context) ([]*model.AuditLog, error) {
	var logs []*model.AuditLog
	if err := f.getSnapshot(ctx, auditLogsCollection, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// PutAuditLogs replaces the audit log collection
func (f *Firestore) PutAuditLogs(ctx context.Context, logs []*model.AuditLog) error {
	return f.putSnapshot(ctx, auditLogsCollection, logs)
}

// GetUsers retrieves the user collection
func (f *Firestore) GetUsers(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := f.getSnapshot(ctx, usersCollection, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// PutUsers replaces the user collection
func (f *Firestore) PutUsers(ctx context.Context, users []*model.User) error {
	return f.putSnapshot(ctx, usersCollection, users)
}

// GetHunts retrieves the hunt collection
func (f *Firestore) GetHunts(ctx context.Context) ([]*model.Hunt, error) {
	var hunts []*model.Hunt
	if err := f.getSnapshot(ctx, huntsCollection, &hunts); err != nil {
		return nil, err
	}
	return hunts, nil
}

// PutHunts replaces the hunt collection
func (f *Firestore) PutHunts(ctx context.Context, hunts []*model.Hunt) error {
	return f.putSnapshot(ctx, huntsCollection, hunts)
}

// GetInboxMessages retrieves the inbox collection
func (f *Firestore) GetInboxMessages(ctx context.Context) ([]*model.InboxMessage, error) {
	var messages []*model.InboxMessage
	if err := f.getSnapshot(ctx, inboxCollection, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// PutInboxMessages replaces the inbox collection
func (f *Firestore) PutInboxMessages(ctx context.Context, messages []*model.InboxMessage) error {
	return f.putSnapshot(ctx, inboxCollection, messages)
}

// GetCalendarEvents retrieves the calendar collection
func (f *Firestore) GetCalendarEvents(ctx context.Context) ([]*model.CalendarEvent, error) {
	var events []*model.CalendarEvent
	if err := f.getSnapshot(ctx, calendarCollection, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// PutCalendarEvents replaces the calendar collection
func (f *Firestore) PutCalendarEvents(ctx context.Context, events []*model.CalendarEvent) error {
	return f.putSnapshot(ctx, calendarCollection, events)
}

// SaveSession saves a session to Firestore
func (f *Firestore) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	_, err := f.client.Collection(sessionsCollection).Doc(session.ID.String()).Set(ctx, session)
	if err != nil {
		return goerr.Wrap(err, "failed to save session to firestore")
	}

	return nil
}

// GetSession retrieves a session by ID
func (f *Firestore) GetSession(ctx context.Context, id types.SessionID) (*model.Session, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	doc, err := f.client.Collection(sessionsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.New("session not found")
		}
		return nil, goerr.Wrap(err, "failed to get session from firestore")
	}

	var session model.Session
	if err := doc.DataTo(&session); err != nil {
		return nil, goerr.Wrap(err, "failed to decode session")
	}

	return &session, nil
}

// DeleteSession removes a session
func (f *Firestore) DeleteSession(ctx context.Context, id types.SessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	_, err := f.client.Collection(sessionsCollection).Doc(id.String()).Delete(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to delete session from firestore")
	}

	return nil
}

// SaveOTP stores a pending OTP challenge keyed by email
func (f *Firestore) SaveOTP(ctx context.Context, otp *model.PendingOTP) error {
	if otp == nil {
		return goerr.New("otp is nil")
	}
	if otp.Email == "" {
		return goerr.New("otp email is empty")
	}

	_, err := f.client.Collection(otpsCollection).Doc(otp.Email).Set(ctx, otp)
	if err != nil {
		return goerr.Wrap(err, "failed to save OTP to firestore")
	}

	return nil
}

// GetOTP retrieves the pending challenge for an email, or (nil, nil) if none
// is pending
func (f *Firestore) GetOTP(ctx context.Context, email string) (*model.PendingOTP, error) {
	if email == "" {
		return nil, goerr.New("email is empty")
	}

	doc, err := f.client.Collection(otpsCollection).Doc(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get OTP from firestore")
	}

	var otp model.PendingOTP
	if err := doc.DataTo(&otp); err != nil {
		return nil, goerr.Wrap(err, "failed to decode OTP")
	}

	return &otp, nil
}

// DeleteOTP removes the pending challenge for an email
func (f *Firestore) DeleteOTP(ctx context.Context, email string) error {
	if email == "" {
		return goerr.New("email is empty")
	}

	_, err := f.client.Collection(otpsCollection).Doc(email).Delete(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to delete OTP from firestore")
	}

	return nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
