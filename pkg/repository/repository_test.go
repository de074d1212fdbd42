package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/warden/pkg/domain/interfaces"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/repository"
)

func TestMemoryRepository(t *testing.T) {
	testRepository(t, repository.NewMemory())
}

// testRepository exercises the persistence contract shared by all backends
func testRepository(t *testing.T, repo interfaces.Repository) {
	ctx := context.Background()

	t.Run("EmptyCollectionsReadBack", func(t *testing.T) {
		alerts, err := repo.GetAlerts(ctx)
		gt.NoError(t, err)
		gt.Equal(t, 0, len(alerts))

		investigations, err := repo.GetInvestigations(ctx)
		gt.NoError(t, err)
		gt.Equal(t, 0, len(investigations))
	})

	t.Run("AlertCollectionLastWriteWins", func(t *testing.T) {
		first := []*model.Alert{
			{ID: types.AlertID("a1"), Timestamp: time.Now(), SrcIP: "10.0.0.1", Severity: types.SeverityLow},
			{ID: types.AlertID("a2"), Timestamp: time.Now(), SrcIP: "10.0.0.2", Severity: types.SeverityHigh},
		}
		gt.NoError(t, repo.PutAlerts(ctx, first))

		got, err := repo.GetAlerts(ctx)
		gt.NoError(t, err)
		gt.Equal(t, 2, len(got))
		gt.Equal(t, types.AlertID("a1"), got[0].ID)

		// The whole collection is replaced on write
		second := []*model.Alert{
			{ID: types.AlertID("a3"), Timestamp: time.Now(), SrcIP: "10.0.0.3", Severity: types.SeverityCritical},
		}
		gt.NoError(t, repo.PutAlerts(ctx, second))

		got, err = repo.GetAlerts(ctx)
		gt.NoError(t, err)
		gt.Equal(t, 1, len(got))
		gt.Equal(t, types.AlertID("a3"), got[0].ID)
	})

	t.Run("ReadsReturnCopies", func(t *testing.T) {
		gt.NoError(t, repo.PutAlerts(ctx, []*model.Alert{
			{ID: types.AlertID("a1"), SrcIP: "10.0.0.1"},
		}))

		got, err := repo.GetAlerts(ctx)
		gt.NoError(t, err)
		got[0].SrcIP = "tampered"

		again, err := repo.GetAlerts(ctx)
		gt.NoError(t, err)
		gt.Equal(t, "10.0.0.1", again[0].SrcIP)
	})

	t.Run("InvestigationRoundTrip", func(t *testing.T) {
		alert := &model.Alert{
			ID:         types.AlertID("a-case"),
			Timestamp:  time.Now(),
			SrcIP:      "203.0.113.9",
			AttackType: types.AttackDoS,
			Severity:   types.SeverityCritical,
		}
		envelope, err := model.EncodeThreat(alert)
		gt.NoError(t, err)

		inv := &model.Investigation{
			ID:            types.CaseID("case-1"),
			PrimaryThreat: envelope,
			Team:          []model.Member{{ID: types.UserID("u1"), Email: "a@b.c"}},
			Status:        types.CaseStatusOpen,
			StartTime:     time.Now(),
		}
		gt.NoError(t, repo.PutInvestigations(ctx, []*model.Investigation{inv}))

		got, err := repo.GetInvestigations(ctx)
		gt.NoError(t, err)
		gt.Equal(t, 1, len(got))
		gt.Equal(t, types.CaseID("case-1"), got[0].ID)

		threat, err := got[0].PrimaryThreat.Decode()
		gt.NoError(t, err)
		restored, ok := threat.(*model.Alert)
		gt.Equal(t, true, ok)
		gt.Equal(t, types.AlertID("a-case"), restored.ID)
	})

	t.Run("UsersHuntsInboxAuditRoundTrip", func(t *testing.T) {
		gt.NoError(t, repo.PutUsers(ctx, []*model.User{
			{ID: types.UserID("u1"), Email: "a@b.c", Role: types.RoleAdmin, Status: types.UserStatusActive},
		}))
		users, err := repo.GetUsers(ctx)
		gt.NoError(t, err)
		gt.Equal(t, 1, len(users))

		gt.NoError(t, repo.PutHunts(ctx, []*model.Hunt{
			{ID: types.HuntID("h1"), Name: "beaconing", Query: `attack_type="Bot"`, CreatedAt: time.Now()},
		}))
		hunts, err := repo.GetHunts(ctx)
		gt.NoError(t, err)
		gt.Equal(t, "beaconing", hunts[0].Name)

		gt.NoError(t, repo.PutInboxMessages(ctx, []*model.InboxMessage{
			model.NewInboxMessage("System", types.UserID("u1"), "hello", "body"),
		}))
		inbox, err := repo.GetInboxMessages(ctx)
		gt.NoError(t, err)
		gt.Equal(t, 1, len(inbox))
		gt.Equal(t, false, inbox[0].Read)

		gt.NoError(t, repo.PutAuditLogs(ctx, []*model.AuditLog{
			{ID: types.NewLogID(), Timestamp: time.Now(), UserEmail: "a@b.c", Action: types.ActionCaseStarted},
		}))
		logs, err := repo.GetAuditLogs(ctx)
		gt.NoError(t, err)
		gt.Equal(t, 1, len(logs))
	})

	t.Run("CalendarRoundTrip", func(t *testing.T) {
		gt.NoError(t, repo.PutCalendarEvents(ctx, []*model.CalendarEvent{
			{ID: types.CalendarEventID("event-1"), Department: types.DepartmentSOC,
				Title: "Shift handover", Date: "2025-06-01", CreatedBy: "a@b.c"},
			{ID: types.CalendarEventID("event-2"), Department: types.DepartmentBlueTeam,
				Title: "Patch window", Date: "2025-06-03", CreatedBy: "a@b.c"},
		}))

		events, err := repo.GetCalendarEvents(ctx)
		gt.NoError(t, err)
		gt.Equal(t, 2, len(events))
		gt.Equal(t, types.CalendarEventID("event-1"), events[0].ID)
		gt.Equal(t, types.DepartmentBlueTeam, events[1].Department)
	})

	t.Run("SessionLifecycle", func(t *testing.T) {
		session, err := model.NewSession(types.UserID("u1"), time.Hour)
		gt.NoError(t, err)

		gt.NoError(t, repo.SaveSession(ctx, session))

		got, err := repo.GetSession(ctx, session.ID)
		gt.NoError(t, err)
		gt.Equal(t, session.UserID, got.UserID)
		gt.Equal(t, session.Secret, got.Secret)

		gt.NoError(t, repo.DeleteSession(ctx, session.ID))

		_, err = repo.GetSession(ctx, session.ID)
		gt.Error(t, err)
	})

	t.Run("OTPLifecycle", func(t *testing.T) {
		// No pending challenge reads back as nil without error
		got, err := repo.GetOTP(ctx, "nobody@warden.example")
		gt.NoError(t, err)
		gt.Nil(t, got)

		otp := &model.PendingOTP{
			Email:     "analyst@warden.example",
			Secret:    "JBSWY3DPEHPK3PXP",
			ExpiresAt: time.Now().Add(5 * time.Minute),
		}
		gt.NoError(t, repo.SaveOTP(ctx, otp))

		got, err = repo.GetOTP(ctx, otp.Email)
		gt.NoError(t, err)
		gt.NotNil(t, got)
		gt.Equal(t, otp.Secret, got.Secret)

		gt.NoError(t, repo.DeleteOTP(ctx, otp.Email))

		got, err = repo.GetOTP(ctx, otp.Email)
		gt.NoError(t, err)
		gt.Nil(t, got)
	})

	t.Run("Validation", func(t *testing.T) {
		gt.Error(t, repo.SaveSession(ctx, nil))
		gt.Error(t, repo.SaveOTP(ctx, nil))
		_, err := repo.GetSession(ctx, types.SessionID(""))
		gt.Error(t, err)
	})
}
