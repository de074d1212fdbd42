package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/repository"
	"github.com/secmon-lab/warden/pkg/usecase"
)

func eventsSetup() (*usecase.Events, *usecase.Audit) {
	repo := repository.NewMemory()
	audit := usecase.NewAudit(repo)
	return usecase.NewEvents(repo, nil, audit), audit
}

func TestAddAlertsPrepends(t *testing.T) {
	ctx := context.Background()
	events, _ := eventsSetup()

	gt.NoError(t, events.AddAlerts(ctx, []*model.Alert{
		{ID: "a1", Timestamp: time.Now(), Severity: types.SeverityLow},
	}))
	gt.NoError(t, events.AddAlerts(ctx, []*model.Alert{
		{ID: "a2", Timestamp: time.Now(), Severity: types.SeverityHigh},
		{ID: "a3", Timestamp: time.Now(), Severity: types.SeverityLow},
	}))

	alerts, err := events.ListAlerts(ctx)
	gt.NoError(t, err)
	gt.Equal(t, 3, len(alerts))
	gt.Equal(t, types.AlertID("a2"), alerts[0].ID)
	gt.Equal(t, types.AlertID("a3"), alerts[1].ID)
	gt.Equal(t, types.AlertID("a1"), alerts[2].ID)
}

func TestSearchAlerts(t *testing.T) {
	ctx := context.Background()
	events, _ := eventsSetup()

	gt.NoError(t, events.AddAlerts(ctx, []*model.Alert{
		{ID: "a1", Severity: types.SeverityCritical, AttackType: types.AttackDoS},
		{ID: "a2", Severity: types.SeverityLow, AttackType: types.AttackBenign},
	}))

	got, err := events.SearchAlerts(ctx, `severity="Critical"`)
	gt.NoError(t, err)
	gt.Equal(t, 1, len(got))
	gt.Equal(t, types.AlertID("a1"), got[0].ID)

	// Blank query returns everything
	all, err := events.SearchAlerts(ctx, "")
	gt.NoError(t, err)
	gt.Equal(t, 2, len(all))
}

func TestRefreshDataWithoutLLM(t *testing.T) {
	ctx := context.Background()
	events, audit := eventsSetup()

	alerts, err := events.RefreshData(ctx, "u1", "analyst@warden.example")
	gt.NoError(t, err)
	gt.Equal(t, 3, len(alerts))

	stored, err := events.ListAlerts(ctx)
	gt.NoError(t, err)
	gt.Equal(t, 3, len(stored))

	logs, err := audit.ListLogs(ctx)
	gt.NoError(t, err)
	gt.Equal(t, types.ActionRefreshData, logs[0].Action)
}

func TestIngestLogWithoutLLM(t *testing.T) {
	ctx := context.Background()
	events, audit := eventsSetup()

	alerts, err := events.IngestLog(ctx, "fw-export.csv", "text/csv", "u1", "analyst@warden.example")
	gt.NoError(t, err)
	gt.Equal(t, 10, len(alerts))

	logs, err := audit.ListLogs(ctx)
	gt.NoError(t, err)
	gt.Equal(t, types.ActionLogsUploaded, logs[0].Action)
	gt.Equal(t, "fw-export.csv", logs[0].Details)
}

func TestExplainAlertFallback(t *testing.T) {
	ctx := context.Background()
	events, audit := eventsSetup()

	gt.NoError(t, events.AddAlerts(ctx, []*model.Alert{
		{ID: "a1", Severity: types.SeverityCritical, AttackType: types.AttackDDoS},
	}))

	explanation, err := events.ExplainAlert(ctx, "a1", "u1", "analyst@warden.example")
	gt.NoError(t, err)
	gt.NotNil(t, explanation)
	gt.B(t, len(explanation.ShapValues) > 0).True()
	gt.S(t, explanation.LimeSummary).Contains("DDoS")

	logs, err := audit.ListLogs(ctx)
	gt.NoError(t, err)
	gt.Equal(t, types.ActionViewExplanation, logs[0].Action)

	_, err = events.ExplainAlert(ctx, "missing", "u1", "analyst@warden.example")
	gt.Error(t, err)
}

func TestTranslateQueryWithoutLLM(t *testing.T) {
	ctx := context.Background()
	events, _ := eventsSetup()

	result, err := events.TranslateQuery(ctx, "critical alerts from yesterday")
	gt.NoError(t, err)
	gt.Equal(t, "error:Failed to translate query", result)
}

func TestBehavioralAndDroneDataWithoutLLM(t *testing.T) {
	ctx := context.Background()
	events, _ := eventsSetup()

	records, err := events.BehavioralData(ctx, 5)
	gt.NoError(t, err)
	gt.Equal(t, 5, len(records))
	for _, r := range records {
		gt.B(t, r.RiskLevel.IsValid()).True()
	}

	drones, err := events.DroneData(ctx, 4)
	gt.NoError(t, err)
	gt.Equal(t, 4, len(drones))
	for _, d := range drones {
		gt.B(t, d.Status.IsValid()).True()
		gt.B(t, d.Battery >= 0 && d.Battery <= 100).True()
	}
}

func TestEnsureSeededSkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	events, _ := eventsSetup()

	gt.NoError(t, events.AddAlerts(ctx, []*model.Alert{{ID: "a1"}}))
	gt.NoError(t, events.EnsureSeeded(ctx))

	// No background seeding happens for a non-empty store
	time.Sleep(50 * time.Millisecond)
	alerts, err := events.ListAlerts(ctx)
	gt.NoError(t, err)
	gt.Equal(t, 1, len(alerts))
}
