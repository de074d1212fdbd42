package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/interfaces"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/service/llm"
	"github.com/secmon-lab/warden/pkg/service/query"
	"github.com/secmon-lab/warden/pkg/service/simdata"
	"github.com/secmon-lab/warden/pkg/utils/async"
)

const (
	// Initial seeding of the event lake: seedBatches batches of seedBatchSize
	// alerts each, written incrementally so the dashboard fills up live
	seedBatchSize = 100
	seedBatches   = 5
	seedDelay     = 500 * time.Millisecond

	refreshCount = 3
)

// Events manages the alert event store: listing, searching, ingestion and
// simulated data generation. The LLM service is optional; without it the
// local generator provides the simulated data.
type Events struct {
	repo  interfaces.Repository
	llm   *llm.Service
	sim   *simdata.Generator
	audit *Audit
}

// NewEvents creates a new Events use case. llmSvc may be nil.
func NewEvents(repo interfaces.Repository, llmSvc *llm.Service, audit *Audit) *Events {
	return &Events{
		repo:  repo,
		llm:   llmSvc,
		sim:   simdata.New(),
		audit: audit,
	}
}

// ListAlerts returns all stored alerts, newest additions first
func (u *Events) ListAlerts(ctx context.Context) ([]*model.Alert, error) {
	alerts, err := u.repo.GetAlerts(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load alerts")
	}
	return alerts, nil
}

// SearchAlerts filters the stored alerts with a structured query string
func (u *Events) SearchAlerts(ctx context.Context, q string) ([]*model.Alert, error) {
	alerts, err := u.repo.GetAlerts(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load alerts")
	}
	return query.Filter(alerts, q), nil
}

// AddAlerts prepends new alerts to the store
func (u *Events) AddAlerts(ctx context.Context, alerts []*model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	stored, err := u.repo.GetAlerts(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load alerts")
	}

	if err := u.repo.PutAlerts(ctx, append(alerts, stored...)); err != nil {
		return goerr.Wrap(err, "failed to save alerts")
	}

	return nil
}

// EnsureSeeded fills an empty event store in the background. Already-seeded
// stores are left untouched.
func (u *Events) EnsureSeeded(ctx context.Context) error {
	alerts, err := u.repo.GetAlerts(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load alerts")
	}
	if len(alerts) > 0 {
		return nil
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		logger := ctxlog.From(ctx)
		logger.Info("Seeding event store", "batches", seedBatches, "batchSize", seedBatchSize)

		for i := 0; i < seedBatches; i++ {
			batch, err := u.generateAlerts(ctx, seedBatchSize)
			if err != nil {
				return goerr.Wrap(err, "failed to generate seed batch", goerr.V("batch", i))
			}
			if err := u.AddAlerts(ctx, batch); err != nil {
				return goerr.Wrap(err, "failed to store seed batch", goerr.V("batch", i))
			}
			time.Sleep(seedDelay)
		}

		logger.Info("Event store seeding complete")
		return nil
	})

	return nil
}

// RefreshData generates a handful of fresh alerts on demand and records the
// manual refresh in the audit trail
func (u *Events) RefreshData(ctx context.Context, userID types.UserID, userEmail string) ([]*model.Alert, error) {
	var alerts []*model.Alert
	var err error
	if u.llm != nil {
		alerts, err = u.llm.GenerateNewAlerts(ctx, refreshCount)
	}
	if u.llm == nil || err != nil {
		alerts, err = u.sim.GenerateAlerts(ctx, refreshCount)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate fresh alerts")
	}

	if err := u.AddAlerts(ctx, alerts); err != nil {
		return nil, err
	}

	if err := u.audit.AddLog(ctx, userID, userEmail, types.ActionRefreshData, ""); err != nil {
		return nil, err
	}

	return alerts, nil
}

// IngestLog simulates parsing an uploaded log file into alerts
func (u *Events) IngestLog(ctx context.Context, fileName, fileType string, userID types.UserID, userEmail string) ([]*model.Alert, error) {
	var alerts []*model.Alert
	var err error
	if u.llm != nil {
		alerts, err = u.llm.GenerateAlertsFromLog(ctx, fileName, fileType)
	}
	if u.llm == nil || err != nil {
		alerts, err = u.sim.GenerateAlerts(ctx, 10)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate alerts from log")
	}

	if err := u.AddAlerts(ctx, alerts); err != nil {
		return nil, err
	}

	if err := u.audit.AddLog(ctx, userID, userEmail, types.ActionLogsUploaded, fileName); err != nil {
		return nil, err
	}

	return alerts, nil
}

// ExplainAlert produces an explanation for the classification of an alert
// and records the access in the audit trail
func (u *Events) ExplainAlert(ctx context.Context, alertID types.AlertID, userID types.UserID, userEmail string) (*model.XAIExplanation, error) {
	alerts, err := u.repo.GetAlerts(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load alerts")
	}

	var alert *model.Alert
	for _, a := range alerts {
		if a.ID == alertID {
			alert = a
			break
		}
	}
	if alert == nil {
		return nil, goerr.New("alert not found", goerr.V("alertID", alertID))
	}

	var explanation *model.XAIExplanation
	if u.llm != nil {
		explanation, err = u.llm.GenerateExplanation(ctx, alert)
		if err != nil {
			return nil, err
		}
	} else {
		explanation = fallbackExplanation(alert)
	}

	if err := u.audit.AddLog(ctx, userID, userEmail, types.ActionViewExplanation, alert.ID.String()); err != nil {
		return nil, err
	}

	return explanation, nil
}

// fallbackExplanation builds a deterministic explanation when no LLM is
// configured
func fallbackExplanation(alert *model.Alert) *model.XAIExplanation {
	weight := 0.2 + 0.2*float64(alert.Severity.Level())
	if weight > 0.95 {
		weight = 0.95
	}

	return &model.XAIExplanation{
		ShapValues: []model.ShapValue{
			{Feature: "flow_duration", Value: weight},
			{Feature: "fwd_packet_count", Value: weight * 0.6},
			{Feature: "dst_port_entropy", Value: -0.1},
		},
		LimeSummary: "Traffic characteristics of this flow most closely match the " +
			alert.AttackType.String() + " profile. Severity " + alert.Severity.String() +
			" reflects the confidence of the classifier and the criticality of the destination.",
	}
}

// TranslateQuery converts a natural language request to the query language.
// Without an LLM the translation always fails in-band.
func (u *Events) TranslateQuery(ctx context.Context, nlQuery string) (string, error) {
	if u.llm == nil {
		return llm.TranslateErrorPrefix + "Failed to translate query", nil
	}
	return u.llm.TranslateQuery(ctx, nlQuery)
}

// SummarizeSearch produces a narrative summary of search results. At most
// sampleSize matches are shown to the model.
func (u *Events) SummarizeSearch(ctx context.Context, q string, results []*model.Alert) (string, error) {
	if u.llm == nil {
		return "", goerr.New("search summary requires a configured LLM")
	}

	const sampleSize = 20
	sample := results
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	return u.llm.SearchSummary(ctx, q, sample)
}

// BehavioralData returns simulated UEBA records
func (u *Events) BehavioralData(ctx context.Context, count int) ([]*model.BehavioralAnomaly, error) {
	if u.llm != nil {
		records, err := u.llm.GenerateBehavioralData(ctx, count)
		if err == nil {
			return records, nil
		}
		ctxlog.From(ctx).Warn("LLM behavioral data generation failed, falling back", "error", err)
	}
	return u.sim.GenerateBehavioralData(ctx, count)
}

// DroneData returns simulated drone fleet records
func (u *Events) DroneData(ctx context.Context, count int) ([]*model.Drone, error) {
	if u.llm != nil {
		drones, err := u.llm.GenerateDroneData(ctx, count)
		if err == nil {
			return drones, nil
		}
		ctxlog.From(ctx).Warn("LLM drone data generation failed, falling back", "error", err)
	}
	return u.sim.GenerateDroneData(ctx, count)
}

// generateAlerts uses the LLM when available and falls back to the local
// generator
func (u *Events) generateAlerts(ctx context.Context, count int) ([]*model.Alert, error) {
	if u.llm != nil {
		alerts, err := u.llm.GenerateAlerts(ctx, count)
		if err == nil {
			return alerts, nil
		}
		ctxlog.From(ctx).Warn("LLM alert generation failed, falling back", "error", err)
	}
	return u.sim.GenerateAlerts(ctx, count)
}
