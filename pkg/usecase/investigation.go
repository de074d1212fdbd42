package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/interfaces"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/service/llm"
)

// Investigation manages the lifecycle of investigation cases
type Investigation struct {
	repo  interfaces.Repository
	llm   *llm.Service
	audit *Audit
}

// NewInvestigation creates a new Investigation use case. llmSvc may be nil.
func NewInvestigation(repo interfaces.Repository, llmSvc *llm.Service, audit *Audit) *Investigation {
	return &Investigation{
		repo:  repo,
		llm:   llmSvc,
		audit: audit,
	}
}

// CasePatch carries the updatable fields of an investigation. Nil fields are
// left unchanged.
type CasePatch struct {
	Status    *types.CaseStatus `json:"status,omitempty"`
	Notes     *string           `json:"notes,omitempty"`
	Checklist *model.Checklist  `json:"checklist,omitempty"`
}

// List returns all investigations, newest first
func (u *Investigation) List(ctx context.Context) ([]*model.Investigation, error) {
	investigations, err := u.repo.GetInvestigations(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load investigations")
	}
	return investigations, nil
}

// Get returns a single investigation by ID
func (u *Investigation) Get(ctx context.Context, id types.CaseID) (*model.Investigation, error) {
	investigations, err := u.repo.GetInvestigations(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load investigations")
	}

	for _, inv := range investigations {
		if inv.ID == id {
			return inv, nil
		}
	}

	return nil, goerr.Wrap(model.ErrCaseNotFound, "no such case", goerr.V("caseID", id))
}

// Create opens a new investigation for the triggering threat. The creator
// becomes the first team member and the initial timeline, notes and evidence
// depend on the threat variant.
func (u *Investigation) Create(ctx context.Context, threat model.Threat, creator *model.User) (*model.Investigation, error) {
	if creator == nil {
		return nil, goerr.New("creator is required")
	}

	envelope, err := model.EncodeThreat(threat)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &model.Investigation{
		ID:            types.NewCaseID(now),
		PrimaryThreat: envelope,
		Team:          []model.Member{{ID: creator.ID, Email: creator.Email}},
		Status:        types.CaseStatusOpen,
		StartTime:     now,
	}

	applyInitialContent(inv, threat, now)

	investigations, err := u.repo.GetInvestigations(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load investigations")
	}

	// Newest case first
	investigations = append([]*model.Investigation{inv}, investigations...)
	if err := u.repo.PutInvestigations(ctx, investigations); err != nil {
		return nil, goerr.Wrap(err, "failed to save investigations")
	}

	if err := u.audit.AddLog(ctx, creator.ID, creator.Email, types.ActionCaseStarted, inv.ID.String()); err != nil {
		return nil, err
	}

	if pt, ok := threat.(*model.PenetrationTestResult); ok {
		if err := u.audit.AddLog(ctx, creator.ID, creator.Email, types.ActionPentestEscalated, pt.TargetDomain); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// applyInitialContent seeds the case narrative for the threat variant
func applyInitialContent(inv *model.Investigation, threat model.Threat, now time.Time) {
	event := model.TimelineEvent{
		ID:        types.NewTimelineEventID(now),
		Timestamp: now,
		Author:    "System",
	}

	switch t := threat.(type) {
	case *model.Alert:
		inv.Notes = fmt.Sprintf("Investigation started from network alert: %s from %s targeting %s.",
			t.AttackType, t.SrcIP, t.DstIP)
		event.Type = types.TimelineEventAlert
		event.Title = "Initial Alert: " + t.AttackType.String()
		event.Description = t.Description

	case *model.BehavioralAnomaly:
		inv.Notes = fmt.Sprintf("Investigation started from behavioral anomaly for %s (risk level %s).",
			t.UserEmail, t.RiskLevel)
		event.Type = types.TimelineEventBehavior
		event.Title = "Behavioral Anomaly: " + t.UserEmail
		event.Description = strings.Join(t.Anomalies, "; ")

	case *model.ThreatHuntResult:
		inv.Notes = fmt.Sprintf("Investigation escalated from threat hunt %q.\n\nFindings:\n%s",
			t.Name, t.Findings)
		event.Type = types.TimelineEventHunt
		event.Title = "Escalated Hunt: " + t.Name
		event.Description = "Hunt query: " + t.Query

	case *model.PenetrationTestResult:
		inv.Notes = fmt.Sprintf("Investigation opened from penetration test of %s. %d vulnerabilities confirmed.",
			t.TargetDomain, len(t.Vulnerabilities))
		event.Type = types.TimelineEventPentest
		event.Title = "Penetration Test: " + t.TargetDomain
		event.Description = fmt.Sprintf("%d confirmed vulnerabilities, %d exploit scripts produced",
			len(t.Vulnerabilities), len(t.ExploitScripts))
		inv.Evidence = pentestEvidence(t, now)

	default:
		inv.Notes = "Investigation started."
		event.Type = types.TimelineEventNote
		event.Title = "Case opened"
	}

	inv.Timeline = []model.TimelineEvent{event}
}

// pentestEvidence synthesizes evidence files from a penetration test result:
// the final report, one script per exploit, and the raw findings
func pentestEvidence(t *model.PenetrationTestResult, now time.Time) []model.EvidenceFile {
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(now.Format(time.RFC3339))
	base := t.TargetDomain + "_" + stamp

	evidence := []model.EvidenceFile{{
		ID:        types.NewEvidenceID(now),
		Name:      base + "_Report.md",
		Type:      "text/markdown",
		AddedBy:   "System",
		Timestamp: now,
		Content:   t.FinalReport,
	}}

	for i, script := range t.ExploitScripts {
		evidence = append(evidence, model.EvidenceFile{
			ID:        types.EvidenceID(fmt.Sprintf("%s-%d", types.NewEvidenceID(now), i+1)),
			Name:      base + "_Exploit_" + script.CVEID + ".py",
			Type:      "text/x-python",
			AddedBy:   "System",
			Timestamp: now,
			Content:   script.Script,
		})
	}

	raw, err := json.MarshalIndent(map[string]any{
		"recon":           t.ReconData,
		"vulnerabilities": t.Vulnerabilities,
	}, "", "  ")
	if err != nil {
		raw = []byte("{}")
	}

	evidence = append(evidence, model.EvidenceFile{
		ID:        types.EvidenceID(fmt.Sprintf("%s-raw", types.NewEvidenceID(now))),
		Name:      base + "_RawData.json",
		Type:      "application/json",
		AddedBy:   "System",
		Timestamp: now,
		Content:   string(raw),
	})

	return evidence
}

// Update applies a shallow patch to a case. Flipping any checklist item while
// the case is Open promotes it to In Progress; transitioning to Closed stamps
// the end time once. Closed cases stay editable.
func (u *Investigation) Update(ctx context.Context, id types.CaseID, patch CasePatch, actor *model.User) (*model.Investigation, error) {
	return u.mutate(ctx, id, func(inv *model.Investigation) (types.LogAction, string, error) {
		action := types.ActionCaseUpdated
		details := inv.ID.String()

		if patch.Checklist != nil {
			changed := *patch.Checklist != inv.Checklist
			inv.Checklist = *patch.Checklist
			if changed && inv.Status == types.CaseStatusOpen && patch.Status == nil {
				inv.Status = types.CaseStatusInProgress
			}
		}

		if patch.Notes != nil {
			inv.Notes = *patch.Notes
		}

		if patch.Status != nil {
			if !patch.Status.IsValid() {
				return "", "", goerr.New("invalid case status", goerr.V("status", *patch.Status))
			}
			closing := *patch.Status == types.CaseStatusClosed && inv.Status != types.CaseStatusClosed
			inv.Status = *patch.Status
			if closing {
				if inv.EndTime == nil {
					now := time.Now()
					inv.EndTime = &now
				}
				action = types.ActionCaseClosed
			}
		}

		return action, details, nil
	}, actor)
}

// AddTimelineEvent appends a narrative event and keeps the timeline sorted by
// timestamp, oldest first
func (u *Investigation) AddTimelineEvent(ctx context.Context, id types.CaseID, eventType types.TimelineEventType, title, description string, timestamp time.Time, actor *model.User) (*model.Investigation, error) {
	if !eventType.IsValid() {
		return nil, goerr.New("invalid timeline event type", goerr.V("type", eventType))
	}
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	return u.mutate(ctx, id, func(inv *model.Investigation) (types.LogAction, string, error) {
		inv.Timeline = append(inv.Timeline, model.TimelineEvent{
			ID:          types.NewTimelineEventID(time.Now()),
			Timestamp:   timestamp,
			Type:        eventType,
			Title:       title,
			Description: description,
			Author:      actor.Email,
		})
		sort.SliceStable(inv.Timeline, func(i, j int) bool {
			return inv.Timeline[i].Timestamp.Before(inv.Timeline[j].Timestamp)
		})
		return types.ActionTimelineEventAdded, inv.ID.String(), nil
	}, actor)
}

// AddEvidence prepends an evidence file to the case
func (u *Investigation) AddEvidence(ctx context.Context, id types.CaseID, name, fileType, content string, actor *model.User) (*model.Investigation, error) {
	if name == "" {
		return nil, goerr.New("evidence name is required")
	}

	return u.mutate(ctx, id, func(inv *model.Investigation) (types.LogAction, string, error) {
		inv.Evidence = append([]model.EvidenceFile{{
			ID:        types.NewEvidenceID(time.Now()),
			Name:      name,
			Type:      fileType,
			AddedBy:   actor.Email,
			Timestamp: time.Now(),
			Content:   content,
		}}, inv.Evidence...)
		return types.ActionEvidenceAdded, name, nil
	}, actor)
}

// AddTeamMember adds a user to the case team. Adding an existing member is a
// no-op and is not audited.
func (u *Investigation) AddTeamMember(ctx context.Context, id types.CaseID, member model.Member, actor *model.User) (*model.Investigation, error) {
	return u.mutate(ctx, id, func(inv *model.Investigation) (types.LogAction, string, error) {
		if inv.HasMember(member.ID) {
			return "", "", nil
		}
		inv.Team = append(inv.Team, member)
		return types.ActionCaseMemberAdded, member.Email, nil
	}, actor)
}

// RemoveTeamMember removes a user from the case team. The last member cannot
// be removed.
func (u *Investigation) RemoveTeamMember(ctx context.Context, id types.CaseID, memberID types.UserID, actor *model.User) (*model.Investigation, error) {
	return u.mutate(ctx, id, func(inv *model.Investigation) (types.LogAction, string, error) {
		// The guard fires before membership is checked, so a single-member
		// team rejects any removal attempt
		if len(inv.Team) <= 1 {
			return "", "", goerr.Wrap(model.ErrLastTeamMember, "refusing to empty the team",
				goerr.V("caseID", inv.ID))
		}
		if !inv.HasMember(memberID) {
			return "", "", nil
		}

		var removed string
		team := make([]model.Member, 0, len(inv.Team)-1)
		for _, m := range inv.Team {
			if m.ID == memberID {
				removed = m.Email
				continue
			}
			team = append(team, m)
		}
		inv.Team = team
		return types.ActionCaseMemberRemoved, removed, nil
	}, actor)
}

// GenerateReport writes a formal report for the case via the LLM
func (u *Investigation) GenerateReport(ctx context.Context, id types.CaseID) (string, error) {
	if u.llm == nil {
		return "", goerr.New("report generation requires a configured LLM")
	}

	inv, err := u.Get(ctx, id)
	if err != nil {
		return "", err
	}

	return u.llm.GenerateReport(ctx, inv)
}

// Insights answers a freeform analyst question about a case via the LLM
func (u *Investigation) Insights(ctx context.Context, prompt string) (string, error) {
	if u.llm == nil {
		return "", goerr.New("investigation insights require a configured LLM")
	}
	return u.llm.InvestigationInsights(ctx, prompt)
}

// mutate loads the collection, applies fn to the target case, persists the
// whole collection and records the returned audit action. An empty action
// skips the audit entry.
func (u *Investigation) mutate(ctx context.Context, id types.CaseID, fn func(*model.Investigation) (types.LogAction, string, error), actor *model.User) (*model.Investigation, error) {
	if actor == nil {
		return nil, goerr.New("acting user is required")
	}

	investigations, err := u.repo.GetInvestigations(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load investigations")
	}

	var target *model.Investigation
	for _, inv := range investigations {
		if inv.ID == id {
			target = inv
			break
		}
	}
	if target == nil {
		return nil, goerr.Wrap(model.ErrCaseNotFound, "no such case", goerr.V("caseID", id))
	}

	action, details, err := fn(target)
	if err != nil {
		return nil, err
	}

	if err := u.repo.PutInvestigations(ctx, investigations); err != nil {
		return nil, goerr.Wrap(err, "failed to save investigations")
	}

	if action != "" {
		if err := u.audit.AddLog(ctx, actor.ID, actor.Email, action, details); err != nil {
			return nil, err
		}
	}

	return target, nil
}
