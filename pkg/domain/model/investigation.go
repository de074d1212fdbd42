package model

import (
	"time"

	"github.com/secmon-lab/warden/pkg/domain/types"
)

// Member is a user assigned to an investigation team
type Member struct {
	ID    types.UserID `json:"id"`
	Email string       `json:"email"`
}

// TimelineEvent is one narrative entry in an investigation timeline
type TimelineEvent struct {
	ID          types.TimelineEventID   `json:"id"`
	Timestamp   time.Time               `json:"timestamp"`
	Type        types.TimelineEventType `json:"type"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Author      string                  `json:"author"`
}

// EvidenceFile is a named artifact attached to an investigation
type EvidenceFile struct {
	ID        types.EvidenceID `json:"id"`
	Name      string           `json:"name"`
	Type      string           `json:"type"`
	AddedBy   string           `json:"addedBy"`
	Timestamp time.Time        `json:"timestamp"`
	Content   string           `json:"content,omitempty"`
}

// TriageChecklist tracks the triage phase of an investigation
type TriageChecklist struct {
	SeverityConfirmed        bool `json:"severityConfirmed"`
	CheckedForFalsePositives bool `json:"checkedForFalsePositives"`
}

// CorrelationChecklist tracks the correlation phase of an investigation
type CorrelationChecklist struct {
	FoundRelatedEvents      bool `json:"foundRelatedEvents"`
	CorrelatedWithAuditLogs bool `json:"correlatedWithAuditLogs"`
}

// AnalysisChecklist tracks the analysis phase of an investigation
type AnalysisChecklist struct {
	IdentifiedIOCs        bool `json:"identifiedIOCs"`
	ReconstructedTimeline bool `json:"reconstructedTimeline"`
}

// MitigationChecklist tracks the mitigation phase of an investigation
type MitigationChecklist struct {
	ProposedSteps bool `json:"proposedSteps"`
}

// Checklist is the fixed-shape progress tracker of an investigation. All
// sub-items start false; flipping any item while the case is Open promotes
// the case to In Progress.
type Checklist struct {
	Triage      TriageChecklist      `json:"triage"`
	Correlation CorrelationChecklist `json:"correlation"`
	Analysis    AnalysisChecklist    `json:"analysis"`
	Mitigation  MitigationChecklist  `json:"mitigation"`
}

// Investigation is the aggregate root tracking the response to a triggering
// threat. The primary threat is set once at creation and never replaced; the
// team always keeps at least one member.
type Investigation struct {
	ID            types.CaseID     `json:"id"`
	PrimaryThreat ThreatEnvelope   `json:"primaryThreat"`
	Team          []Member         `json:"team"`
	Status        types.CaseStatus `json:"status"`
	StartTime     time.Time        `json:"startTime"`
	EndTime       *time.Time       `json:"endTime,omitempty"`
	Checklist     Checklist        `json:"checklist"`
	Notes         string           `json:"notes"`
	Timeline      []TimelineEvent  `json:"timeline"`
	Evidence      []EvidenceFile   `json:"evidence"`
}

// HasMember reports whether the given user is on the investigation team
func (inv *Investigation) HasMember(id types.UserID) bool {
	for _, m := range inv.Team {
		if m.ID == id {
			return true
		}
	}
	return false
}

// IsClosed reports whether the investigation has reached its terminal status
func (inv *Investigation) IsClosed() bool {
	return inv.Status == types.CaseStatusClosed
}
