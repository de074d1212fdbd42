package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/types"
)

// Threat is the tagged union of artifacts that can seed an investigation:
// Alert, BehavioralAnomaly, ThreatHuntResult and PenetrationTestResult.
// The discriminant is the kind tag, checked exhaustively at the use sites.
type Threat interface {
	ThreatKind() types.ThreatKind
	ThreatID() string
}

// BehavioralAnomaly represents a user behavior analytics finding
type BehavioralAnomaly struct {
	ID            string          `json:"id"`
	UserEmail     string          `json:"userEmail"`
	BaselineScore int             `json:"baselineScore"`
	CurrentScore  int             `json:"currentScore"`
	Anomalies     []string        `json:"anomalies"`
	RiskLevel     types.RiskLevel `json:"riskLevel"`
}

// ThreatKind implements the Threat union
func (b *BehavioralAnomaly) ThreatKind() types.ThreatKind {
	return types.ThreatKindBehavior
}

// ThreatID implements the Threat union
func (b *BehavioralAnomaly) ThreatID() string {
	return b.ID
}

// ThreatHuntResult is the snapshot of a hunt taken when it is escalated to an
// investigation
type ThreatHuntResult struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Query     string    `json:"query"`
	Findings  string    `json:"findings"`
	CreatedAt time.Time `json:"createdAt"`
}

// ThreatKind implements the Threat union
func (h *ThreatHuntResult) ThreatKind() types.ThreatKind {
	return types.ThreatKindHunt
}

// ThreatID implements the Threat union
func (h *ThreatHuntResult) ThreatID() string {
	return h.ID
}

// ReconData holds the reconnaissance findings of a penetration test
type ReconData struct {
	Subdomains               []string     `json:"subdomains"`
	OpenPorts                []OpenPort   `json:"open_ports"`
	Technologies             []Technology `json:"technologies"`
	PotentialVulnerabilities []string     `json:"potential_vulnerabilities"`
}

// OpenPort describes a discovered open port
type OpenPort struct {
	Port        int    `json:"port"`
	Service     string `json:"service"`
	Description string `json:"description"`
}

// Technology describes a detected technology on the target
type Technology struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Vulnerability describes a confirmed finding of a penetration test
type Vulnerability struct {
	CVEID          string `json:"cve_id"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// ExploitScript is a proof-of-concept script produced for a vulnerability
type ExploitScript struct {
	CVEID  string `json:"cve_id"`
	Script string `json:"script"`
}

// PenetrationTestResult is the full output of a penetration test run
type PenetrationTestResult struct {
	ID              string          `json:"id"`
	TargetDomain    string          `json:"targetDomain"`
	ReconData       ReconData       `json:"reconData"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	ExploitScripts  []ExploitScript `json:"exploitScripts"`
	FinalReport     string          `json:"finalReport"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ThreatKind implements the Threat union
func (p *PenetrationTestResult) ThreatKind() types.ThreatKind {
	return types.ThreatKindPentest
}

// ThreatID implements the Threat union
func (p *PenetrationTestResult) ThreatID() string {
	return p.ID
}

// ThreatEnvelope is the persisted form of a Threat: the discriminant kind tag
// plus the JSON encoding of the concrete variant
type ThreatEnvelope struct {
	Kind types.ThreatKind `json:"kind"`
	Data json.RawMessage  `json:"data"`
}

// EncodeThreat wraps a concrete threat into its persisted envelope
func EncodeThreat(threat Threat) (ThreatEnvelope, error) {
	if threat == nil {
		return ThreatEnvelope{}, goerr.Wrap(ErrUnknownThreat, "threat is nil")
	}

	data, err := json.Marshal(threat)
	if err != nil {
		return ThreatEnvelope{}, goerr.Wrap(err, "failed to encode threat",
			goerr.V("kind", threat.ThreatKind()))
	}

	return ThreatEnvelope{
		Kind: threat.ThreatKind(),
		Data: data,
	}, nil
}

// Decode restores the concrete threat variant from the envelope
func (e ThreatEnvelope) Decode() (Threat, error) {
	var threat Threat
	switch e.Kind {
	case types.ThreatKindAlert:
		threat = &Alert{}
	case types.ThreatKindBehavior:
		threat = &BehavioralAnomaly{}
	case types.ThreatKindHunt:
		threat = &ThreatHuntResult{}
	case types.ThreatKindPentest:
		threat = &PenetrationTestResult{}
	default:
		return nil, goerr.Wrap(ErrUnknownThreat, "unknown threat kind",
			goerr.V("kind", e.Kind))
	}

	if err := json.Unmarshal(e.Data, threat); err != nil {
		return nil, goerr.Wrap(err, "failed to decode threat",
			goerr.V("kind", e.Kind))
	}

	return threat, nil
}
