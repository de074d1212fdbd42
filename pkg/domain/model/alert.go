package model

import (
	"time"

	"github.com/secmon-lab/warden/pkg/domain/types"
)

// Alert represents a single network intrusion event record. Alerts are
// immutable once created; they are produced by the AI collaborator or the
// simulated ingestion path and appended to the event store.
type Alert struct {
	ID          types.AlertID    `json:"id"`
	Timestamp   time.Time        `json:"timestamp"`
	SrcIP       string           `json:"src_ip"`
	DstIP       string           `json:"dst_ip"`
	Protocol    types.Protocol   `json:"protocol"`
	AttackType  types.AttackType `json:"attack_type"`
	Severity    types.Severity   `json:"severity"`
	Description string           `json:"description"`
}

// ThreatKind implements the Threat union
func (a *Alert) ThreatKind() types.ThreatKind {
	return types.ThreatKindAlert
}

// ThreatID implements the Threat union
func (a *Alert) ThreatID() string {
	return a.ID.String()
}

// Field returns the string form of the named alert field for query matching.
// Unknown field names report ok=false.
func (a *Alert) Field(name string) (string, bool) {
	switch name {
	case "id":
		return a.ID.String(), true
	case "timestamp":
		return a.Timestamp.Format(time.RFC3339), true
	case "src_ip":
		return a.SrcIP, true
	case "dst_ip":
		return a.DstIP, true
	case "protocol":
		return a.Protocol.String(), true
	case "attack_type":
		return a.AttackType.String(), true
	case "severity":
		return a.Severity.String(), true
	case "description":
		return a.Description, true
	default:
		return "", false
	}
}
