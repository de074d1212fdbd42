package model

import (
	"time"

	"github.com/secmon-lab/warden/pkg/domain/types"
)

// Hunt is an analyst-authored threat hunting hypothesis with its query and
// recorded findings
type Hunt struct {
	ID         types.HuntID `json:"id"`
	Name       string       `json:"name"`
	Hypothesis string       `json:"hypothesis"`
	Query      string       `json:"query"`
	Findings   string       `json:"findings"`
	CreatedBy  string       `json:"createdBy"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// ToThreat snapshots the hunt as an escalation artifact. The result carries
// the hunt's own ID and the escalation time.
func (h *Hunt) ToThreat(escalatedAt time.Time) *ThreatHuntResult {
	return &ThreatHuntResult{
		ID:        h.ID.String(),
		Name:      h.Name,
		Query:     h.Query,
		Findings:  h.Findings,
		CreatedAt: escalatedAt,
	}
}
