package query_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/service/query"
)

func testAlert(i int, attack types.AttackType, severity types.Severity) *model.Alert {
	return &model.Alert{
		ID:          types.AlertID(fmt.Sprintf("a%d", i)),
		Timestamp:   time.Date(2024, 6, 1, 12, i, 0, 0, time.UTC),
		SrcIP:       fmt.Sprintf("10.0.0.%d", i),
		DstIP:       "192.168.1.1",
		Protocol:    types.ProtocolTCP,
		AttackType:  attack,
		Severity:    severity,
		Description: "test alert",
	}
}

func TestFilterBlankQueryReturnsAll(t *testing.T) {
	alerts := []*model.Alert{
		testAlert(1, types.AttackDoS, types.SeverityCritical),
		testAlert(2, types.AttackBot, types.SeverityLow),
		testAlert(3, types.AttackPortScan, types.SeverityHigh),
	}

	for _, q := range []string{"", "   ", "\t \n"} {
		t.Run(fmt.Sprintf("query=%q", q), func(t *testing.T) {
			got := query.Filter(alerts, q)
			gt.Equal(t, len(alerts), len(got))
			for i := range alerts {
				gt.Equal(t, alerts[i].ID, got[i].ID)
			}
		})
	}
}

func TestFilterANDSemantics(t *testing.T) {
	alerts := []*model.Alert{
		testAlert(1, types.AttackDoS, types.SeverityCritical),
		testAlert(2, types.AttackDoS, types.SeverityLow),
		testAlert(3, types.AttackBot, types.SeverityCritical),
		testAlert(4, types.AttackBot, types.SeverityLow),
	}

	got := query.Filter(alerts, `severity="Critical" AND attack_type="DoS"`)
	gt.Equal(t, 1, len(got))
	gt.Equal(t, types.AlertID("a1"), got[0].ID)
}

func TestFilterCaseInsensitiveMatch(t *testing.T) {
	alerts := []*model.Alert{
		testAlert(1, types.AttackWebAttack, types.SeverityHigh),
		testAlert(2, types.AttackBenign, types.SeverityLow),
	}

	got := query.Filter(alerts, `severity="HIGH" AND attack_type="web attack"`)
	gt.Equal(t, 1, len(got))
	gt.Equal(t, types.AlertID("a1"), got[0].ID)

	// Operators are matched case-insensitively too
	got = query.Filter(alerts, `severity="Low" or severity="High"`)
	gt.Equal(t, 2, len(got))
}

func TestFilterLeftFoldORSemantics(t *testing.T) {
	// `A AND B OR C` must evaluate as A AND (B OR C): a record satisfying
	// C but not A is excluded, which standard precedence would include.
	satisfiesOnlyC := testAlert(1, types.AttackBot, types.SeverityLow)
	satisfiesOnlyC.SrcIP = "9.9.9.9"

	satisfiesAAndB := testAlert(2, types.AttackDoS, types.SeverityCritical)
	satisfiesAAndB.SrcIP = "1.2.3.4"

	satisfiesAAndC := testAlert(3, types.AttackBot, types.SeverityLow)
	satisfiesAAndC.SrcIP = "1.2.3.4"

	alerts := []*model.Alert{satisfiesOnlyC, satisfiesAAndB, satisfiesAAndC}

	// A: src_ip=1.2.3.4, B: severity=Critical, C: attack_type=Bot
	got := query.Filter(alerts, `src_ip="1.2.3.4" AND severity="Critical" OR attack_type="Bot"`)
	gt.Equal(t, 2, len(got))
	gt.Equal(t, types.AlertID("a2"), got[0].ID)
	gt.Equal(t, types.AlertID("a3"), got[1].ID)
}

func TestFilterConsecutiveORs(t *testing.T) {
	alerts := []*model.Alert{
		testAlert(1, types.AttackDoS, types.SeverityCritical),
		testAlert(2, types.AttackBot, types.SeverityHigh),
		testAlert(3, types.AttackPortScan, types.SeverityMedium),
		testAlert(4, types.AttackBenign, types.SeverityLow),
	}

	got := query.Filter(alerts, `severity="Critical" OR severity="High" OR severity="Medium"`)
	gt.Equal(t, 3, len(got))
}

func TestFilterMalformedTermsDropped(t *testing.T) {
	alerts := []*model.Alert{
		testAlert(1, types.AttackDoS, types.SeverityCritical),
		testAlert(2, types.AttackBot, types.SeverityLow),
	}

	wellFormed := query.Filter(alerts, `severity="Critical"`)
	withMalformed := query.Filter(alerts, `severity="Critical" AND thisisnotaterm`)
	gt.Equal(t, len(wellFormed), len(withMalformed))
	gt.Equal(t, wellFormed[0].ID, withMalformed[0].ID)

	// A query with zero parseable terms behaves like a blank query
	got := query.Filter(alerts, `!!! ??? AND ===`)
	gt.Equal(t, len(alerts), len(got))
}

func TestFilterUnquotedValues(t *testing.T) {
	alerts := []*model.Alert{
		testAlert(1, types.AttackDoS, types.SeverityCritical),
		testAlert(2, types.AttackBot, types.SeverityLow),
	}

	got := query.Filter(alerts, `severity=Critical`)
	gt.Equal(t, 1, len(got))
	gt.Equal(t, types.AlertID("a1"), got[0].ID)
}

func TestFilterUnknownFieldNeverMatches(t *testing.T) {
	alerts := []*model.Alert{
		testAlert(1, types.AttackDoS, types.SeverityCritical),
	}

	got := query.Filter(alerts, `nosuchfield="x"`)
	gt.Equal(t, 0, len(got))
}

func TestParseReturnsNoPredicatesForBlank(t *testing.T) {
	gt.Equal(t, 0, len(query.Parse("")))
	gt.Equal(t, 0, len(query.Parse("   ")))
}
