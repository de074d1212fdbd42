package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/repository"
	"github.com/secmon-lab/warden/pkg/usecase"
)

func huntSetup() (*usecase.Hunts, *usecase.Investigation) {
	repo := repository.NewMemory()
	audit := usecase.NewAudit(repo)
	investigation := usecase.NewInvestigation(repo, nil, audit)
	return usecase.NewHunts(repo, investigation, audit), investigation
}

func TestHuntCreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	hunts, _ := huntSetup()
	actor := testUser("u1", "hunter@warden.example")

	first, err := hunts.Save(ctx, &model.Hunt{
		Name:       "C2 beaconing",
		Hypothesis: "Bot traffic hides in periodic DNS lookups",
		Query:      `attack_type="Bot"`,
	}, actor)
	gt.NoError(t, err)
	gt.NotEqual(t, types.HuntID(""), first.ID)
	gt.Equal(t, actor.Email, first.CreatedBy)

	second, err := hunts.Save(ctx, &model.Hunt{Name: "Slow scans", Query: `attack_type="Port Scan"`}, actor)
	gt.NoError(t, err)

	// Newest hunt first
	list, err := hunts.List(ctx)
	gt.NoError(t, err)
	gt.Equal(t, 2, len(list))
	gt.Equal(t, second.ID, list[0].ID)

	// Update in place keeps the position
	second.Findings = "three hosts scanning 22/tcp"
	_, err = hunts.Save(ctx, second, actor)
	gt.NoError(t, err)
	list, err = hunts.List(ctx)
	gt.NoError(t, err)
	gt.Equal(t, 2, len(list))
	gt.Equal(t, "three hosts scanning 22/tcp", list[0].Findings)

	gt.NoError(t, hunts.Delete(ctx, first.ID, actor))
	list, err = hunts.List(ctx)
	gt.NoError(t, err)
	gt.Equal(t, 1, len(list))

	gt.Error(t, hunts.Delete(ctx, first.ID, actor))
}

func TestHuntEscalation(t *testing.T) {
	ctx := context.Background()
	hunts, investigation := huntSetup()
	actor := testUser("u1", "hunter@warden.example")

	hunt, err := hunts.Save(ctx, &model.Hunt{
		Name:     "C2 beaconing",
		Query:    `attack_type="Bot"`,
		Findings: "periodic callbacks to 203.0.113.66",
	}, actor)
	gt.NoError(t, err)

	inv, err := hunts.Escalate(ctx, hunt.ID, actor)
	gt.NoError(t, err)

	gt.Equal(t, types.CaseStatusOpen, inv.Status)
	gt.S(t, inv.Notes).Contains("C2 beaconing")
	gt.S(t, inv.Notes).Contains("periodic callbacks")

	threat, err := inv.PrimaryThreat.Decode()
	gt.NoError(t, err)
	result, ok := threat.(*model.ThreatHuntResult)
	gt.Equal(t, true, ok)
	gt.Equal(t, hunt.ID.String(), result.ID)

	// The hunt stays in the catalog after escalation
	list, err := hunts.List(ctx)
	gt.NoError(t, err)
	gt.Equal(t, 1, len(list))

	// And the case is listed
	cases, err := investigation.List(ctx)
	gt.NoError(t, err)
	gt.Equal(t, 1, len(cases))
}
