package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/interfaces"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
)

// Hunts manages threat hunting hypotheses and their escalation into
// investigations
type Hunts struct {
	repo          interfaces.Repository
	investigation *Investigation
	audit         *Audit
}

// NewHunts creates a new Hunts use case
func NewHunts(repo interfaces.Repository, investigation *Investigation, audit *Audit) *Hunts {
	return &Hunts{
		repo:          repo,
		investigation: investigation,
		audit:         audit,
	}
}

// List returns all hunts, newest first
func (u *Hunts) List(ctx context.Context) ([]*model.Hunt, error) {
	hunts, err := u.repo.GetHunts(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load hunts")
	}
	return hunts, nil
}

// Save creates or updates a hunt. New hunts are prepended; existing hunts are
// replaced in place.
func (u *Hunts) Save(ctx context.Context, hunt *model.Hunt, actor *model.User) (*model.Hunt, error) {
	if hunt == nil {
		return nil, goerr.New("hunt is required")
	}
	if actor == nil {
		return nil, goerr.New("acting user is required")
	}
	if hunt.Name == "" {
		return nil, goerr.New("hunt name is required")
	}

	hunts, err := u.repo.GetHunts(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load hunts")
	}

	action := types.ActionHuntUpdated
	if hunt.ID == "" {
		hunt.ID = types.NewHuntID()
		hunt.CreatedBy = actor.Email
		hunt.CreatedAt = time.Now()
		hunts = append([]*model.Hunt{hunt}, hunts...)
		action = types.ActionHuntCreated
	} else {
		found := false
		for i, h := range hunts {
			if h.ID == hunt.ID {
				hunts[i] = hunt
				found = true
				break
			}
		}
		if !found {
			return nil, goerr.Wrap(model.ErrHuntNotFound, "no such hunt", goerr.V("huntID", hunt.ID))
		}
	}

	if err := u.repo.PutHunts(ctx, hunts); err != nil {
		return nil, goerr.Wrap(err, "failed to save hunts")
	}

	if err := u.audit.AddLog(ctx, actor.ID, actor.Email, action, hunt.Name); err != nil {
		return nil, err
	}

	return hunt, nil
}

// Delete removes a hunt
func (u *Hunts) Delete(ctx context.Context, id types.HuntID, actor *model.User) error {
	if actor == nil {
		return goerr.New("acting user is required")
	}

	hunts, err := u.repo.GetHunts(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load hunts")
	}

	var name string
	remaining := make([]*model.Hunt, 0, len(hunts))
	for _, h := range hunts {
		if h.ID == id {
			name = h.Name
			continue
		}
		remaining = append(remaining, h)
	}
	if name == "" {
		return goerr.Wrap(model.ErrHuntNotFound, "no such hunt", goerr.V("huntID", id))
	}

	if err := u.repo.PutHunts(ctx, remaining); err != nil {
		return goerr.Wrap(err, "failed to save hunts")
	}

	return u.audit.AddLog(ctx, actor.ID, actor.Email, types.ActionHuntDeleted, name)
}

// Escalate snapshots a hunt as a threat and opens an investigation for it.
// The hunt itself stays in the catalog.
func (u *Hunts) Escalate(ctx context.Context, id types.HuntID, actor *model.User) (*model.Investigation, error) {
	if actor == nil {
		return nil, goerr.New("acting user is required")
	}

	hunts, err := u.repo.GetHunts(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load hunts")
	}

	var hunt *model.Hunt
	for _, h := range hunts {
		if h.ID == id {
			hunt = h
			break
		}
	}
	if hunt == nil {
		return nil, goerr.Wrap(model.ErrHuntNotFound, "no such hunt", goerr.V("huntID", id))
	}

	inv, err := u.investigation.Create(ctx, hunt.ToThreat(time.Now()), actor)
	if err != nil {
		return nil, err
	}

	if err := u.audit.AddLog(ctx, actor.ID, actor.Email, types.ActionHuntEscalated, hunt.Name); err != nil {
		return nil, err
	}

	return inv, nil
}
