package usecase

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/interfaces"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
)

// Calendar manages shared department calendars
type Calendar struct {
	repo interfaces.Repository
}

// NewCalendar creates a new Calendar use case
func NewCalendar(repo interfaces.Repository) *Calendar {
	return &Calendar{repo: repo}
}

// ListForDepartment returns a department's events sorted by date ascending
func (u *Calendar) ListForDepartment(ctx context.Context, dept types.Department) ([]*model.CalendarEvent, error) {
	if !dept.IsValid() {
		return nil, goerr.New("invalid department", goerr.V("department", dept))
	}

	events, err := u.repo.GetCalendarEvents(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load calendar")
	}

	var mine []*model.CalendarEvent
	for _, e := range events {
		if e.Department == dept {
			mine = append(mine, e)
		}
	}

	// Dates are YYYY-MM-DD, so lexical order is chronological order
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].Date < mine[j].Date
	})

	return mine, nil
}

// Create adds an event to a department calendar
func (u *Calendar) Create(ctx context.Context, dept types.Department, title, date, description string, actor *model.User) (*model.CalendarEvent, error) {
	if actor == nil {
		return nil, goerr.New("acting user is required")
	}

	event := model.NewCalendarEvent(dept, title, date, description, actor.Email)
	if err := event.Validate(); err != nil {
		return nil, err
	}

	events, err := u.repo.GetCalendarEvents(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load calendar")
	}

	events = append(events, event)

	if err := u.repo.PutCalendarEvents(ctx, events); err != nil {
		return nil, goerr.Wrap(err, "failed to save calendar")
	}

	return event, nil
}
