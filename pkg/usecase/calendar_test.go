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

func TestCalendarDepartmentView(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	calendar := usecase.NewCalendar(repo)

	soc := &model.User{ID: "u-soc", Email: "soc@w", Role: types.RoleAnalyst,
		Department: types.DepartmentSOC, Status: types.UserStatusActive}
	blue := &model.User{ID: "u-blue", Email: "blue@w", Role: types.RoleAnalyst,
		Department: types.DepartmentBlueTeam, Status: types.UserStatusActive}

	// Created out of date order
	_, err := calendar.Create(ctx, types.DepartmentSOC, "Tabletop exercise", "2025-07-20", "", soc)
	gt.NoError(t, err)
	_, err = calendar.Create(ctx, types.DepartmentSOC, "Shift handover", "2025-07-01", "night to day", soc)
	gt.NoError(t, err)
	_, err = calendar.Create(ctx, types.DepartmentBlueTeam, "Patch window", "2025-07-10", "", blue)
	gt.NoError(t, err)

	// Department view is filtered and sorted by date ascending
	events, err := calendar.ListForDepartment(ctx, types.DepartmentSOC)
	gt.NoError(t, err)
	gt.Equal(t, 2, len(events))
	gt.Equal(t, "Shift handover", events[0].Title)
	gt.Equal(t, "Tabletop exercise", events[1].Title)
	gt.Equal(t, "soc@w", events[0].CreatedBy)

	other, err := calendar.ListForDepartment(ctx, types.DepartmentBlueTeam)
	gt.NoError(t, err)
	gt.Equal(t, 1, len(other))
	gt.Equal(t, "Patch window", other[0].Title)

	empty, err := calendar.ListForDepartment(ctx, types.DepartmentRedTeam)
	gt.NoError(t, err)
	gt.Equal(t, 0, len(empty))
}

func TestCalendarCreateValidation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	calendar := usecase.NewCalendar(repo)

	actor := &model.User{ID: "u1", Email: "a@w", Role: types.RoleAnalyst,
		Department: types.DepartmentSOC, Status: types.UserStatusActive}

	_, err := calendar.Create(ctx, types.DepartmentSOC, "", "2025-07-01", "", actor)
	gt.Error(t, err)

	_, err = calendar.Create(ctx, types.DepartmentSOC, "Bad date", "July 1st", "", actor)
	gt.Error(t, err)

	_, err = calendar.Create(ctx, types.Department("Purple Team"), "Wrong dept", "2025-07-01", "", actor)
	gt.Error(t, err)

	_, err = calendar.Create(ctx, types.DepartmentSOC, "No actor", "2025-07-01", "", nil)
	gt.Error(t, err)

	_, err = calendar.ListForDepartment(ctx, types.Department("Purple Team"))
	gt.Error(t, err)

	events, err := repo.GetCalendarEvents(ctx)
	gt.NoError(t, err)
	gt.Equal(t, 0, len(events))
}
