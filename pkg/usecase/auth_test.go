package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/repository"
	"github.com/secmon-lab/warden/pkg/service/otp"
	"github.com/secmon-lab/warden/pkg/usecase"
)

func authSetup() (*usecase.Auth, *usecase.Audit) {
	repo := repository.NewMemory()
	audit := usecase.NewAudit(repo)
	return usecase.NewAuth(repo, otp.New(repo), audit), audit
}

func TestRegisterVerifyLogin(t *testing.T) {
	ctx := context.Background()
	auth, _ := authSetup()

	user, code, err := auth.Register(ctx, "newbie@warden.example", "me@personal.example", "hunter2hunter2")
	gt.NoError(t, err)
	gt.Equal(t, types.UserStatusPending, user.Status)
	gt.Equal(t, types.RoleReadOnly, user.Role)
	gt.Equal(t, types.DepartmentUnassigned, user.Department)
	gt.NotEqual(t, "", code)

	// Pending accounts cannot sign in
	_, _, err = auth.Login(ctx, "newbie@warden.example", "hunter2hunter2")
	gt.Error(t, err)

	verified, err := auth.VerifyAccount(ctx, "newbie@warden.example", code)
	gt.NoError(t, err)
	gt.Equal(t, types.UserStatusActive, verified.Status)

	loggedIn, session, err := auth.Login(ctx, "newbie@warden.example", "hunter2hunter2")
	gt.NoError(t, err)
	gt.Equal(t, verified.ID, loggedIn.ID)
	gt.NotEqual(t, "", session.Secret)

	// The verification code is single-use
	_, err = auth.VerifyAccount(ctx, "newbie@warden.example", code)
	gt.Error(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	auth, _ := authSetup()

	_, _, err := auth.Register(ctx, "dup@warden.example", "", "password1")
	gt.NoError(t, err)

	_, _, err = auth.Register(ctx, "dup@warden.example", "", "password2")
	gt.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	auth, audit := authSetup()

	_, code, err := auth.Register(ctx, "user@warden.example", "", "correct-horse")
	gt.NoError(t, err)
	_, err = auth.VerifyAccount(ctx, "user@warden.example", code)
	gt.NoError(t, err)

	_, _, err = auth.Login(ctx, "user@warden.example", "wrong-horse")
	gt.Error(t, err)

	// The failed attempt is on the audit trail
	logs, err := audit.ListLogs(context.Background())
	gt.NoError(t, err)
	gt.Equal(t, types.ActionLoginFailed, logs[0].Action)
}

func TestSessionValidation(t *testing.T) {
	ctx := context.Background()
	auth, _ := authSetup()

	_, code, err := auth.Register(ctx, "user@warden.example", "", "correct-horse")
	gt.NoError(t, err)
	_, err = auth.VerifyAccount(ctx, "user@warden.example", code)
	gt.NoError(t, err)

	user, session, err := auth.Login(ctx, "user@warden.example", "correct-horse")
	gt.NoError(t, err)

	got, _, err := auth.ValidateSession(ctx, session.ID, session.Secret)
	gt.NoError(t, err)
	gt.Equal(t, user.ID, got.ID)

	// Wrong secret is rejected
	_, _, err = auth.ValidateSession(ctx, session.ID, "not-the-secret")
	gt.Error(t, err)

	// Logout invalidates the session
	gt.NoError(t, auth.Logout(ctx, session.ID))
	_, _, err = auth.ValidateSession(ctx, session.ID, session.Secret)
	gt.Error(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	auth, _ := authSetup()

	_, code, err := auth.Register(ctx, "user@warden.example", "", "old-password")
	gt.NoError(t, err)
	_, err = auth.VerifyAccount(ctx, "user@warden.example", code)
	gt.NoError(t, err)

	resetCode, err := auth.RequestPasswordReset(ctx, "user@warden.example")
	gt.NoError(t, err)
	gt.NotEqual(t, "", resetCode)

	gt.NoError(t, auth.ResetPassword(ctx, "user@warden.example", resetCode, "new-password"))

	_, _, err = auth.Login(ctx, "user@warden.example", "old-password")
	gt.Error(t, err)
	_, _, err = auth.Login(ctx, "user@warden.example", "new-password")
	gt.NoError(t, err)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	ctx := context.Background()
	auth, _ := authSetup()

	// Unknown emails are not revealed to the caller
	code, err := auth.RequestPasswordReset(ctx, "ghost@warden.example")
	gt.NoError(t, err)
	gt.Equal(t, "", code)
}

func TestBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	auth, _ := authSetup()

	cfg := &model.BootstrapConfig{
		Admin: &model.AdminBootstrap{
			Email:    "admin@warden.example",
			Password: "bootstrap-secret",
		},
	}

	gt.NoError(t, auth.Bootstrap(ctx, cfg))

	admin, _, err := auth.Login(ctx, "admin@warden.example", "bootstrap-secret")
	gt.NoError(t, err)
	gt.Equal(t, types.RoleAdmin, admin.Role)
	gt.Equal(t, types.DepartmentSOC, admin.Department)

	// Bootstrapping again is a no-op
	gt.NoError(t, auth.Bootstrap(ctx, cfg))
}
