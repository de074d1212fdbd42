package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/interfaces"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"golang.org/x/crypto/bcrypt"
)

const systemSender = "System"

// Users implements the administrative account operations. Privileged changes
// notify the other Admins and Security Managers through the inbox.
type Users struct {
	repo  interfaces.Repository
	audit *Audit
	inbox *Inbox
}

// NewUsers creates a new Users use case
func NewUsers(repo interfaces.Repository, audit *Audit, inbox *Inbox) *Users {
	return &Users{
		repo:  repo,
		audit: audit,
		inbox: inbox,
	}
}

// List returns all accounts
func (u *Users) List(ctx context.Context) ([]*model.User, error) {
	users, err := u.repo.GetUsers(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load users")
	}
	return users, nil
}

// Create provisions an Active account on behalf of an administrator
func (u *Users) Create(ctx context.Context, actor *model.User, email, personalEmail, password string, role types.Role, dept types.Department) (*model.User, error) {
	if actor == nil {
		return nil, goerr.New("acting user is required")
	}
	if email == "" || password == "" {
		return nil, goerr.New("email and password are required")
	}
	if !role.IsValid() {
		return nil, goerr.New("invalid role", goerr.V("role", role))
	}
	if !dept.IsValid() {
		return nil, goerr.New("invalid department", goerr.V("department", dept))
	}

	users, err := u.repo.GetUsers(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load users")
	}
	if findUser(users, email) != nil {
		return nil, goerr.Wrap(model.ErrEmailTaken, "account creation rejected")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to hash password")
	}

	user := model.NewUser(email, personalEmail, string(hash), role, types.UserStatusActive, dept)
	if err := u.repo.PutUsers(ctx, append(users, user)); err != nil {
		return nil, goerr.Wrap(err, "failed to save users")
	}

	if err := u.audit.AddLog(ctx, actor.ID, actor.Email, types.ActionUserCreated, user.Email); err != nil {
		return nil, err
	}
	if err := u.notify(ctx, actor, fmt.Sprintf("%s created account %s with role %s", actor.Email, user.Email, role)); err != nil {
		return nil, err
	}

	return user, nil
}

// SetRole changes the role of an account
func (u *Users) SetRole(ctx context.Context, actor *model.User, userID types.UserID, role types.Role) (*model.User, error) {
	if !role.IsValid() {
		return nil, goerr.New("invalid role", goerr.V("role", role))
	}
	return u.change(ctx, actor, userID, types.ActionUserRoleChanged,
		func(user *model.User) string {
			old := user.Role
			user.Role = role
			return fmt.Sprintf("%s changed role of %s from %s to %s", actor.Email, user.Email, old, role)
		})
}

// SetStatus changes the status of an account
func (u *Users) SetStatus(ctx context.Context, actor *model.User, userID types.UserID, status types.UserStatus) (*model.User, error) {
	if !status.IsValid() {
		return nil, goerr.New("invalid status", goerr.V("status", status))
	}
	return u.change(ctx, actor, userID, types.ActionUserStatusChanged,
		func(user *model.User) string {
			old := user.Status
			user.Status = status
			return fmt.Sprintf("%s changed status of %s from %s to %s", actor.Email, user.Email, old, status)
		})
}

// SetDepartment changes the department of an account
func (u *Users) SetDepartment(ctx context.Context, actor *model.User, userID types.UserID, dept types.Department) (*model.User, error) {
	if !dept.IsValid() {
		return nil, goerr.New("invalid department", goerr.V("department", dept))
	}
	return u.change(ctx, actor, userID, types.ActionUserDeptChanged,
		func(user *model.User) string {
			old := user.Department
			user.Department = dept
			return fmt.Sprintf("%s moved %s from %s to %s", actor.Email, user.Email, old, dept)
		})
}

// ResetPassword replaces a user's password on behalf of an administrator
func (u *Users) ResetPassword(ctx context.Context, actor *model.User, userID types.UserID, newPassword string) (*model.User, error) {
	if newPassword == "" {
		return nil, goerr.New("new password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to hash password")
	}

	return u.change(ctx, actor, userID, types.ActionAdminPasswordReset,
		func(user *model.User) string {
			user.PasswordHash = string(hash)
			return fmt.Sprintf("%s reset the password of %s", actor.Email, user.Email)
		})
}

// change applies mutate to the target account, persists the collection,
// audits the action and notifies the privileged roles
func (u *Users) change(ctx context.Context, actor *model.User, userID types.UserID, action types.LogAction, mutate func(*model.User) string) (*model.User, error) {
	if actor == nil {
		return nil, goerr.New("acting user is required")
	}

	users, err := u.repo.GetUsers(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load users")
	}

	var target *model.User
	for _, user := range users {
		if user.ID == userID {
			target = user
			break
		}
	}
	if target == nil {
		return nil, goerr.Wrap(model.ErrUserNotFound, "no such user", goerr.V("userID", userID))
	}

	detail := mutate(target)

	if err := u.repo.PutUsers(ctx, users); err != nil {
		return nil, goerr.Wrap(err, "failed to save users")
	}

	if err := u.audit.AddLog(ctx, actor.ID, actor.Email, action, detail); err != nil {
		return nil, err
	}
	if err := u.notify(ctx, actor, detail); err != nil {
		return nil, err
	}

	return target, nil
}

func (u *Users) notify(ctx context.Context, actor *model.User, body string) error {
	return u.inbox.NotifyPrivileged(ctx, systemSender, actor.ID, "Administrative action", body)
}
