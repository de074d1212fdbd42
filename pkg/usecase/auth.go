package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/interfaces"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/service/otp"
	"github.com/secmon-lab/warden/pkg/utils/apperr"
	"golang.org/x/crypto/bcrypt"
)

const sessionDuration = 24 * time.Hour

// Auth handles login, registration, account verification and password resets
type Auth struct {
	repo  interfaces.Repository
	otp   *otp.Service
	audit *Audit
}

// NewAuth creates a new Auth use case
func NewAuth(repo interfaces.Repository, otpSvc *otp.Service, audit *Audit) *Auth {
	return &Auth{
		repo:  repo,
		otp:   otpSvc,
		audit: audit,
	}
}

// findUser returns the user with the given corporate email, or nil
func findUser(users []*model.User, email string) *model.User {
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

// Login verifies credentials and opens a session. Failed attempts are audited
// without revealing whether the account exists.
func (a *Auth) Login(ctx context.Context, email, password string) (*model.User, *model.Session, error) {
	users, err := a.repo.GetUsers(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load users")
	}

	user := findUser(users, email)
	if user == nil || !user.IsActive() {
		_ = a.audit.AddLog(ctx, "", email, types.ActionLoginFailed, "")
		return nil, nil, goerr.Wrap(model.ErrBadCredentials, "login rejected")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		_ = a.audit.AddLog(ctx, user.ID, user.Email, types.ActionLoginFailed, "")
		return nil, nil, goerr.Wrap(model.ErrBadCredentials, "login rejected")
	}

	session, err := model.NewSession(user.ID, sessionDuration)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create session")
	}
	if err := a.repo.SaveSession(ctx, session); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to save session")
	}

	if err := a.audit.AddLog(ctx, user.ID, user.Email, types.ActionLogin, ""); err != nil {
		return nil, nil, err
	}

	ctxlog.From(ctx).Info("User logged in", "userID", user.ID, "email", user.Email)
	return user, session, nil
}

// Logout deletes the session and audits the sign-out
func (a *Auth) Logout(ctx context.Context, sessionID types.SessionID) error {
	user, _, err := a.ValidateSession(ctx, sessionID, "")
	if err == nil && user != nil {
		// Log error but don't fail - the session still gets deleted
		if err := a.audit.AddLog(ctx, user.ID, user.Email, types.ActionLogout, ""); err != nil {
			apperr.Handle(ctx, err)
		}
	}

	if err := a.repo.DeleteSession(ctx, sessionID); err != nil {
		return goerr.Wrap(err, "failed to delete session")
	}
	return nil
}

// ValidateSession resolves a session cookie pair to its user. An empty secret
// skips the secret comparison; handlers pass both cookies.
func (a *Auth) ValidateSession(ctx context.Context, sessionID types.SessionID, secret string) (*model.User, *model.Session, error) {
	session, err := a.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "session not found")
	}

	if session.IsExpired() {
		_ = a.repo.DeleteSession(ctx, sessionID)
		return nil, nil, goerr.New("session expired")
	}
	if secret != "" && session.Secret != secret {
		return nil, nil, goerr.New("session secret mismatch")
	}

	users, err := a.repo.GetUsers(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load users")
	}

	for _, u := range users {
		if u.ID == session.UserID {
			if !u.IsActive() {
				return nil, nil, goerr.New("account is not active")
			}
			return u, session, nil
		}
	}

	return nil, nil, goerr.Wrap(model.ErrUserNotFound, "session user missing")
}

// Register creates a self-service account in Pending status and issues the
// verification code to the personal email. The returned code stands in for an
// email delivery channel.
func (a *Auth) Register(ctx context.Context, email, personalEmail, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", goerr.New("email and password are required")
	}

	users, err := a.repo.GetUsers(ctx)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to load users")
	}

	if findUser(users, email) != nil {
		return nil, "", goerr.Wrap(model.ErrEmailTaken, "registration rejected")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to hash password")
	}

	user := model.NewUser(email, personalEmail, string(hash),
		types.RoleReadOnly, types.UserStatusPending, types.DepartmentUnassigned)

	if err := a.repo.PutUsers(ctx, append(users, user)); err != nil {
		return nil, "", goerr.Wrap(err, "failed to save users")
	}

	code, err := a.otp.Issue(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if err := a.audit.AddLog(ctx, user.ID, user.Email, types.ActionUserRegistered, ""); err != nil {
		return nil, "", err
	}

	return user, code, nil
}

// VerifyAccount consumes the registration OTP and activates the account
func (a *Auth) VerifyAccount(ctx context.Context, email, code string) (*model.User, error) {
	ok, err := a.otp.Verify(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, goerr.Wrap(model.ErrInvalidOTP, "account verification failed")
	}

	users, err := a.repo.GetUsers(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load users")
	}

	user := findUser(users, email)
	if user == nil {
		return nil, goerr.Wrap(model.ErrUserNotFound, "no account for email")
	}

	user.Status = types.UserStatusActive
	if err := a.repo.PutUsers(ctx, users); err != nil {
		return nil, goerr.Wrap(err, "failed to save users")
	}

	if err := a.audit.AddLog(ctx, user.ID, user.Email, types.ActionAccountVerified, ""); err != nil {
		return nil, err
	}

	return user, nil
}

// RequestPasswordReset issues a reset code for an existing account. For an
// unknown email it succeeds with an empty code so callers cannot probe for
// accounts.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	users, err := a.repo.GetUsers(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to load users")
	}

	user := findUser(users, email)
	if user == nil {
		return "", nil
	}

	code, err := a.otp.Issue(ctx, user.Email)
	if err != nil {
		return "", err
	}

	if err := a.audit.AddLog(ctx, user.ID, user.Email, types.ActionPasswordResetReq, ""); err != nil {
		return "", err
	}

	return code, nil
}

// ResetPassword consumes the reset OTP and replaces the password
func (a *Auth) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return goerr.New("new password is required")
	}

	ok, err := a.otp.Verify(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return goerr.Wrap(model.ErrInvalidOTP, "password reset failed")
	}

	users, err := a.repo.GetUsers(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load users")
	}

	user := findUser(users, email)
	if user == nil {
		return goerr.Wrap(model.ErrUserNotFound, "no account for email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return goerr.Wrap(err, "failed to hash password")
	}

	user.PasswordHash = string(hash)
	if err := a.repo.PutUsers(ctx, users); err != nil {
		return goerr.Wrap(err, "failed to save users")
	}

	return a.audit.AddLog(ctx, user.ID, user.Email, types.ActionPasswordResetDone, "")
}

// ChangePassword replaces the password of a signed-in user after verifying
// the current one
func (a *Auth) ChangePassword(ctx context.Context, userID types.UserID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return goerr.New("new password is required")
	}

	users, err := a.repo.GetUsers(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load users")
	}

	var user *model.User
	for _, u := range users {
		if u.ID == userID {
			user = u
			break
		}
	}
	if user == nil {
		return goerr.Wrap(model.ErrUserNotFound, "no such user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return goerr.Wrap(model.ErrBadCredentials, "current password mismatch")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return goerr.Wrap(err, "failed to hash password")
	}

	user.PasswordHash = string(hash)
	if err := a.repo.PutUsers(ctx, users); err != nil {
		return goerr.Wrap(err, "failed to save users")
	}

	return a.audit.AddLog(ctx, user.ID, user.Email, types.ActionPasswordChanged, "")
}

// Bootstrap seeds the initial admin account when it does not exist yet
func (a *Auth) Bootstrap(ctx context.Context, cfg *model.BootstrapConfig) error {
	if cfg == nil || cfg.Admin == nil {
		return nil
	}

	users, err := a.repo.GetUsers(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load users")
	}

	if findUser(users, cfg.Admin.Email) != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return goerr.Wrap(err, "failed to hash admin password")
	}

	admin := cfg.AdminUser(string(hash))
	if err := a.repo.PutUsers(ctx, append(users, admin)); err != nil {
		return goerr.Wrap(err, "failed to save users")
	}

	ctxlog.From(ctx).Info("Bootstrapped admin account", "email", admin.Email)
	return nil
}
