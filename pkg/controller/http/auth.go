package http

import (
	"encoding/json"
	"net/http"
	"net/netip"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/usecase"
)

const (
	cookieSessionID     = "session_id"
	cookieSessionSecret = "session_secret"
)

// AuthHandler serves the authentication endpoints
type AuthHandler struct {
	authUC *usecase.Auth
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUC *usecase.Auth) *AuthHandler {
	return &AuthHandler{authUC: authUC}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and sets the session cookie pair
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	user, session, err := h.authUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err, http.StatusUnauthorized)
		return
	}

	h.setSessionCookies(w, r, session)
	writeJSON(w, http.StatusOK, user)
}

// HandleLogout invalidates the session and clears cookies
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(cookieSessionID); err == nil {
		if err := h.authUC.Logout(r.Context(), types.SessionID(cookie.Value)); err != nil {
			ctxlog.From(r.Context()).Debug("Failed to delete session", "error", err)
		}
	}

	h.clearSessionCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// HandleMe returns the authenticated user
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFromContext(r.Context()))
}

type registerRequest struct {
	Email         string `json:"email"`
	PersonalEmail string `json:"personalEmail"`
	Password      string `json:"password"`
}

// HandleRegister creates a Pending account and returns the verification
// challenge. The code is returned in the response because the simulated
// console has no mail channel.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	user, code, err := h.authUC.Register(r.Context(), req.Email, req.PersonalEmail, req.Password)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":             user,
		"verificationCode": code,
	})
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// HandleVerify consumes the registration OTP and activates the account
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	user, err := h.authUC.VerifyAccount(r.Context(), req.Email, req.Code)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type resetRequest struct {
	Email string `json:"email"`
}

// HandleResetRequest issues a password reset challenge
func (h *AuthHandler) HandleResetRequest(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	code, err := h.authUC.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"resetCode": code})
}

type resetConfirmRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// HandleResetConfirm consumes the reset OTP and replaces the password
func (h *AuthHandler) HandleResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	if err := h.authUC.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password reset"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// HandleChangePassword replaces the password of the signed-in user
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	if err := h.authUC.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, r *http.Request, session *model.Session) {
	secure := !isLocalhost(r)

	http.SetCookie(w, &http.Cookie{
		Name:     cookieSessionID,
		Value:    session.ID.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     cookieSessionSecret,
		Value:    session.Secret,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
	})
}

func (h *AuthHandler) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{cookieSessionID, cookieSessionSecret} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
	}
}

// isLocalhost reports whether the request targets a loopback host, where
// Secure cookies would be rejected over plain HTTP
func isLocalhost(r *http.Request) bool {
	host := r.Host
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	if host == "localhost" {
		return true
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.IsLoopback()
	}
	return false
}
