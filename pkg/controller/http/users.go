package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/usecase"
)

// UsersHandler serves the administrative account endpoints
type UsersHandler struct {
	usersUC *usecase.Users
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(usersUC *usecase.Users) *UsersHandler {
	return &UsersHandler{usersUC: usersUC}
}

// HandleList returns all accounts
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.usersUC.List(r.Context())
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Email         string           `json:"email"`
	PersonalEmail string           `json:"personalEmail"`
	Password      string           `json:"password"`
	Role          types.Role       `json:"role"`
	Department    types.Department `json:"department"`
}

// HandleCreate provisions a new account
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor := userFromContext(r.Context())

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	user, err := h.usersUC.Create(r.Context(), actor, req.Email, req.PersonalEmail, req.Password, req.Role, req.Department)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type roleRequest struct {
	Role types.Role `json:"role"`
}

// HandleSetRole changes the role of an account
func (h *UsersHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	actor := userFromContext(r.Context())

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	user, err := h.usersUC.SetRole(r.Context(), actor, types.UserID(chi.URLParam(r, "userID")), req.Role)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type statusRequest struct {
	Status types.UserStatus `json:"status"`
}

// HandleSetStatus changes the status of an account
func (h *UsersHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	actor := userFromContext(r.Context())

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	user, err := h.usersUC.SetStatus(r.Context(), actor, types.UserID(chi.URLParam(r, "userID")), req.Status)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type departmentRequest struct {
	Department types.Department `json:"department"`
}

// HandleSetDepartment changes the department of an account
func (h *UsersHandler) HandleSetDepartment(w http.ResponseWriter, r *http.Request) {
	actor := userFromContext(r.Context())

	var req departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	user, err := h.usersUC.SetDepartment(r.Context(), actor, types.UserID(chi.URLParam(r, "userID")), req.Department)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type adminResetRequest struct {
	NewPassword string `json:"newPassword"`
}

// HandleResetPassword replaces an account password on behalf of an admin
func (h *UsersHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	actor := userFromContext(r.Context())

	var req adminResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	user, err := h.usersUC.ResetPassword(r.Context(), actor, types.UserID(chi.URLParam(r, "userID")), req.NewPassword)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, user)
}
