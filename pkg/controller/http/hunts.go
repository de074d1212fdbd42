package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/usecase"
)

// HuntsHandler serves the threat hunting endpoints
type HuntsHandler struct {
	huntsUC *usecase.Hunts
}

// NewHuntsHandler creates a new hunts handler
func NewHuntsHandler(huntsUC *usecase.Hunts) *HuntsHandler {
	return &HuntsHandler{huntsUC: huntsUC}
}

// HandleList returns all hunts, newest first
func (h *HuntsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	hunts, err := h.huntsUC.List(r.Context())
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, hunts)
}

// HandleSave creates or updates a hunt
func (h *HuntsHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var hunt model.Hunt
	if err := json.NewDecoder(r.Body).Decode(&hunt); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	saved, err := h.huntsUC.Save(r.Context(), &hunt, user)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// HandleDelete removes a hunt
func (h *HuntsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := h.huntsUC.Delete(r.Context(), types.HuntID(chi.URLParam(r, "huntID")), user); err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "hunt deleted"})
}

// HandleEscalate opens an investigation from a hunt
func (h *HuntsHandler) HandleEscalate(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	inv, err := h.huntsUC.Escalate(r.Context(), types.HuntID(chi.URLParam(r, "huntID")), user)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}
