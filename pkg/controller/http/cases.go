package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/model"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/usecase"
)

// CasesHandler serves the investigation endpoints
type CasesHandler struct {
	investigationUC *usecase.Investigation
}

// NewCasesHandler creates a new cases handler
func NewCasesHandler(investigationUC *usecase.Investigation) *CasesHandler {
	return &CasesHandler{investigationUC: investigationUC}
}

// HandleList returns all investigations, newest first
func (h *CasesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	investigations, err := h.investigationUC.List(r.Context())
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, investigations)
}

// HandleGet returns a single investigation
func (h *CasesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	inv, err := h.investigationUC.Get(r.Context(), types.CaseID(chi.URLParam(r, "caseID")))
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// HandleCreate opens an investigation from a threat envelope
func (h *CasesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var envelope model.ThreatEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	threat, err := envelope.Decode()
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	inv, err := h.investigationUC.Create(r.Context(), threat, user)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// HandleUpdate applies a shallow patch to a case
func (h *CasesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var patch usecase.CasePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	inv, err := h.investigationUC.Update(r.Context(), types.CaseID(chi.URLParam(r, "caseID")), patch, user)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

type timelineRequest struct {
	Type        types.TimelineEventType `json:"type"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Timestamp   time.Time               `json:"timestamp"`
}

// HandleAddTimelineEvent appends an event to the case timeline
func (h *CasesHandler) HandleAddTimelineEvent(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req timelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	inv, err := h.investigationUC.AddTimelineEvent(r.Context(),
		types.CaseID(chi.URLParam(r, "caseID")),
		req.Type, req.Title, req.Description, req.Timestamp, user)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

type evidenceRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// HandleAddEvidence attaches an evidence file to the case
func (h *CasesHandler) HandleAddEvidence(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req evidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	inv, err := h.investigationUC.AddEvidence(r.Context(),
		types.CaseID(chi.URLParam(r, "caseID")),
		req.Name, req.Type, req.Content, user)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// HandleAddTeamMember adds a user to the case team
func (h *CasesHandler) HandleAddTeamMember(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var member model.Member
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	inv, err := h.investigationUC.AddTeamMember(r.Context(),
		types.CaseID(chi.URLParam(r, "caseID")), member, user)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// HandleRemoveTeamMember removes a user from the case team
func (h *CasesHandler) HandleRemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	inv, err := h.investigationUC.RemoveTeamMember(r.Context(),
		types.CaseID(chi.URLParam(r, "caseID")),
		types.UserID(chi.URLParam(r, "userID")), user)
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// HandleReport writes a formal report for the case
func (h *CasesHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.investigationUC.GenerateReport(r.Context(), types.CaseID(chi.URLParam(r, "caseID")))
	if err != nil {
		writeError(w, err, statusForDomainError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"report": report})
}

type insightsRequest struct {
	Prompt string `json:"prompt"`
}

// HandleInsights answers a freeform analyst question
func (h *CasesHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	answer, err := h.investigationUC.Insights(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
