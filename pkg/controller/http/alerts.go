package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/usecase"
	"github.com/secmon-lab/warden/pkg/utils/apperr"
)

// AlertsHandler serves the alert event store endpoints
type AlertsHandler struct {
	eventsUC *usecase.Events
}

// NewAlertsHandler creates a new alerts handler
func NewAlertsHandler(eventsUC *usecase.Events) *AlertsHandler {
	return &AlertsHandler{eventsUC: eventsUC}
}

// HandleList returns all stored alerts
func (h *AlertsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.eventsUC.ListAlerts(r.Context())
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

type searchRequest struct {
	Query     string `json:"query"`
	Summarize bool   `json:"summarize,omitempty"`
}

// HandleSearch filters the alert store with a structured query, optionally
// attaching an LLM summary of the matches
func (h *AlertsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	results, err := h.eventsUC.SearchAlerts(r.Context(), req.Query)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	response := map[string]any{"results": results}
	if req.Summarize {
		// Log error but don't fail - the matches are still returned
		summary, err := h.eventsUC.SummarizeSearch(r.Context(), req.Query, results)
		if err != nil {
			apperr.Handle(r.Context(), err)
		} else {
			response["summary"] = summary
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// HandleRefresh generates fresh alerts on demand
func (h *AlertsHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	alerts, err := h.eventsUC.RefreshData(r.Context(), user.ID, user.Email)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

type ingestRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

// HandleIngest simulates parsing an uploaded log file into alerts
func (h *AlertsHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if req.FileName == "" {
		writeError(w, goerr.New("fileName is required"), http.StatusBadRequest)
		return
	}

	alerts, err := h.eventsUC.IngestLog(r.Context(), req.FileName, req.FileType, user.ID, user.Email)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// HandleExplanation returns the XAI explanation for an alert
func (h *AlertsHandler) HandleExplanation(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	alertID := types.AlertID(chi.URLParam(r, "alertID"))

	explanation, err := h.eventsUC.ExplainAlert(r.Context(), alertID, user.ID, user.Email)
	if err != nil {
		writeError(w, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, explanation)
}

type translateRequest struct {
	Prompt string `json:"prompt"`
}

// HandleTranslate converts a natural language request into the query
// language. Failures ride in-band with the error: prefix.
func (h *AlertsHandler) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	result, err := h.eventsUC.TranslateQuery(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"query": result})
}

// HandleBehavioral returns simulated UEBA records
func (h *AlertsHandler) HandleBehavioral(w http.ResponseWriter, r *http.Request) {
	records, err := h.eventsUC.BehavioralData(r.Context(), countParam(r, 8))
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleDrones returns simulated drone fleet records
func (h *AlertsHandler) HandleDrones(w http.ResponseWriter, r *http.Request) {
	drones, err := h.eventsUC.DroneData(r.Context(), countParam(r, 6))
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, drones)
}

// countParam reads the optional count query parameter, clamped to [1, 100]
func countParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	if n > 100 {
		return 100
	}
	return n
}
