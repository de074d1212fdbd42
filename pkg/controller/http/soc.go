package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/usecase"
)

// SOCHandler serves the audit trail, SOP catalog and virtual toolkit
// endpoints
type SOCHandler struct {
	auditUC *usecase.Audit
	socUC   *usecase.SOC
}

// NewSOCHandler creates a new SOC handler
func NewSOCHandler(auditUC *usecase.Audit, socUC *usecase.SOC) *SOCHandler {
	return &SOCHandler{
		auditUC: auditUC,
		socUC:   socUC,
	}
}

// HandleAuditLogs returns the audit trail, newest first
func (h *SOCHandler) HandleAuditLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.auditUC.ListLogs(r.Context())
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// HandleSOPTopics lists the available SOP topics
func (h *SOCHandler) HandleSOPTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.socUC.Topics())
}

type sopRequest struct {
	Topic string `json:"topic"`
}

// HandleGenerateSOP writes the procedure document for a topic
func (h *SOCHandler) HandleGenerateSOP(w http.ResponseWriter, r *http.Request) {
	var req sopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	doc, err := h.socUC.GenerateSOP(r.Context(), req.Topic)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"document": doc})
}

// HandleTools lists the simulated pentest tools
func (h *SOCHandler) HandleTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.socUC.Tools())
}

type toolRunRequest struct {
	Tool   string `json:"tool"`
	Target string `json:"target"`
}

// HandleRunTool simulates a pentest tool run against a target
func (h *SOCHandler) HandleRunTool(w http.ResponseWriter, r *http.Request) {
	var req toolRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	report, err := h.socUC.RunTool(r.Context(), req.Tool, req.Target)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"report": report})
}

type toolParseRequest struct {
	Tool   string `json:"tool"`
	Target string `json:"target"`
	Report string `json:"report"`
}

// HandleParseToolReport extracts high-impact findings from a tool report
func (h *SOCHandler) HandleParseToolReport(w http.ResponseWriter, r *http.Request) {
	var req toolParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	alerts, err := h.socUC.ParseToolReport(r.Context(), req.Report, req.Tool, req.Target)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}
