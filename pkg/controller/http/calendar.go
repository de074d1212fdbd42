package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/types"
	"github.com/secmon-lab/warden/pkg/usecase"
)

// CalendarHandler serves the department calendar endpoints
type CalendarHandler struct {
	calendarUC *usecase.Calendar
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarUC *usecase.Calendar) *CalendarHandler {
	return &CalendarHandler{calendarUC: calendarUC}
}

// HandleList returns the signed-in user's department calendar, sorted by date.
// A "department" query parameter selects another department's calendar.
func (h *CalendarHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	dept := user.Department
	if q := r.URL.Query().Get("department"); q != "" {
		dept = types.Department(q)
	}

	events, err := h.calendarUC.ListForDepartment(r.Context(), dept)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

type calendarCreateRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// HandleCreate adds an event to the signed-in user's department calendar
func (h *CalendarHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req calendarCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	event, err := h.calendarUC.Create(r.Context(), user.Department, req.Title, req.Date, req.Description, user)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}
