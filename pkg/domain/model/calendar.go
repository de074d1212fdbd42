package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/warden/pkg/domain/types"
)

// calendarDateLayout is the wire format of a calendar event date
const calendarDateLayout = "2006-01-02"

// CalendarEvent is an entry in a department's shared calendar
type CalendarEvent struct {
	ID          types.CalendarEventID `json:"id"`
	Department  types.Department      `json:"department"`
	Title       string                `json:"title"`
	Date        string                `json:"date"`
	Description string                `json:"description"`
	CreatedBy   string                `json:"createdBy"`
}

// NewCalendarEvent creates a calendar event with a time-based identifier
func NewCalendarEvent(dept types.Department, title, date, description, createdBy string) *CalendarEvent {
	return &CalendarEvent{
		ID:          types.NewCalendarEventID(time.Now()),
		Department:  dept,
		Title:       title,
		Date:        date,
		Description: description,
		CreatedBy:   createdBy,
	}
}

// Validate validates the calendar event
func (e *CalendarEvent) Validate() error {
	if e.Title == "" {
		return goerr.New("calendar event title is required")
	}
	if !e.Department.IsValid() {
		return goerr.New("invalid department", goerr.V("department", e.Department))
	}
	if _, err := time.Parse(calendarDateLayout, e.Date); err != nil {
		return goerr.Wrap(err, "calendar event date must be YYYY-MM-DD",
			goerr.V("date", e.Date))
	}
	return nil
}

// DateValue parses the event date. Validate guarantees the format.
func (e *CalendarEvent) DateValue() time.Time {
	t, _ := time.Parse(calendarDateLayout, e.Date)
	return t
}
