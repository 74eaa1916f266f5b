package models

import "time"

// EventType is the session format of a timetable entry.
type EventType string

const (
	EventCours  EventType = "cours"
	EventTD     EventType = "td"
	EventTP     EventType = "tp"
	EventExamen EventType = "examen"
)

// Weekdays lists the days a timetable event may be scheduled on.
var Weekdays = []string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}

// TimetableEvent is a single scheduled session. Teacher is a display name, not a key.
type TimetableEvent struct {
	ID             string    `db:"id" json:"id" csv:"id"`
	Subject        string    `db:"subject" json:"subject" csv:"subject"`
	Type           EventType `db:"type" json:"type" csv:"type"`
	Teacher        string    `db:"teacher" json:"teacher" csv:"teacher"`
	Formation      string    `db:"formation" json:"formation" csv:"formation"`
	Level          string    `db:"level" json:"level" csv:"level"`
	Group          string    `db:"group_name" json:"group" csv:"group"`
	Room           string    `db:"room" json:"room" csv:"room"`
	Day            string    `db:"day" json:"day" csv:"day"`
	StartTime      string    `db:"start_time" json:"start_time" csv:"start_time"`
	EndTime        string    `db:"end_time" json:"end_time" csv:"end_time"`
	Students       int       `db:"students" json:"students" csv:"students"`
	Validated      bool      `db:"is_validated" json:"is_validated" csv:"is_validated"`
	HasReservation bool      `db:"has_reservation" json:"has_reservation" csv:"has_reservation"`
	CreatedAt      time.Time `db:"created_at" json:"created_at" csv:"-"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at" csv:"-"`
}

// TimetableEventFilter scopes the events analysed in one pass.
type TimetableEventFilter struct {
	Formation string
	Level     string
	Day       string
	Room      string
}
