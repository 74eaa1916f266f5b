package dto

import (
	"time"

	"github.com/noah-isme/univ-admin-api/internal/conflict"
)

// TimetableQuery scopes a timetable analysis. Strict overrides the configured range checking.
type TimetableQuery struct {
	Formation string `form:"formation" json:"formation,omitempty"`
	Level     string `form:"level" json:"level,omitempty"`
	Day       string `form:"day" json:"day,omitempty" validate:"omitempty,oneof=Lundi Mardi Mercredi Jeudi Vendredi Samedi"`
	Room      string `form:"room" json:"room,omitempty"`
	Strict    *bool  `form:"strict" json:"strict,omitempty"`
}

// TimetableReport is the outcome of one timetable detection pass.
type TimetableReport struct {
	Scope          TimetableQuery      `json:"scope"`
	EventsAnalysed int                 `json:"events_analysed"`
	Conflicts      []conflict.Conflict `json:"conflicts"`
	Summary        conflict.Summary    `json:"summary"`
	GeneratedAt    time.Time           `json:"generated_at"`
}

// TimetableEventRequest creates or replaces a scheduled session.
type TimetableEventRequest struct {
	Subject        string `json:"subject" validate:"required,max=255"`
	Type           string `json:"type" validate:"required,oneof=cours td tp examen"`
	Teacher        string `json:"teacher" validate:"required,max=255"`
	Formation      string `json:"formation" validate:"required,max=255"`
	Level          string `json:"level" validate:"required,max=50"`
	Group          string `json:"group" validate:"omitempty,max=50"`
	Room           string `json:"room" validate:"required,max=100"`
	Day            string `json:"day" validate:"required,oneof=Lundi Mardi Mercredi Jeudi Vendredi Samedi"`
	StartTime      string `json:"start_time" validate:"required,max=5"`
	EndTime        string `json:"end_time" validate:"required,max=5"`
	Students       int    `json:"students" validate:"min=0"`
	Validated      bool   `json:"is_validated"`
	HasReservation bool   `json:"has_reservation"`
}

// RoomRequest sets the capacity of a room.
type RoomRequest struct {
	Capacity int `json:"capacity" validate:"required,min=1"`
}

// ExportQuery selects the report and format of a conflict export.
type ExportQuery struct {
	Domain string `form:"domain" validate:"required,oneof=workload timetable"`
	Format string `form:"format" validate:"required,oneof=csv pdf"`
	WorkloadQuery
	TimetableQuery
}
