package models

import "time"

// AtomType is the pedagogical format of a teaching session.
type AtomType string

const (
	AtomCours AtomType = "cours"
	AtomTD    AtomType = "td"
	AtomTP    AtomType = "tp"
)

// AudienceType distinguishes a whole section from one of its groups.
type AudienceType string

const (
	AudienceSection AudienceType = "section"
	AudienceGroup   AudienceType = "group"
)

// TargetAudience is the section or group receiving an assignment.
type TargetAudience struct {
	Type     AudienceType `db:"target_type" json:"type" csv:"target_type"`
	ID       string       `db:"target_id" json:"id" csv:"target_id"`
	Name     string       `db:"target_name" json:"name" csv:"target_name"`
	Capacity int          `db:"target_capacity" json:"capacity" csv:"target_capacity"`
}

// Assignment maps a teacher to a module taught to a section or group.
type Assignment struct {
	ID            string   `db:"id" json:"id" csv:"id"`
	TeacherID     string   `db:"teacher_id" json:"teacher_id" csv:"teacher_id"`
	ModuleID      string   `db:"module_id" json:"module_id" csv:"module_id"`
	ModuleName    string   `db:"module_name" json:"module_name" csv:"module_name"`
	SpecialtyID   string   `db:"specialty_id" json:"specialty_id" csv:"specialty_id"`
	SpecialtyName string   `db:"specialty_name" json:"specialty_name" csv:"specialty_name"`
	AtomType      AtomType `db:"atom_type" json:"atom_type" csv:"atom_type"`

	TargetAudience `json:"target_audience"`

	Semester     string    `db:"semester" json:"semester" csv:"semester"`
	HoursPerWeek float64   `db:"hours_per_week" json:"hours_per_week" csv:"hours_per_week"`
	TotalWeeks   int       `db:"total_weeks" json:"total_weeks" csv:"total_weeks"`
	TotalHours   float64   `db:"total_hours" json:"total_hours" csv:"total_hours"`
	Coefficient  float64   `db:"coefficient" json:"coefficient" csv:"coefficient"`
	Confirmed    bool      `db:"is_confirmed" json:"is_confirmed" csv:"is_confirmed"`
	CreatedAt    time.Time `db:"created_at" json:"created_at" csv:"-"`
}

// AssignmentFilter narrows the assignment snapshot handed to the workload analyzer.
type AssignmentFilter struct {
	TeacherID   string
	Semester    string
	SpecialtyID string
}
