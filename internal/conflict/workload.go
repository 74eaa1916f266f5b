package conflict

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/noah-isme/univ-admin-api/internal/models"
)

// Default policy values applied when a Policy field is left empty.
const (
	DefaultMaxHours          = 180.0
	DefaultSeverityMarginPct = 20.0
	DefaultUnderloadPct      = 50.0
	DefaultOverloadPct       = 100.0
)

// DefaultGradeMaxHours maps a teacher grade to its hour allowance.
var DefaultGradeMaxHours = map[string]float64{
	"Professeur":            120,
	"Maître de Conférences": 150,
	"Maître Assistant":      180,
	"Assistant":             200,
	"Vacataire":             240,
}

// Status classifies a teacher's load against the configured thresholds.
type Status string

const (
	StatusNormal    Status = "normal"
	StatusOverload  Status = "overload"
	StatusUnderload Status = "underload"
)

// Percent is a load ratio in percentage points. An unbounded ratio is encoded as JSON null.
type Percent float64

// MarshalJSON implements json.Marshaler.
func (p Percent) MarshalJSON() ([]byte, error) {
	f := float64(p)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Percent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Percent(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Percent(f)
	return nil
}

// Unbounded reports whether the ratio could not be computed against a finite cap.
func (p Percent) Unbounded() bool {
	return math.IsInf(float64(p), 1)
}

// Policy holds the institutional constants used to compute and grade workloads.
type Policy struct {
	GradeMaxHours     map[string]float64
	DefaultMaxHours   float64
	SeverityMarginPct float64
}

// DefaultPolicy returns the stock grade table and severity margin.
func DefaultPolicy() Policy {
	grades := make(map[string]float64, len(DefaultGradeMaxHours))
	for grade, hours := range DefaultGradeMaxHours {
		grades[grade] = hours
	}
	return Policy{
		GradeMaxHours:     grades,
		DefaultMaxHours:   DefaultMaxHours,
		SeverityMarginPct: DefaultSeverityMarginPct,
	}
}

// MaxHoursForGrade returns the allowance for grade, falling back to the default cap.
func (p Policy) MaxHoursForGrade(grade string) float64 {
	if hours, ok := p.GradeMaxHours[strings.TrimSpace(grade)]; ok {
		return hours
	}
	if p.DefaultMaxHours > 0 {
		return p.DefaultMaxHours
	}
	return DefaultMaxHours
}

// DetectorConfig pairs the policy's severity margin with the given thresholds.
func (p Policy) DetectorConfig(t Thresholds) WorkloadConfig {
	margin := p.SeverityMarginPct
	if margin <= 0 {
		margin = DefaultSeverityMarginPct
	}
	return WorkloadConfig{Thresholds: t, SeverityMarginPct: margin}
}

// Thresholds are the user-tunable load bounds, in percent. They are not validated against
// each other: an underload bound above the overload bound flags a teacher twice.
type Thresholds struct {
	UnderloadPct float64 `json:"underload_threshold_pct"`
	OverloadPct  float64 `json:"overload_threshold_pct"`
}

// DefaultThresholds returns the dashboard's initial bounds.
func DefaultThresholds() Thresholds {
	return Thresholds{UnderloadPct: DefaultUnderloadPct, OverloadPct: DefaultOverloadPct}
}

// Classify compares pct against thresholds with strict inequalities.
func Classify(pct Percent, t Thresholds) Status {
	switch {
	case float64(pct) > t.OverloadPct:
		return StatusOverload
	case float64(pct) < t.UnderloadPct:
		return StatusUnderload
	default:
		return StatusNormal
	}
}

// LoadPercent computes total/max*100. A non-positive cap yields an unbounded ratio when any
// hours are assigned and 100% otherwise.
func LoadPercent(totalHours, maxHours float64) Percent {
	if maxHours <= 0 {
		if totalHours > 0 {
			return Percent(math.Inf(1))
		}
		return 100
	}
	return Percent(totalHours / maxHours * 100)
}

// TeacherWorkload is a teacher enriched with the load derived from its assignments.
type TeacherWorkload struct {
	models.Teacher
	Assignments        []models.Assignment `json:"assignments"`
	TotalHours         float64             `json:"total_hours"`
	MaxHours           float64             `json:"max_hours"`
	WorkloadPercentage Percent             `json:"workload_percentage"`
	Status             Status              `json:"status"`
}

// NewTeacherWorkload derives the load of one teacher from the assignments it owns.
func NewTeacherWorkload(teacher models.Teacher, owned []models.Assignment, policy Policy, t Thresholds) TeacherWorkload {
	var total float64
	for _, a := range owned {
		total += a.TotalHours
	}
	maxHours := policy.MaxHoursForGrade(teacher.Grade)
	pct := LoadPercent(total, maxHours)
	return TeacherWorkload{
		Teacher:            teacher,
		Assignments:        append([]models.Assignment{}, owned...),
		TotalHours:         total,
		MaxHours:           maxHours,
		WorkloadPercentage: pct,
		Status:             Classify(pct, t),
	}
}

// BuildWorkloads derives per-teacher totals from the flat assignment list. Teachers keep
// their input order; assignments of unknown teachers are ignored.
func BuildWorkloads(teachers []models.Teacher, assignments []models.Assignment, policy Policy, t Thresholds) []TeacherWorkload {
	byTeacher := make(map[string][]models.Assignment, len(teachers))
	for _, a := range assignments {
		byTeacher[a.TeacherID] = append(byTeacher[a.TeacherID], a)
	}

	result := make([]TeacherWorkload, 0, len(teachers))
	for _, teacher := range teachers {
		result = append(result, NewTeacherWorkload(teacher, byTeacher[teacher.ID], policy, t))
	}
	return result
}
