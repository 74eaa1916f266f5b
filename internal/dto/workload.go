package dto

import (
	"time"

	"github.com/noah-isme/univ-admin-api/internal/conflict"
)

// WorkloadQuery scopes a workload analysis. Nil thresholds fall back to configured defaults.
type WorkloadQuery struct {
	UnderloadThresholdPct *float64 `form:"underload_threshold" json:"underload_threshold_pct" validate:"omitempty,min=0"`
	OverloadThresholdPct  *float64 `form:"overload_threshold" json:"overload_threshold_pct" validate:"omitempty,min=0"`
	Semester              string   `form:"semester" json:"semester" validate:"omitempty,max=20"`
	SpecialtyID           string   `form:"specialty_id" json:"specialty_id" validate:"omitempty,max=64"`
}

// WorkloadReport is the outcome of one workload detection pass.
type WorkloadReport struct {
	Thresholds  conflict.Thresholds        `json:"thresholds"`
	Semester    string                     `json:"semester,omitempty"`
	SpecialtyID string                     `json:"specialty_id,omitempty"`
	Teachers    []conflict.TeacherWorkload `json:"teachers"`
	Conflicts   []conflict.Conflict        `json:"conflicts"`
	Summary     conflict.Summary           `json:"summary"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// CreateAssignmentRequest assigns a module to a teacher for one audience.
type CreateAssignmentRequest struct {
	TeacherID      string  `json:"teacher_id" validate:"required"`
	ModuleID       string  `json:"module_id" validate:"required"`
	ModuleName     string  `json:"module_name" validate:"required,max=255"`
	SpecialtyID    string  `json:"specialty_id" validate:"omitempty,max=64"`
	SpecialtyName  string  `json:"specialty_name" validate:"omitempty,max=255"`
	AtomType       string  `json:"atom_type" validate:"required,oneof=cours td tp"`
	TargetType     string  `json:"target_type" validate:"required,oneof=section group"`
	TargetID       string  `json:"target_id" validate:"required"`
	TargetName     string  `json:"target_name" validate:"required,max=255"`
	TargetCapacity int     `json:"target_capacity" validate:"min=0"`
	Semester       string  `json:"semester" validate:"required,max=20"`
	HoursPerWeek   float64 `json:"hours_per_week" validate:"gt=0,lte=40"`
	TotalWeeks     int     `json:"total_weeks" validate:"min=1,max=52"`
	Coefficient    float64 `json:"coefficient" validate:"min=0"`
	Confirmed      bool    `json:"is_confirmed"`
	// RejectDuplicate refuses the assignment when the module already reaches the audience in that format.
	RejectDuplicate bool `json:"reject_duplicate"`
}

// TeacherWorkloadReport narrows a workload report to one teacher.
type TeacherWorkloadReport struct {
	Workload  conflict.TeacherWorkload `json:"workload"`
	Conflicts []conflict.Conflict      `json:"conflicts"`
}

// AssignmentListQuery filters the assignment listing.
type AssignmentListQuery struct {
	TeacherID   string `form:"teacher_id"`
	Semester    string `form:"semester"`
	SpecialtyID string `form:"specialty_id"`
}

// TeacherRequest creates or updates a teacher.
type TeacherRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	FullName   string  `json:"full_name" validate:"required,max=255"`
	Grade      string  `json:"grade" validate:"required,max=100"`
	Department *string `json:"department" validate:"omitempty,max=255"`
	Active     *bool   `json:"active"`
}
