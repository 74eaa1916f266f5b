// Package conflict detects workload and timetable conflicts over in-memory snapshots.
//
// Both detectors are pure: they never mutate their inputs, hold no state between calls and
// return the same conflicts, in the same order, for the same arguments.
package conflict

// Type identifies the rule that produced a conflict.
type Type string

const (
	TypeOverload            Type = "overload"
	TypeUnderload           Type = "underload"
	TypeDuplicateAssignment Type = "duplicate_assignment"
	TypeRoom                Type = "room"
	TypeTeacher             Type = "teacher"
	TypeGroup               Type = "group"
	TypeCapacity            Type = "capacity"
)

// Severity drives how a conflict is rendered.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Conflict is a single detected issue. ID is derived from the participating entity ids.
type Conflict struct {
	ID          string   `json:"id"`
	Type        Type     `json:"type"`
	Severity    Severity `json:"severity"`
	Refs        []string `json:"refs"`
	Description string   `json:"description"`
	Details     string   `json:"details"`
	Suggestion  string   `json:"suggestion,omitempty"`
}

// Summary aggregates a conflict list for dashboard badges.
type Summary struct {
	Total      int              `json:"total"`
	ByType     map[Type]int     `json:"by_type"`
	BySeverity map[Severity]int `json:"by_severity"`
	Blocking   bool             `json:"blocking"`
}

// Summarize counts conflicts per type and severity. Blocking is set when any conflict is high.
func Summarize(conflicts []Conflict) Summary {
	summary := Summary{
		Total:      len(conflicts),
		ByType:     make(map[Type]int),
		BySeverity: make(map[Severity]int),
	}
	for _, c := range conflicts {
		summary.ByType[c.Type]++
		summary.BySeverity[c.Severity]++
		if c.Severity == SeverityHigh {
			summary.Blocking = true
		}
	}
	return summary
}

func pairID(kind Type, first, second string) string {
	return string(kind) + "-" + first + "-" + second
}
