package conflict

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/univ-admin-api/internal/models"
)

// UnknownTeacherName labels assignments whose teacher is not in the snapshot.
const UnknownTeacherName = "Enseignant inconnu"

// WorkloadConfig parameterises DetectWorkload.
type WorkloadConfig struct {
	Thresholds
	// SeverityMarginPct is the distance past a threshold at which a conflict becomes high.
	// Non-positive values use DefaultSeverityMarginPct.
	SeverityMarginPct float64
}

// DetectWorkload runs the underload, overload and duplicate-assignment passes and
// concatenates their results in that order.
func DetectWorkload(teachers []TeacherWorkload, assignments []models.Assignment, cfg WorkloadConfig) []Conflict {
	margin := cfg.SeverityMarginPct
	if margin <= 0 {
		margin = DefaultSeverityMarginPct
	}

	conflicts := make([]Conflict, 0)
	conflicts = append(conflicts, underloadPass(teachers, cfg.UnderloadPct, margin)...)
	conflicts = append(conflicts, overloadPass(teachers, cfg.OverloadPct, margin)...)
	conflicts = append(conflicts, duplicatePass(teachers, assignments)...)
	return conflicts
}

func underloadPass(teachers []TeacherWorkload, threshold, margin float64) []Conflict {
	var out []Conflict
	for _, t := range teachers {
		pct := float64(t.WorkloadPercentage)
		if !(pct < threshold) {
			continue
		}
		severity := SeverityMedium
		if pct < threshold-margin {
			severity = SeverityHigh
		}
		out = append(out, Conflict{
			ID:          string(TypeUnderload) + "-" + t.ID,
			Type:        TypeUnderload,
			Severity:    severity,
			Refs:        []string{t.ID},
			Description: fmt.Sprintf("Sous-charge: %s (%s/%sh)", t.FullName, formatHours(t.TotalHours), formatHours(t.MaxHours)),
			Details: fmt.Sprintf("%s assure %sh sur %sh autorisées (%.1f%%), sous le seuil de %.1f%%.",
				t.FullName, formatHours(t.TotalHours), formatHours(t.MaxHours), pct, threshold),
		})
	}
	return out
}

func overloadPass(teachers []TeacherWorkload, threshold, margin float64) []Conflict {
	var out []Conflict
	for _, t := range teachers {
		pct := float64(t.WorkloadPercentage)
		if !(pct > threshold) {
			continue
		}
		severity := SeverityMedium
		if pct > threshold+margin {
			severity = SeverityHigh
		}
		out = append(out, Conflict{
			ID:          string(TypeOverload) + "-" + t.ID,
			Type:        TypeOverload,
			Severity:    severity,
			Refs:        []string{t.ID},
			Description: fmt.Sprintf("Surcharge: %s (%s/%sh)", t.FullName, formatHours(t.TotalHours), formatHours(t.MaxHours)),
			Details: fmt.Sprintf("%s assure %sh sur %sh autorisées (%.1f%%), au-dessus du seuil de %.1f%%.",
				t.FullName, formatHours(t.TotalHours), formatHours(t.MaxHours), pct, threshold),
		})
	}
	return out
}

type duplicateGroup struct {
	key     string
	members []models.Assignment
}

func duplicatePass(teachers []TeacherWorkload, assignments []models.Assignment) []Conflict {
	names := make(map[string]string, len(teachers))
	for _, t := range teachers {
		names[t.ID] = t.FullName
	}

	index := make(map[string]int)
	var groups []duplicateGroup
	for _, a := range assignments {
		key := a.ModuleID + "|" + a.TargetAudience.ID + "|" + string(a.AtomType)
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, duplicateGroup{key: key})
		}
		groups[pos].members = append(groups[pos].members, a)
	}

	var out []Conflict
	for _, g := range groups {
		if len(g.members) < 2 {
			continue
		}
		first := g.members[0]
		refs := make([]string, 0, len(g.members))
		seen := make(map[string]bool)
		var teacherNames []string
		for _, a := range g.members {
			refs = append(refs, a.ID)
			name, ok := names[a.TeacherID]
			if !ok {
				name = UnknownTeacherName
			}
			if !seen[name] {
				seen[name] = true
				teacherNames = append(teacherNames, name)
			}
		}
		out = append(out, Conflict{
			ID:       string(TypeDuplicateAssignment) + "-" + strings.ReplaceAll(g.key, "|", "-"),
			Type:     TypeDuplicateAssignment,
			Severity: SeverityHigh,
			Refs:     refs,
			Description: fmt.Sprintf("Module %s (%s) affecté %d fois à %s",
				moduleLabel(first), strings.ToUpper(string(first.AtomType)), len(g.members), audienceLabel(first.TargetAudience)),
			Details: "Enseignants concernés: " + strings.Join(teacherNames, ", "),
		})
	}
	return out
}

func moduleLabel(a models.Assignment) string {
	if a.ModuleName != "" {
		return a.ModuleName
	}
	return a.ModuleID
}

func audienceLabel(t models.TargetAudience) string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
