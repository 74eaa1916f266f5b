package conflict

import (
	"fmt"

	"github.com/noah-isme/univ-admin-api/internal/models"
)

// DefaultRoomCapacities is the stock seating table. Rooms missing from a capacity map are
// never checked for capacity.
var DefaultRoomCapacities = map[string]int{
	"Amphi A":     200,
	"Amphi B":     150,
	"Salle 101":   30,
	"Salle 102":   30,
	"Salle 201":   40,
	"Salle 202":   40,
	"Labo Info 1": 25,
	"Labo Info 2": 25,
}

// DetectTimetable compares every same-day pair of events on the room, teacher and group
// axes, then checks each event against the room capacity table. Events whose time range
// cannot be parsed or is inverted never overlap anything.
func DetectTimetable(events []models.TimetableEvent, capacities map[string]int) []Conflict {
	conflicts := make([]Conflict, 0)

	intervals := make([]Interval, len(events))
	valid := make([]bool, len(events))
	byDay := make(map[string][]int)
	for i, e := range events {
		if iv, err := NewInterval(e.StartTime, e.EndTime); err == nil {
			intervals[i] = iv
			valid[i] = true
		}
		byDay[e.Day] = append(byDay[e.Day], i)
	}

	for i := range events {
		if !valid[i] {
			continue
		}
		for _, j := range byDay[events[i].Day] {
			if j <= i || !valid[j] || !Overlaps(intervals[i], intervals[j]) {
				continue
			}
			conflicts = append(conflicts, pairConflicts(events[i], events[j])...)
		}
	}

	for _, e := range events {
		capacity, ok := capacities[e.Room]
		if !ok || e.Students <= capacity {
			continue
		}
		conflicts = append(conflicts, Conflict{
			ID:          string(TypeCapacity) + "-" + e.ID,
			Type:        TypeCapacity,
			Severity:    SeverityMedium,
			Refs:        []string{e.ID},
			Description: fmt.Sprintf("Capacité dépassée: %s", e.Room),
			Details:     fmt.Sprintf("%s accueille %d étudiants pour %d places (%s %s-%s).", e.Subject, e.Students, capacity, e.Day, e.StartTime, e.EndTime),
			Suggestion:  fmt.Sprintf("Choisir une salle d'au moins %d places ou scinder le groupe.", e.Students),
		})
	}
	return conflicts
}

// pairConflicts assumes e1 and e2 are on the same day with overlapping ranges.
func pairConflicts(e1, e2 models.TimetableEvent) []Conflict {
	var out []Conflict
	slot := fmt.Sprintf("%s %s-%s / %s-%s", e1.Day, e1.StartTime, e1.EndTime, e2.StartTime, e2.EndTime)
	refs := []string{e1.ID, e2.ID}

	if e1.Room == e2.Room {
		out = append(out, Conflict{
			ID:          pairID(TypeRoom, e1.ID, e2.ID),
			Type:        TypeRoom,
			Severity:    SeverityHigh,
			Refs:        refs,
			Description: fmt.Sprintf("Conflit de salle: %s", e1.Room),
			Details:     fmt.Sprintf("%s et %s occupent %s en même temps (%s).", e1.Subject, e2.Subject, e1.Room, slot),
			Suggestion:  "Attribuer une autre salle à l'une des séances ou décaler un créneau.",
		})
	}
	if e1.Teacher == e2.Teacher {
		out = append(out, Conflict{
			ID:          pairID(TypeTeacher, e1.ID, e2.ID),
			Type:        TypeTeacher,
			Severity:    SeverityHigh,
			Refs:        refs,
			Description: fmt.Sprintf("Conflit d'enseignant: %s", e1.Teacher),
			Details:     fmt.Sprintf("%s est programmé pour %s et %s en même temps (%s).", e1.Teacher, e1.Subject, e2.Subject, slot),
			Suggestion:  "Réaffecter l'une des séances à un autre enseignant ou décaler un créneau.",
		})
	}
	if e1.Formation == e2.Formation && e1.Level == e2.Level && e1.Group == e2.Group {
		out = append(out, Conflict{
			ID:          pairID(TypeGroup, e1.ID, e2.ID),
			Type:        TypeGroup,
			Severity:    SeverityHigh,
			Refs:        refs,
			Description: fmt.Sprintf("Conflit de groupe: %s %s %s", e1.Formation, e1.Level, e1.Group),
			Details:     fmt.Sprintf("Le groupe suit %s et %s en même temps (%s).", e1.Subject, e2.Subject, slot),
			Suggestion:  "Décaler l'une des séances du groupe.",
		})
	}
	return out
}

// EventIssue describes a malformed event rejected in strict mode.
type EventIssue struct {
	EventID string `json:"event_id"`
	Reason  string `json:"reason"`
}

// ValidateEvents reports events whose time range is unparseable or inverted.
func ValidateEvents(events []models.TimetableEvent) []EventIssue {
	var issues []EventIssue
	for _, e := range events {
		if _, err := NewInterval(e.StartTime, e.EndTime); err != nil {
			issues = append(issues, EventIssue{EventID: e.ID, Reason: err.Error()})
		}
	}
	return issues
}

// MergeCapacities overlays override on base without mutating either.
func MergeCapacities(base, override map[string]int) map[string]int {
	merged := make(map[string]int, len(base)+len(override))
	for room, capacity := range base {
		merged[room] = capacity
	}
	for room, capacity := range override {
		merged[room] = capacity
	}
	return merged
}
