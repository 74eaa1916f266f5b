// Package importer reads timetable and workload snapshots from CSV exports.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/noah-isme/univ-admin-api/internal/models"
)

// Options tunes the CSV dialect. Spreadsheet exports in French locales use ';'.
type Options struct {
	Comma rune
}

func (o Options) reader(in io.Reader) gocsv.CSVReader {
	r := csv.NewReader(in)
	if o.Comma != 0 {
		r.Comma = o.Comma
	}
	r.TrimLeadingSpace = true
	return r
}

func unmarshal(in io.Reader, opts Options, out interface{}, label string) error {
	if err := gocsv.UnmarshalCSV(opts.reader(in), out); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil
		}
		return fmt.Errorf("parse %s csv: %w", label, err)
	}
	return nil
}

// LoadEvents parses timetable events. Rows without an id get a positional one.
func LoadEvents(in io.Reader, opts Options) ([]models.TimetableEvent, error) {
	var rows []models.TimetableEvent
	if err := unmarshal(in, opts, &rows, "events"); err != nil {
		return nil, err
	}
	seen := make(map[string]int, len(rows))
	for i := range rows {
		ev := &rows[i]
		ev.ID = strings.TrimSpace(ev.ID)
		if ev.ID == "" {
			ev.ID = fmt.Sprintf("row-%d", i+2)
		}
		if line, dup := seen[ev.ID]; dup {
			return nil, fmt.Errorf("events csv: duplicate id %q on lines %d and %d", ev.ID, line, i+2)
		}
		seen[ev.ID] = i + 2
		ev.Type = models.EventType(strings.ToLower(strings.TrimSpace(string(ev.Type))))
		ev.Room = strings.TrimSpace(ev.Room)
		ev.Day = strings.TrimSpace(ev.Day)
		ev.Teacher = strings.TrimSpace(ev.Teacher)
		ev.StartTime = strings.TrimSpace(ev.StartTime)
		ev.EndTime = strings.TrimSpace(ev.EndTime)
	}
	return rows, nil
}

// LoadRooms parses a room capacity table keyed by room name.
func LoadRooms(in io.Reader, opts Options) (map[string]int, error) {
	var rows []models.Room
	if err := unmarshal(in, opts, &rows, "rooms"); err != nil {
		return nil, err
	}
	capacities := make(map[string]int, len(rows))
	for i, room := range rows {
		name := strings.TrimSpace(room.Name)
		if name == "" {
			return nil, fmt.Errorf("rooms csv: line %d has no room name", i+2)
		}
		if room.Capacity <= 0 {
			return nil, fmt.Errorf("rooms csv: room %q has non-positive capacity %d", name, room.Capacity)
		}
		capacities[name] = room.Capacity
	}
	return capacities, nil
}

// LoadTeachers parses the teacher roster.
func LoadTeachers(in io.Reader, opts Options) ([]models.Teacher, error) {
	var rows []models.Teacher
	if err := unmarshal(in, opts, &rows, "teachers"); err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].ID = strings.TrimSpace(rows[i].ID)
		rows[i].Grade = strings.TrimSpace(rows[i].Grade)
		if rows[i].ID == "" {
			return nil, fmt.Errorf("teachers csv: line %d has no id", i+2)
		}
	}
	return rows, nil
}

// LoadAssignments parses teaching assignments, deriving total hours when absent.
func LoadAssignments(in io.Reader, opts Options) ([]models.Assignment, error) {
	var rows []models.Assignment
	if err := unmarshal(in, opts, &rows, "assignments"); err != nil {
		return nil, err
	}
	for i := range rows {
		a := &rows[i]
		if strings.TrimSpace(a.ID) == "" {
			a.ID = fmt.Sprintf("row-%d", i+2)
		}
		a.AtomType = models.AtomType(strings.ToLower(strings.TrimSpace(string(a.AtomType))))
		a.Type = models.AudienceType(strings.ToLower(strings.TrimSpace(string(a.Type))))
		if a.TotalHours == 0 {
			a.TotalHours = a.HoursPerWeek * float64(a.TotalWeeks)
		}
	}
	return rows, nil
}
