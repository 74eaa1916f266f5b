package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"sync"
	"time"

	"github.com/noah-isme/univ-admin-api/internal/models"
	appErrors "github.com/noah-isme/univ-admin-api/pkg/errors"
)

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *memoryCacheRepo) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

func (m *memoryCacheRepo) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type recordingNotifier struct {
	mu      sync.Mutex
	domains []string
}

func (r *recordingNotifier) Notify(ctx context.Context, domain string) {
	r.mu.Lock()
	r.domains = append(r.domains, domain)
	r.mu.Unlock()
}

type stubTeacherRepo struct {
	teachers []models.Teacher
	listErr  error
	lists    int
	created  []models.Teacher
	updated  []models.Teacher
}

func (s *stubTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	s.lists++
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	return s.teachers, len(s.teachers), nil
}

func (s *stubTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	for _, t := range s.teachers {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = "generated"
	}
	s.created = append(s.created, *teacher)
	return nil
}

func (s *stubTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	s.updated = append(s.updated, *teacher)
	return nil
}

type stubAssignmentRepo struct {
	assignments []models.Assignment
	lastFilter  models.AssignmentFilter
	exists      bool
	created     []models.Assignment
	deleteErr   error

	// listed and release, when set, hold List after it has read its snapshot.
	listed  chan struct{}
	release chan struct{}
}

func (s *stubAssignmentRepo) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	s.lastFilter = filter
	snapshot := append([]models.Assignment(nil), s.assignments...)
	if s.release != nil {
		s.listed <- struct{}{}
		<-s.release
	}
	return snapshot, nil
}

func (s *stubAssignmentRepo) ExistsForTarget(ctx context.Context, moduleID, targetID string, atom models.AtomType) (bool, error) {
	return s.exists, nil
}

func (s *stubAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = "a-new"
	assignment.TotalHours = assignment.HoursPerWeek * float64(assignment.TotalWeeks)
	s.created = append(s.created, *assignment)
	return nil
}

func (s *stubAssignmentRepo) Delete(ctx context.Context, id string) error {
	return s.deleteErr
}

type stubEventRepo struct {
	events     []models.TimetableEvent
	lastFilter models.TimetableEventFilter
	created    []models.TimetableEvent
	updateErr  error
	deleteErr  error
}

func (s *stubEventRepo) List(ctx context.Context, filter models.TimetableEventFilter) ([]models.TimetableEvent, error) {
	s.lastFilter = filter
	return s.events, nil
}

func (s *stubEventRepo) FindByID(ctx context.Context, id string) (*models.TimetableEvent, error) {
	for _, e := range s.events {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubEventRepo) Create(ctx context.Context, event *models.TimetableEvent) error {
	event.ID = "e-new"
	s.created = append(s.created, *event)
	return nil
}

func (s *stubEventRepo) Update(ctx context.Context, event *models.TimetableEvent) error {
	return s.updateErr
}

func (s *stubEventRepo) Delete(ctx context.Context, id string) error {
	return s.deleteErr
}

type stubRoomRepo struct {
	rooms    []models.Room
	upserted []models.Room
}

func (s *stubRoomRepo) List(ctx context.Context) ([]models.Room, error) {
	return s.rooms, nil
}

func (s *stubRoomRepo) Upsert(ctx context.Context, room *models.Room) error {
	s.upserted = append(s.upserted, *room)
	return nil
}

func workloadAssignment(id, teacherID, moduleID, targetID string, atom models.AtomType, hours float64) models.Assignment {
	return models.Assignment{
		ID:             id,
		TeacherID:      teacherID,
		ModuleID:       moduleID,
		ModuleName:     "Module " + moduleID,
		AtomType:       atom,
		TargetAudience: models.TargetAudience{Type: models.AudienceGroup, ID: targetID, Name: "Groupe " + targetID},
		Semester:       "S1",
		TotalHours:     hours,
	}
}

func event(id, teacher, room, day, start, end string, students int) models.TimetableEvent {
	return models.TimetableEvent{
		ID:        id,
		Subject:   "Sujet " + id,
		Type:      models.EventCours,
		Teacher:   teacher,
		Formation: "Informatique",
		Level:     "L1",
		Group:     "G-" + id,
		Room:      room,
		Day:       day,
		StartTime: start,
		EndTime:   end,
		Students:  students,
	}
}
