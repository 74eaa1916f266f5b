package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-admin-api/internal/conflict"
	"github.com/noah-isme/univ-admin-api/internal/dto"
	"github.com/noah-isme/univ-admin-api/internal/models"
	appErrors "github.com/noah-isme/univ-admin-api/pkg/errors"
)

func newTimetableFixture(events []models.TimetableEvent, rooms []models.Room, strict bool, cacheRepo CacheRepository) (*TimetableService, *stubEventRepo, *stubRoomRepo) {
	eventRepo := &stubEventRepo{events: events}
	roomRepo := &stubRoomRepo{rooms: rooms}
	var cache *CacheService
	if cacheRepo != nil {
		cache = NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	}
	svc := NewTimetableService(eventRepo, roomRepo, cache, NewMetricsService(), TimetableServiceConfig{
		RoomCapacities:   conflict.DefaultRoomCapacities,
		StrictTimeRanges: strict,
	}, nil, nil)
	return svc, eventRepo, roomRepo
}

func TestTimetableServiceAnalyze(t *testing.T) {
	events := []models.TimetableEvent{
		event("E1", "Dr. Benali", "Salle 101", "Lundi", "08:00", "09:30", 25),
		event("E2", "Dr. Benali", "Salle 101", "Lundi", "09:00", "10:30", 25),
		event("E3", "Dr. Haddad", "Salle 202", "Mardi", "08:00", "09:30", 45),
	}
	svc, eventRepo, _ := newTimetableFixture(events, nil, false, nil)

	report, err := svc.Analyze(context.Background(), dto.TimetableQuery{Formation: "Informatique"})
	require.NoError(t, err)

	assert.Equal(t, "Informatique", eventRepo.lastFilter.Formation)
	assert.Equal(t, 3, report.EventsAnalysed)
	require.Len(t, report.Conflicts, 3)
	assert.Equal(t, conflict.TypeRoom, report.Conflicts[0].Type)
	assert.Equal(t, conflict.TypeTeacher, report.Conflicts[1].Type)
	assert.Equal(t, conflict.TypeCapacity, report.Conflicts[2].Type)
	assert.Equal(t, 2, report.Summary.BySeverity[conflict.SeverityHigh])
	assert.Equal(t, 1, report.Summary.BySeverity[conflict.SeverityMedium])
}

func TestTimetableServiceStoredCapacitiesOverrideDefaults(t *testing.T) {
	events := []models.TimetableEvent{event("E1", "Dr. Haddad", "Salle 202", "Mardi", "08:00", "09:30", 45)}
	svc, _, _ := newTimetableFixture(events, []models.Room{{Name: "Salle 202", Capacity: 50}}, false, nil)

	report, err := svc.Analyze(context.Background(), dto.TimetableQuery{})
	require.NoError(t, err)
	assert.Empty(t, report.Conflicts)

	rooms, err := svc.Rooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, len(conflict.DefaultRoomCapacities))
	assert.Equal(t, "Amphi A", rooms[0].Name)
	for _, room := range rooms {
		if room.Name == "Salle 202" {
			assert.Equal(t, 50, room.Capacity)
		}
	}
}

func TestTimetableServiceStrictModeRejectsMalformedEvents(t *testing.T) {
	events := []models.TimetableEvent{
		event("E1", "Dr. Benali", "Salle 101", "Lundi", "10:00", "09:00", 20),
		event("E2", "Dr. Benali", "Salle 101", "Lundi", "8h", "09:00", 20),
	}
	svc, _, _ := newTimetableFixture(events, nil, true, nil)

	_, err := svc.Analyze(context.Background(), dto.TimetableQuery{})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrMalformedTimetable.Code, appErr.Code)
	issues, ok := appErr.Details.([]conflict.EventIssue)
	require.True(t, ok)
	require.Len(t, issues, 2)
	assert.Equal(t, "E1", issues[0].EventID)

	permissive := false
	report, err := svc.Analyze(context.Background(), dto.TimetableQuery{Strict: &permissive})
	require.NoError(t, err)
	assert.Empty(t, report.Conflicts)
}

func TestTimetableServiceRejectsUnknownDay(t *testing.T) {
	svc, _, _ := newTimetableFixture(nil, nil, false, nil)
	_, err := svc.Analyze(context.Background(), dto.TimetableQuery{Day: "Dimanche"})
	require.Error(t, err)
}

func TestTimetableServiceCachesPerScope(t *testing.T) {
	cacheRepo := newMemoryCacheRepo()
	svc, _, _ := newTimetableFixture(nil, nil, false, cacheRepo)

	_, err := svc.Analyze(context.Background(), dto.TimetableQuery{Day: "Lundi"})
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), dto.TimetableQuery{})
	require.NoError(t, err)

	assert.True(t, cacheRepo.has("conflicts:timetable:all:all:Lundi:all:false"))
	assert.True(t, cacheRepo.has("conflicts:timetable:all:all:all:all:false"))
}

func TestTimetableServiceSetRoomCapacity(t *testing.T) {
	svc, _, roomRepo := newTimetableFixture(nil, nil, false, nil)
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	room, err := svc.SetRoomCapacity(context.Background(), " Salle 303 ", dto.RoomRequest{Capacity: 35})
	require.NoError(t, err)
	assert.Equal(t, "Salle 303", room.Name)
	require.Len(t, roomRepo.upserted, 1)
	assert.Equal(t, []string{DomainTimetable}, notifier.domains)

	_, err = svc.SetRoomCapacity(context.Background(), "Salle 303", dto.RoomRequest{Capacity: 0})
	assert.Error(t, err)
}
