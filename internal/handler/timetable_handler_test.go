package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univ-admin-api/internal/conflict"
	"github.com/noah-isme/univ-admin-api/internal/dto"
	"github.com/noah-isme/univ-admin-api/internal/models"
	appErrors "github.com/noah-isme/univ-admin-api/pkg/errors"
)

type fakeTimetableService struct {
	report    *dto.TimetableReport
	err       error
	lastQuery dto.TimetableQuery
	roomName  string
}

func (f *fakeTimetableService) Analyze(_ context.Context, query dto.TimetableQuery) (*dto.TimetableReport, error) {
	f.lastQuery = query
	return f.report, f.err
}

func (f *fakeTimetableService) Rooms(context.Context) ([]models.Room, error) {
	return []models.Room{{Name: "Amphi A", Capacity: 200}}, nil
}

func (f *fakeTimetableService) SetRoomCapacity(_ context.Context, name string, req dto.RoomRequest) (*models.Room, error) {
	f.roomName = name
	return &models.Room{Name: name, Capacity: req.Capacity}, nil
}

type fakeEventService struct {
	created   *dto.TimetableEventRequest
	updatedID string
	deleteErr error
}

func (f *fakeEventService) List(context.Context, dto.TimetableQuery) ([]models.TimetableEvent, error) {
	return []models.TimetableEvent{}, nil
}

func (f *fakeEventService) Create(_ context.Context, req dto.TimetableEventRequest) (*models.TimetableEvent, error) {
	f.created = &req
	return &models.TimetableEvent{ID: "e-new", Subject: req.Subject}, nil
}

func (f *fakeEventService) Update(_ context.Context, id string, req dto.TimetableEventRequest) (*models.TimetableEvent, error) {
	f.updatedID = id
	return &models.TimetableEvent{ID: id, Subject: req.Subject}, nil
}

func (f *fakeEventService) Delete(context.Context, string) error {
	return f.deleteErr
}

func TestTimetableHandlerConflictsStrictFlag(t *testing.T) {
	svc := &fakeTimetableService{report: &dto.TimetableReport{Conflicts: []conflict.Conflict{}, Summary: conflict.Summarize(nil)}}
	handler := NewTimetableHandler(svc, &fakeEventService{})

	c, rec := newTestContext(http.MethodGet, "/timetable/conflicts?day=Lundi&strict=true", nil)
	handler.Conflicts(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lundi", svc.lastQuery.Day)
	require.NotNil(t, svc.lastQuery.Strict)
	assert.True(t, *svc.lastQuery.Strict)
	assert.Equal(t, false, decodeEnvelope(t, rec).Meta["blocking"])
}

func TestTimetableHandlerMalformedTimetable(t *testing.T) {
	issues := []conflict.EventIssue{{EventID: "E1", Reason: "inverted time range"}}
	svc := &fakeTimetableService{err: appErrors.WithDetails(appErrors.ErrMalformedTimetable, "timetable contains malformed events", issues)}
	handler := NewTimetableHandler(svc, &fakeEventService{})

	c, rec := newTestContext(http.MethodGet, "/timetable/conflicts", nil)
	handler.Conflicts(c)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Contains(t, string(envelope.Error.Details), "E1")
}

func TestTimetableHandlerCreateEvent(t *testing.T) {
	events := &fakeEventService{}
	handler := NewTimetableHandler(&fakeTimetableService{}, events)

	c, rec := newTestContext(http.MethodPost, "/timetable/events", map[string]interface{}{
		"subject": "Analyse", "type": "cours", "teacher": "Dr. Benali", "formation": "Informatique",
		"level": "L1", "room": "Amphi A", "day": "Lundi", "start_time": "08:00", "end_time": "09:30", "students": 120,
	})
	handler.CreateEvent(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, events.created)
	assert.Equal(t, 120, events.created.Students)
}

func TestTimetableHandlerUpdateAndDeleteEvent(t *testing.T) {
	events := &fakeEventService{deleteErr: appErrors.Wrap(sql.ErrNoRows, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "timetable event not found")}
	handler := NewTimetableHandler(&fakeTimetableService{}, events)

	c, rec := newTestContext(http.MethodPut, "/timetable/events/E1", map[string]interface{}{"subject": "Algèbre"})
	c.Params = gin.Params{{Key: "id", Value: "E1"}}
	handler.UpdateEvent(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "E1", events.updatedID)

	c, rec = newTestContext(http.MethodDelete, "/timetable/events/E9", nil)
	c.Params = gin.Params{{Key: "id", Value: "E9"}}
	handler.DeleteEvent(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTimetableHandlerDeleteEvent(t *testing.T) {
	handler := NewTimetableHandler(&fakeTimetableService{}, &fakeEventService{})

	c, rec := newTestContext(http.MethodDelete, "/timetable/events/E1", nil)
	c.Params = gin.Params{{Key: "id", Value: "E1"}}
	handler.DeleteEvent(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestTimetableHandlerRooms(t *testing.T) {
	svc := &fakeTimetableService{}
	handler := NewTimetableHandler(svc, &fakeEventService{})

	c, rec := newTestContext(http.MethodGet, "/timetable/rooms", nil)
	handler.Rooms(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newTestContext(http.MethodPut, "/timetable/rooms/Salle%20303", map[string]int{"capacity": 35})
	c.Params = gin.Params{{Key: "name", Value: "Salle 303"}}
	handler.SetRoom(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Salle 303", svc.roomName)
}
