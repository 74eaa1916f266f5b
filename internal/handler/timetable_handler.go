package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-admin-api/internal/dto"
	"github.com/noah-isme/univ-admin-api/internal/models"
	appErrors "github.com/noah-isme/univ-admin-api/pkg/errors"
	"github.com/noah-isme/univ-admin-api/pkg/response"
)

type timetableService interface {
	Analyze(ctx context.Context, query dto.TimetableQuery) (*dto.TimetableReport, error)
	Rooms(ctx context.Context) ([]models.Room, error)
	SetRoomCapacity(ctx context.Context, name string, req dto.RoomRequest) (*models.Room, error)
}

type timetableEventService interface {
	List(ctx context.Context, query dto.TimetableQuery) ([]models.TimetableEvent, error)
	Create(ctx context.Context, req dto.TimetableEventRequest) (*models.TimetableEvent, error)
	Update(ctx context.Context, id string, req dto.TimetableEventRequest) (*models.TimetableEvent, error)
	Delete(ctx context.Context, id string) error
}

// TimetableHandler exposes timetable events, rooms and conflict analysis.
type TimetableHandler struct {
	analysis timetableService
	events   timetableEventService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(analysis timetableService, events timetableEventService) *TimetableHandler {
	return &TimetableHandler{analysis: analysis, events: events}
}

// Conflicts godoc
// @Summary Detect timetable conflicts
// @Description Reports room, teacher and group double-bookings plus room capacity overflows.
// @Tags Timetable
// @Produce json
// @Param formation query string false "Formation"
// @Param level query string false "Level"
// @Param day query string false "Day (Lundi..Samedi)"
// @Param room query string false "Room"
// @Param strict query bool false "Reject malformed time ranges instead of ignoring them"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /timetable/conflicts [get]
func (h *TimetableHandler) Conflicts(c *gin.Context) {
	query, ok := bindTimetableQuery(c)
	if !ok {
		return
	}
	report, err := h.analysis.Analyze(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil, map[string]interface{}{
		"total":    report.Summary.Total,
		"blocking": report.Summary.Blocking,
	})
}

// ListEvents godoc
// @Summary List timetable events
// @Tags Timetable
// @Produce json
// @Param formation query string false "Formation"
// @Param level query string false "Level"
// @Param day query string false "Day"
// @Param room query string false "Room"
// @Success 200 {object} response.Envelope
// @Router /timetable/events [get]
func (h *TimetableHandler) ListEvents(c *gin.Context) {
	query, ok := bindTimetableQuery(c)
	if !ok {
		return
	}
	events, err := h.events.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// CreateEvent godoc
// @Summary Schedule a session
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.TimetableEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /timetable/events [post]
func (h *TimetableHandler) CreateEvent(c *gin.Context) {
	var req dto.TimetableEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable event payload"))
		return
	}
	event, err := h.events.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// UpdateEvent godoc
// @Summary Replace a scheduled session
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.TimetableEventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/events/{id} [put]
func (h *TimetableHandler) UpdateEvent(c *gin.Context) {
	var req dto.TimetableEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable event payload"))
		return
	}
	event, err := h.events.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// DeleteEvent godoc
// @Summary Remove a scheduled session
// @Tags Timetable
// @Param id path string true "Event ID"
// @Success 204
// @Router /timetable/events/{id} [delete]
func (h *TimetableHandler) DeleteEvent(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Rooms godoc
// @Summary List room capacities
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/rooms [get]
func (h *TimetableHandler) Rooms(c *gin.Context) {
	rooms, err := h.analysis.Rooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// SetRoom godoc
// @Summary Set a room capacity
// @Tags Timetable
// @Accept json
// @Produce json
// @Param name path string true "Room name"
// @Param payload body dto.RoomRequest true "Capacity payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/rooms/{name} [put]
func (h *TimetableHandler) SetRoom(c *gin.Context) {
	var req dto.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room payload"))
		return
	}
	room, err := h.analysis.SetRoomCapacity(c.Request.Context(), c.Param("name"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

func bindTimetableQuery(c *gin.Context) (dto.TimetableQuery, bool) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable query"))
		return query, false
	}
	return query, true
}
