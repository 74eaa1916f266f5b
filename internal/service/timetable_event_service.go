package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-admin-api/internal/conflict"
	"github.com/noah-isme/univ-admin-api/internal/dto"
	"github.com/noah-isme/univ-admin-api/internal/models"
	appErrors "github.com/noah-isme/univ-admin-api/pkg/errors"
)

type timetableEventRepository interface {
	List(ctx context.Context, filter models.TimetableEventFilter) ([]models.TimetableEvent, error)
	FindByID(ctx context.Context, id string) (*models.TimetableEvent, error)
	Create(ctx context.Context, event *models.TimetableEvent) error
	Update(ctx context.Context, event *models.TimetableEvent) error
	Delete(ctx context.Context, id string) error
}

// TimetableEventService manages scheduled sessions. Clock values must parse; inverted ranges
// are refused only when strict ranges are enabled.
type TimetableEventService struct {
	repo      timetableEventRepository
	notifier  changeNotifier
	strict    bool
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableEventService constructs a TimetableEventService.
func NewTimetableEventService(repo timetableEventRepository, notifier changeNotifier, strict bool, validate *validator.Validate, logger *zap.Logger) *TimetableEventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableEventService{repo: repo, notifier: notifier, strict: strict, validator: validate, logger: logger}
}

// List returns the events in scope.
func (s *TimetableEventService) List(ctx context.Context, query dto.TimetableQuery) ([]models.TimetableEvent, error) {
	events, err := s.repo.List(ctx, models.TimetableEventFilter{
		Formation: query.Formation,
		Level:     query.Level,
		Day:       query.Day,
		Room:      query.Room,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable events")
	}
	if events == nil {
		events = []models.TimetableEvent{}
	}
	return events, nil
}

// Create stores a new event and schedules a timetable recompute.
func (s *TimetableEventService) Create(ctx context.Context, req dto.TimetableEventRequest) (*models.TimetableEvent, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	event := &models.TimetableEvent{}
	applyEventRequest(event, req)
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable event")
	}
	s.notify(ctx)
	return event, nil
}

// Update replaces an event and schedules a timetable recompute.
func (s *TimetableEventService) Update(ctx context.Context, id string, req dto.TimetableEventRequest) (*models.TimetableEvent, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable event")
	}
	applyEventRequest(event, req)
	if err := s.repo.Update(ctx, event); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable event")
	}
	s.notify(ctx)
	return event, nil
}

// Delete removes an event and schedules a timetable recompute.
func (s *TimetableEventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable event")
	}
	s.notify(ctx)
	return nil
}

func (s *TimetableEventService) check(req dto.TimetableEventRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable event payload")
	}
	start, err := conflict.ParseClock(req.StartTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start_time")
	}
	end, err := conflict.ParseClock(req.EndTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end_time")
	}
	if s.strict && end <= start {
		return appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	return nil
}

func applyEventRequest(event *models.TimetableEvent, req dto.TimetableEventRequest) {
	event.Subject = strings.TrimSpace(req.Subject)
	event.Type = models.EventType(req.Type)
	event.Teacher = strings.TrimSpace(req.Teacher)
	event.Formation = strings.TrimSpace(req.Formation)
	event.Level = strings.TrimSpace(req.Level)
	event.Group = strings.TrimSpace(req.Group)
	event.Room = strings.TrimSpace(req.Room)
	event.Day = req.Day
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.Students = req.Students
	event.Validated = req.Validated
	event.HasReservation = req.HasReservation
}

func (s *TimetableEventService) notify(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, DomainTimetable)
	}
}
