package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-admin-api/internal/conflict"
	"github.com/noah-isme/univ-admin-api/internal/dto"
	"github.com/noah-isme/univ-admin-api/internal/models"
	appErrors "github.com/noah-isme/univ-admin-api/pkg/errors"
)

type timetableEventReader interface {
	List(ctx context.Context, filter models.TimetableEventFilter) ([]models.TimetableEvent, error)
}

type roomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
	Upsert(ctx context.Context, room *models.Room) error
}

// TimetableServiceConfig carries the base capacity table and strict mode default.
type TimetableServiceConfig struct {
	RoomCapacities   map[string]int
	StrictTimeRanges bool
	CacheTTL         time.Duration
}

// TimetableService loads event snapshots and runs the timetable detector over them.
type TimetableService struct {
	events    timetableEventReader
	rooms     roomRepository
	cache     *CacheService
	metrics   *MetricsService
	notifier  changeNotifier
	cfg       TimetableServiceConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(events timetableEventReader, rooms roomRepository, cache *CacheService, metrics *MetricsService, cfg TimetableServiceConfig, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RoomCapacities == nil {
		cfg.RoomCapacities = conflict.DefaultRoomCapacities
	}
	return &TimetableService{
		events:    events,
		rooms:     rooms,
		cache:     cache,
		metrics:   metrics,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// SetNotifier registers the collaborator told about room capacity changes.
func (s *TimetableService) SetNotifier(n changeNotifier) {
	s.notifier = n
}

// Strict reports whether query runs with strict range checking.
func (s *TimetableService) Strict(query dto.TimetableQuery) bool {
	if query.Strict != nil {
		return *query.Strict
	}
	return s.cfg.StrictTimeRanges
}

// Analyze returns the timetable report for the events in scope.
func (s *TimetableService) Analyze(ctx context.Context, query dto.TimetableQuery) (*dto.TimetableReport, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable query")
	}

	strict := s.Strict(query)
	query.Strict = &strict
	key := s.cacheKey(query)

	var cached dto.TimetableReport
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	gen := s.cache.Generation(DomainTimetable)
	report, err := s.compute(ctx, query)
	if err != nil {
		return nil, err
	}
	_, _ = s.cache.SetIfCurrent(ctx, DomainTimetable, gen, key, report, s.cfg.CacheTTL)
	return report, nil
}

// Warm recomputes the unscoped report and stores it in cache.
func (s *TimetableService) Warm(ctx context.Context) error {
	strict := s.cfg.StrictTimeRanges
	query := dto.TimetableQuery{Strict: &strict}
	gen := s.cache.Generation(DomainTimetable)
	report, err := s.compute(ctx, query)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrMalformedTimetable.Code {
			s.logger.Warn("timetable not warmed, malformed events present")
			return nil
		}
		return err
	}
	_, err = s.cache.SetIfCurrent(ctx, DomainTimetable, gen, s.cacheKey(query), report, s.cfg.CacheTTL)
	return err
}

// Capacities merges the stored room table over the configured one.
func (s *TimetableService) Capacities(ctx context.Context) (map[string]int, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	stored := make(map[string]int, len(rooms))
	for _, room := range rooms {
		stored[room.Name] = room.Capacity
	}
	return conflict.MergeCapacities(s.cfg.RoomCapacities, stored), nil
}

// Rooms lists the effective capacity table sorted by room name.
func (s *TimetableService) Rooms(ctx context.Context) ([]models.Room, error) {
	capacities, err := s.Capacities(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]models.Room, 0, len(capacities))
	for name, capacity := range capacities {
		rooms = append(rooms, models.Room{Name: name, Capacity: capacity})
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms, nil
}

// SetRoomCapacity stores the capacity of a room and triggers a timetable recompute.
func (s *TimetableService) SetRoomCapacity(ctx context.Context, name string, req dto.RoomRequest) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "room name is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	room := &models.Room{Name: name, Capacity: req.Capacity}
	if err := s.rooms.Upsert(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save room")
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, DomainTimetable)
	}
	s.logger.Info("room capacity updated", zap.String("room", name), zap.Int("capacity", req.Capacity))
	return room, nil
}

func (s *TimetableService) compute(ctx context.Context, query dto.TimetableQuery) (*dto.TimetableReport, error) {
	loadStart := time.Now()
	events, err := s.events.List(ctx, models.TimetableEventFilter{
		Formation: query.Formation,
		Level:     query.Level,
		Day:       query.Day,
		Room:      query.Room,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable events")
	}
	capacities, err := s.Capacities(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveDBQuery("timetable_snapshot", time.Since(loadStart))

	if query.Strict != nil && *query.Strict {
		if issues := conflict.ValidateEvents(events); len(issues) > 0 {
			return nil, appErrors.WithDetails(appErrors.ErrMalformedTimetable, "timetable contains malformed events", issues)
		}
	}

	start := time.Now()
	conflicts := conflict.DetectTimetable(events, capacities)
	s.metrics.ObserveAnalysis(DomainTimetable, time.Since(start), conflicts)

	s.logger.Debug("timetable analysed", zap.Int("events", len(events)), zap.Int("conflicts", len(conflicts)))

	return &dto.TimetableReport{
		Scope:          query,
		EventsAnalysed: len(events),
		Conflicts:      conflicts,
		Summary:        conflict.Summarize(conflicts),
		GeneratedAt:    s.now().UTC(),
	}, nil
}

func (s *TimetableService) cacheKey(query dto.TimetableQuery) string {
	strict := query.Strict != nil && *query.Strict
	return ReportKey(DomainTimetable,
		orAll(query.Formation),
		orAll(query.Level),
		orAll(query.Day),
		orAll(query.Room),
		strconv.FormatBool(strict),
	)
}
