package service

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-admin-api/internal/conflict"
	"github.com/noah-isme/univ-admin-api/internal/dto"
	"github.com/noah-isme/univ-admin-api/internal/models"
	appErrors "github.com/noah-isme/univ-admin-api/pkg/errors"
)

type workloadTeacherReader interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
}

type workloadAssignmentReader interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
}

// WorkloadServiceConfig carries the policy constants and default thresholds.
type WorkloadServiceConfig struct {
	Policy     conflict.Policy
	Thresholds conflict.Thresholds
	CacheTTL   time.Duration
}

// WorkloadService loads teacher and assignment snapshots and runs the workload detector over them.
type WorkloadService struct {
	teachers    workloadTeacherReader
	assignments workloadAssignmentReader
	cache       *CacheService
	metrics     *MetricsService
	cfg         WorkloadServiceConfig
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewWorkloadService constructs a WorkloadService.
func NewWorkloadService(teachers workloadTeacherReader, assignments workloadAssignmentReader, cache *CacheService, metrics *MetricsService, cfg WorkloadServiceConfig, validate *validator.Validate, logger *zap.Logger) *WorkloadService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Policy.GradeMaxHours == nil {
		cfg.Policy = conflict.DefaultPolicy()
	}
	return &WorkloadService{
		teachers:    teachers,
		assignments: assignments,
		cache:       cache,
		metrics:     metrics,
		cfg:         cfg,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Thresholds resolves the thresholds of query against the configured defaults.
func (s *WorkloadService) Thresholds(query dto.WorkloadQuery) conflict.Thresholds {
	t := s.cfg.Thresholds
	if query.UnderloadThresholdPct != nil {
		t.UnderloadPct = *query.UnderloadThresholdPct
	}
	if query.OverloadThresholdPct != nil {
		t.OverloadPct = *query.OverloadThresholdPct
	}
	return t
}

// Analyze returns the workload report for query, served from cache when possible.
func (s *WorkloadService) Analyze(ctx context.Context, query dto.WorkloadQuery) (*dto.WorkloadReport, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid workload query")
	}

	thresholds := s.Thresholds(query)
	key := s.cacheKey(thresholds, query)

	var cached dto.WorkloadReport
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	gen := s.cache.Generation(DomainWorkload)
	report, err := s.compute(ctx, thresholds, query)
	if err != nil {
		return nil, err
	}
	_, _ = s.cache.SetIfCurrent(ctx, DomainWorkload, gen, key, report, s.cfg.CacheTTL)
	return report, nil
}

// Teachers returns every teacher with its derived load for query.
func (s *WorkloadService) Teachers(ctx context.Context, query dto.WorkloadQuery) ([]conflict.TeacherWorkload, error) {
	report, err := s.Analyze(ctx, query)
	if err != nil {
		return nil, err
	}
	return report.Teachers, nil
}

// TeacherWorkload returns the load and the conflicts of a single teacher.
func (s *WorkloadService) TeacherWorkload(ctx context.Context, teacherID string, query dto.WorkloadQuery) (*dto.TeacherWorkloadReport, error) {
	report, err := s.Analyze(ctx, query)
	if err != nil {
		return nil, err
	}
	for _, tw := range report.Teachers {
		if tw.ID != teacherID {
			continue
		}
		out := &dto.TeacherWorkloadReport{Workload: tw, Conflicts: make([]conflict.Conflict, 0)}
		for _, c := range report.Conflicts {
			if involves(c, teacherID, tw.Assignments) {
				out.Conflicts = append(out.Conflicts, c)
			}
		}
		return out, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
}

// involves matches load conflicts by teacher id and duplicates by assignment id.
func involves(c conflict.Conflict, teacherID string, owned []models.Assignment) bool {
	for _, ref := range c.Refs {
		if c.Type != conflict.TypeDuplicateAssignment {
			if ref == teacherID {
				return true
			}
			continue
		}
		for _, a := range owned {
			if a.ID == ref {
				return true
			}
		}
	}
	return false
}

// Warm recomputes the unscoped report with default thresholds and stores it in cache.
func (s *WorkloadService) Warm(ctx context.Context) error {
	query := dto.WorkloadQuery{}
	thresholds := s.Thresholds(query)
	gen := s.cache.Generation(DomainWorkload)
	report, err := s.compute(ctx, thresholds, query)
	if err != nil {
		return err
	}
	_, err = s.cache.SetIfCurrent(ctx, DomainWorkload, gen, s.cacheKey(thresholds, query), report, s.cfg.CacheTTL)
	return err
}

func (s *WorkloadService) compute(ctx context.Context, thresholds conflict.Thresholds, query dto.WorkloadQuery) (*dto.WorkloadReport, error) {
	loadStart := time.Now()
	teachers, _, err := s.teachers.List(ctx, models.TeacherFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	assignments, err := s.assignments.List(ctx, models.AssignmentFilter{Semester: query.Semester, SpecialtyID: query.SpecialtyID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	s.metrics.ObserveDBQuery("workload_snapshot", time.Since(loadStart))

	start := time.Now()
	workloads := conflict.BuildWorkloads(teachers, assignments, s.cfg.Policy, thresholds)
	conflicts := conflict.DetectWorkload(workloads, assignments, s.cfg.Policy.DetectorConfig(thresholds))
	s.metrics.ObserveAnalysis(DomainWorkload, time.Since(start), conflicts)

	s.logger.Debug("workload analysed",
		zap.Int("teachers", len(workloads)),
		zap.Int("assignments", len(assignments)),
		zap.Int("conflicts", len(conflicts)),
	)

	return &dto.WorkloadReport{
		Thresholds:  thresholds,
		Semester:    query.Semester,
		SpecialtyID: query.SpecialtyID,
		Teachers:    workloads,
		Conflicts:   conflicts,
		Summary:     conflict.Summarize(conflicts),
		GeneratedAt: s.now().UTC(),
	}, nil
}

func (s *WorkloadService) cacheKey(t conflict.Thresholds, query dto.WorkloadQuery) string {
	return ReportKey(DomainWorkload,
		strconv.FormatFloat(t.UnderloadPct, 'f', -1, 64),
		strconv.FormatFloat(t.OverloadPct, 'f', -1, 64),
		orAll(query.Semester),
		orAll(query.SpecialtyID),
	)
}

func orAll(value string) string {
	if value == "" {
		return "all"
	}
	return value
}
